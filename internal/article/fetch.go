// Package article downloads news articles and renders them as Markdown.
package article

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/roivaz/klikinsaastaja/internal/logging"
)

const (
	minContentLength = 100
	maxPageSize      = 8 << 20
	userAgent        = "Mozilla/5.0 (compatible; klikinsaastaja/1.0)"
)

var ErrContentTooShort = errors.New("article content too short")

// Article is a fetched page reduced to its readable content.
type Article struct {
	URL      string // final URL after redirects
	Title    string
	Markdown string
	Outlet   string
}

type Fetcher struct {
	client   *http.Client
	registry *Registry
	log      logging.Logger
}

func NewFetcher(client *http.Client, registry *Registry, log logging.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if registry == nil {
		registry = DefaultRegistry(log)
	}
	return &Fetcher{client: client, registry: registry, log: log.WithName("article")}
}

// Fetch downloads url and extracts title and body. Pages whose rendered
// body is shorter than 100 characters fail with ErrContentTooShort.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Article, error) {
	outlet := f.registry.Match(url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	a := &Article{
		URL:    resp.Request.URL.String(),
		Title:  findTitle(doc),
		Outlet: outlet.Name,
	}
	root := findElement(doc, "article")
	if root == nil {
		root = findElement(doc, "body")
	}
	if root == nil {
		root = doc
	}
	a.Markdown = Markdown(root)

	length := utf8.RuneCountInString(a.Markdown)
	f.log.Debug("extracted article", "url", a.URL, "outlet", a.Outlet, "title", a.Title, "length", length)
	if length < minContentLength {
		return nil, fmt.Errorf("%s: %d characters: %w", url, length, ErrContentTooShort)
	}
	return a, nil
}

// findTitle prefers og:title over the <title> element.
func findTitle(doc *html.Node) string {
	var og, plain string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if og == "" && attr(n, "property") == "og:title" {
					og = strings.TrimSpace(attr(n, "content"))
				}
			case "title":
				if plain == "" {
					plain = collapse(rawText(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if og != "" {
		return og
	}
	return plain
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
