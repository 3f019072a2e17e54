package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/roivaz/klikinsaastaja/internal/logging"
)

const (
	maxQueryLength  = 300
	maxResponseSize = 16 << 20
	defaultTopK     = 3
	userAgent       = "klikinsaastaja/1.0 (wikipedia section loader)"
)

var (
	ErrPageNotFound   = errors.New("page not found")
	ErrDisambiguation = errors.New("disambiguation page")
)

type LoaderConfig struct {
	Lang       string
	TopK       int
	Endpoint   string // defaults to https://{lang}.wikipedia.org/w/api.php
	HTTPClient *http.Client
}

// Loader fetches pages from the MediaWiki Action API and assembles them
// into documents.
type Loader struct {
	cfg       LoaderConfig
	client    *http.Client
	assembler *Assembler
	log       logging.Logger
}

func NewLoader(cfg LoaderConfig, assembler *Assembler, log logging.Logger) *Loader {
	cfg.Lang = NormalizeLocale(cfg.Lang)
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = fmt.Sprintf("https://%s.wikipedia.org/w/api.php", cfg.Lang)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{cfg: cfg, client: client, assembler: assembler, log: log.WithName("wiki.loader").WithValues("lang", cfg.Lang)}
}

// Lang is the wiki language the loader talks to.
func (l *Loader) Lang() string { return l.cfg.Lang }

// Load returns the documents of every page matching query. The first page
// that fails to decompose aborts the call.
func (l *Loader) Load(ctx context.Context, query string) ([]Document, error) {
	pages, err := l.Pages(ctx, query)
	if err != nil {
		return nil, err
	}
	var docs []Document
	for _, page := range pages {
		l.log.Debug("loading page", "title", page.Title)
		pageDocs, err := l.assembler.Assemble(page)
		if err != nil {
			return nil, err
		}
		docs = append(docs, pageDocs...)
	}
	return docs, nil
}

// LoadAll is Load for batch callers: pages that fail to decompose
// are logged and skipped. Only search failures are returned.
func (l *Loader) LoadAll(ctx context.Context, query string) ([]Document, error) {
	pages, err := l.Pages(ctx, query)
	if err != nil {
		return nil, err
	}
	var docs []Document
	for _, page := range pages {
		pageDocs, err := l.assembler.Assemble(page)
		if err != nil {
			l.log.Error(err, "skipping page", "title", page.Title)
			continue
		}
		docs = append(docs, pageDocs...)
	}
	return docs, nil
}

// Pages searches for query and fetches the top results. Missing and
// disambiguation pages are skipped.
func (l *Loader) Pages(ctx context.Context, query string) ([]RawPage, error) {
	titles, err := l.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	pages := make([]RawPage, 0, len(titles))
	for _, title := range titles {
		page, err := l.Page(ctx, title)
		if errors.Is(err, ErrPageNotFound) || errors.Is(err, ErrDisambiguation) {
			l.log.Debug("skipping page", "title", title, "reason", err.Error())
			continue
		}
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// Search returns up to TopK page titles for query.
func (l *Loader) Search(ctx context.Context, query string) ([]string, error) {
	query = truncateRunes(strings.TrimSpace(query), maxQueryLength)
	if query == "" {
		return nil, nil
	}
	body, err := l.call(ctx, url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {strconv.Itoa(l.cfg.TopK)},
		"srprop":   {""},
	})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	var titles []string
	for _, r := range gjson.GetBytes(body, "query.search.#.title").Array() {
		titles = append(titles, r.String())
	}
	return titles, nil
}

// Page fetches the full plain text (with == section == markers) and the
// intro summary of one page.
func (l *Loader) Page(ctx context.Context, title string) (RawPage, error) {
	body, err := l.call(ctx, url.Values{
		"action":          {"query"},
		"prop":            {"extracts|info|pageprops"},
		"titles":          {title},
		"explaintext":     {"1"},
		"exsectionformat": {"wiki"},
		"inprop":          {"url"},
		"ppprop":          {"disambiguation"},
		"redirects":       {"1"},
	})
	if err != nil {
		return RawPage{}, fmt.Errorf("fetch page %q: %w", title, err)
	}
	page := gjson.GetBytes(body, "query.pages.0")
	if !page.Exists() || page.Get("missing").Bool() || page.Get("invalid").Bool() {
		return RawPage{}, fmt.Errorf("%q: %w", title, ErrPageNotFound)
	}
	if page.Get("pageprops.disambiguation").Exists() {
		return RawPage{}, fmt.Errorf("%q: %w", title, ErrDisambiguation)
	}
	resolved := page.Get("title").String()

	summary, err := l.summary(ctx, resolved)
	if err != nil {
		return RawPage{}, err
	}

	return RawPage{
		Title:     resolved,
		Summary:   summary,
		RawMarkup: page.Get("extract").String(),
		Metadata: map[string]any{
			"title":   resolved,
			"summary": summary,
			"source":  page.Get("fullurl").String(),
			"lang":    l.cfg.Lang,
		},
	}, nil
}

// summary is not truncated; length limits belong to indexing.
func (l *Loader) summary(ctx context.Context, title string) (string, error) {
	body, err := l.call(ctx, url.Values{
		"action":      {"query"},
		"prop":        {"extracts"},
		"titles":      {title},
		"exintro":     {"1"},
		"explaintext": {"1"},
	})
	if err != nil {
		return "", fmt.Errorf("fetch summary %q: %w", title, err)
	}
	return gjson.GetBytes(body, "query.pages.0.extract").String(), nil
}

func (l *Loader) call(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("format", "json")
	params.Set("formatversion", "2")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.cfg.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mediawiki api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mediawiki api status %d: %s", resp.StatusCode, truncateRunes(string(body), 200))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("mediawiki api returned invalid json")
	}
	if apiErr := gjson.GetBytes(body, "error"); apiErr.Exists() {
		return nil, fmt.Errorf("mediawiki api error %s: %s", apiErr.Get("code").String(), apiErr.Get("info").String())
	}
	return body, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
