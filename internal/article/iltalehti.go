package article

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/roivaz/klikinsaastaja/internal/logging"
)

const iltalehtiLatestURL = "https://api.il.fi/v1/articles/iltalehti/lists/latest?limit=30&image_sizes[]=size138"

// Href is a link to an article.
type Href struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// LatestLister lists the newest Iltalehti articles.
type LatestLister struct {
	Endpoint string
	client   *http.Client
	log      logging.Logger
}

func NewLatestLister(client *http.Client, log logging.Logger) *LatestLister {
	if client == nil {
		client = http.DefaultClient
	}
	return &LatestLister{Endpoint: iltalehtiLatestURL, client: client, log: log.WithName("iltalehti")}
}

// Latest returns the current listing without sponsored content.
func (l *LatestLister) Latest(ctx context.Context) ([]Href, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list latest: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list latest: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("list latest: invalid json")
	}

	var out []Href
	for _, item := range gjson.GetBytes(body, "response").Array() {
		title := item.Get("title").String()
		if item.Get("metadata.sponsored_content").Bool() {
			l.log.Debug("skipping sponsored content", "title", title)
			continue
		}
		category := item.Get("category.category_name").String()
		id := item.Get("article_id").String()
		if category == "" || id == "" {
			continue
		}
		out = append(out, Href{
			URL:   fmt.Sprintf("https://www.iltalehti.fi/%s/a/%s", category, id),
			Title: title,
		})
	}
	return out, nil
}
