package article

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roivaz/klikinsaastaja/internal/logging"
)

func TestLatestLister_SkipsSponsored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":[
			{"article_id":"abc","title":"Uutinen","category":{"category_name":"politiikka"}},
			{"article_id":"def","title":"Mainos","category":{"category_name":"kaupallinen"},"metadata":{"sponsored_content":true}},
			{"article_id":"ghi","title":"Urheilu","category":{"category_name":"urheilu"},"metadata":{}}
		]}`))
	}))
	defer srv.Close()

	l := NewLatestLister(srv.Client(), logging.Discard())
	l.Endpoint = srv.URL
	links, err := l.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0].URL != "https://www.iltalehti.fi/politiikka/a/abc" || links[0].Title != "Uutinen" {
		t.Fatalf("unexpected link %+v", links[0])
	}
	if links[1].URL != "https://www.iltalehti.fi/urheilu/a/ghi" {
		t.Fatalf("unexpected link %+v", links[1])
	}
}
