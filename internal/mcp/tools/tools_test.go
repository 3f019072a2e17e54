package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/klikinsaastaja/internal/agent"
	"github.com/roivaz/klikinsaastaja/internal/article"
	"github.com/roivaz/klikinsaastaja/internal/mcp/tools/types"
	"github.com/roivaz/klikinsaastaja/internal/wiki"
)

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("empty result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return text.Text
}

type fakeSectionSearch struct {
	query, lang string
	limit       int
}

func (f *fakeSectionSearch) SearchSections(_ context.Context, query, lang string, limit int) ([]types.SectionResult, error) {
	f.query, f.lang, f.limit = query, lang, limit
	return []types.SectionResult{{Title: "SAK > Historia", PageTitle: "SAK", Lang: lang, Similarity: 0.9}}, nil
}

func TestSearchWikiHandler(t *testing.T) {
	svc := &fakeSectionSearch{}
	h := &SearchWikiHandler{Service: svc}

	res, err := h.ToolAdapter(context.Background(), callRequest(map[string]any{"query": " lakko ", "lang": "fi", "limit": float64(3)}))
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	if svc.query != "lakko" || svc.lang != "fi" || svc.limit != 3 {
		t.Fatalf("unexpected service args %+v", svc)
	}
	var body struct {
		Results []types.SectionResult `json:"results"`
		Total   int                   `json:"total_found"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 1 || body.Results[0].Title != "SAK > Historia" {
		t.Fatalf("unexpected body %+v", body)
	}

	res, err = h.ToolAdapter(context.Background(), callRequest(map[string]any{"limit": float64(-1)}))
	if err != nil || !res.IsError {
		t.Fatalf("expected tool error for missing query")
	}

	_, _ = h.ToolAdapter(context.Background(), callRequest(map[string]any{"query": "x", "limit": float64(-2)}))
	if svc.limit != defaultLimit {
		t.Fatalf("expected default limit, got %d", svc.limit)
	}
}

type fakeLoader struct {
	docs []wiki.Document
	err  error
}

func (f fakeLoader) LoadAll(context.Context, string) ([]wiki.Document, error) { return f.docs, f.err }

func TestWikiSectionsHandler(t *testing.T) {
	var gotLang string
	var gotTopK int
	adapter := &LiveWikiAdapter{
		DefaultLang: "fi",
		Loaders: func(lang string, topK int) DocumentLoader {
			gotLang, gotTopK = lang, topK
			return fakeLoader{docs: []wiki.Document{{
				Content:  "# SAK\n## Historia\nPerustettiin.",
				Metadata: map[string]any{"title": "SAK > Historia", "source": "https://fi.wikipedia.org/wiki/SAK"},
			}}}
		},
	}
	h := &WikiSectionsHandler{Service: adapter}
	res, err := h.ToolAdapter(context.Background(), callRequest(map[string]any{"query": "SAK"}))
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	if gotLang != "fi" || gotTopK != 0 {
		t.Fatalf("unexpected loader args %q %d", gotLang, gotTopK)
	}
	var docs []types.WikiDocument
	if err := json.Unmarshal([]byte(resultText(t, res)), &docs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(docs) != 1 || docs[0].Title != "SAK > Historia" || docs[0].SourceURL == "" {
		t.Fatalf("unexpected docs %+v", docs)
	}

	h.Service = &LiveWikiAdapter{DefaultLang: "fi", Loaders: func(string, int) DocumentLoader {
		return fakeLoader{err: fmt.Errorf("boom")}
	}}
	res, err = h.ToolAdapter(context.Background(), callRequest(map[string]any{"query": "SAK", "lang": "en-GB"}))
	if err != nil || !res.IsError || !strings.Contains(resultText(t, res), "en wikipedia") {
		t.Fatalf("expected tool error naming the language, got %v %v", res, err)
	}
}

type fakeAnalyzer struct {
	analysis agent.Analysis
	err      error
}

func (f fakeAnalyzer) Analyze(context.Context, string) (agent.Analysis, error) {
	return f.analysis, f.err
}

func TestAnalyzeArticleHandler(t *testing.T) {
	h := &AnalyzeArticleHandler{Service: fakeAnalyzer{analysis: agent.Analysis{
		URL:    "https://www.iltalehti.fi/a/1",
		Groups: []agent.InterestGroup{{Name: "SAK", Lang: "fi", WikipediaQuery: "SAK", RAGQuery: "SAK lakko"}},
	}}}
	res, err := h.ToolAdapter(context.Background(), callRequest(map[string]any{"url": "https://www.iltalehti.fi/a/1"}))
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	var out types.ArticleAnalysis
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Groups) != 1 || out.Groups[0].RAGQuery != "SAK lakko" {
		t.Fatalf("unexpected analysis %+v", out)
	}

	for _, bad := range []string{"", "ftp://x", "/relative"} {
		res, err := h.ToolAdapter(context.Background(), callRequest(map[string]any{"url": bad}))
		if err != nil || !res.IsError {
			t.Errorf("expected tool error for %q", bad)
		}
	}

	h.Service = fakeAnalyzer{err: fmt.Errorf("fetch: %w", article.ErrContentTooShort)}
	res, err = h.ToolAdapter(context.Background(), callRequest(map[string]any{"url": "https://x.fi/a"}))
	if err != nil || !res.IsError {
		t.Fatalf("expected tool error for short article")
	}
}
