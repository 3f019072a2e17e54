package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/klikinsaastaja/internal/agent"
	"github.com/roivaz/klikinsaastaja/internal/article"
	"github.com/roivaz/klikinsaastaja/internal/mcp/tools/types"
)

type ArticleAnalyzer interface {
	Analyze(ctx context.Context, url string) (agent.Analysis, error)
}

type AnalyzeArticleHandler struct {
	Service ArticleAnalyzer
}

func (h *AnalyzeArticleHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := stringArgument(req.GetArguments(), "url")
	if raw == "" {
		return mcp.NewToolResultError("url parameter is required"), nil
	}
	if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return mcp.NewToolResultError("url must be an absolute http(s) URL"), nil
	}

	analysis, err := h.Service.Analyze(ctx, raw)
	switch {
	case errors.Is(err, article.ErrContentTooShort), errors.Is(err, agent.ErrNoJSONBlock):
		return mcp.NewToolResultError(err.Error()), nil
	case err != nil:
		return nil, err
	}

	payload, err := json.Marshal(toArticleAnalysis(analysis))
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func toArticleAnalysis(a agent.Analysis) types.ArticleAnalysis {
	out := types.ArticleAnalysis{URL: a.URL, Title: a.Title, Outlet: a.Outlet, Groups: make([]types.InterestGroup, 0, len(a.Groups))}
	for _, g := range a.Groups {
		out.Groups = append(out.Groups, types.InterestGroup{
			Lang:           g.Lang,
			Name:           g.Name,
			WikipediaQuery: g.WikipediaQuery,
			Reasoning:      g.Reasoning,
			RAGQuery:       g.RAGQuery,
		})
	}
	return out
}
