package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/klikinsaastaja/internal/mcp/tools/types"
)

type SectionSearchService interface {
	SearchSections(ctx context.Context, query, lang string, limit int) ([]types.SectionResult, error)
}

type SearchWikiHandler struct {
	Service SectionSearchService
}

func (h *SearchWikiHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query := stringArgument(args, "query")
	if query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	lang := stringArgument(args, "lang")
	limit := limitArgument(args, "limit", defaultLimit)

	results, err := h.Service.SearchSections(ctx, query, lang, limit)
	if err != nil {
		return nil, err
	}

	response := struct {
		Query   string                `json:"query"`
		Lang    string                `json:"lang,omitempty"`
		Results []types.SectionResult `json:"results"`
		Total   int                   `json:"total_found"`
	}{Query: query, Lang: lang, Results: results, Total: len(results)}

	return mcp.NewToolResultText(string(mustMarshal(response))), nil
}
