package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/klikinsaastaja/internal/mcp/tools/types"
)

type LiveWikiService interface {
	WikiSections(ctx context.Context, query, lang string, limit int) ([]types.WikiDocument, error)
}

// WikiSectionsHandler decomposes live Wikipedia pages without touching the
// store.
type WikiSectionsHandler struct {
	Service LiveWikiService
}

func (h *WikiSectionsHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query := stringArgument(args, "query")
	if query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	lang := stringArgument(args, "lang")
	limit := limitArgument(args, "limit", 0)

	docs, err := h.Service.WikiSections(ctx, query, lang, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(mustMarshal(docs))), nil
}
