package mcp

import "github.com/mark3labs/mcp-go/mcp"

var toolDefinitions = map[string]mcp.Tool{
	"search_wiki": mcp.NewTool("search_wiki",
		mcp.WithDescription("Semantic search across indexed Wikipedia sections. Returns section documents with breadcrumb titles, source URLs and similarity scores."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural language search query (e.g., 'trade union position on the strike law')"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
		mcp.WithString("lang",
			mcp.Description("Optional: Wikipedia language code to filter by (e.g., 'fi', 'en')"),
		),
	),
	"wiki_sections": mcp.NewTool("wiki_sections",
		mcp.WithDescription("Search Wikipedia live and return the matching pages decomposed into section documents, boilerplate sections removed. Nothing is stored."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Wikipedia search query (e.g., 'Suomen Ammattiliittojen Keskusjärjestö')"),
		),
		mcp.WithString("lang",
			mcp.Description("Wikipedia language code (default: configured locale)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of pages to load (default: wiki_top_k)"),
		),
	),
	"analyze_article": mcp.NewTool("analyze_article",
		mcp.WithDescription("Fetch a news article and list the people and groups with a possible vested interest in it, with Wikipedia and retrieval queries for each."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute URL of the news article"),
		),
	),
}
