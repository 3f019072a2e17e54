package types

type SectionResult struct {
	Title      string  `json:"title"`
	PageTitle  string  `json:"page_title"`
	Lang       string  `json:"lang"`
	Content    string  `json:"content"`
	SourceURL  *string `json:"source_url,omitempty"`
	Similarity float64 `json:"similarity"`
}

type WikiDocument struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	SourceURL string `json:"source_url,omitempty"`
}

type InterestGroup struct {
	Lang           string `json:"lang"`
	Name           string `json:"name"`
	WikipediaQuery string `json:"wikipedia_query"`
	Reasoning      string `json:"reasoning"`
	RAGQuery       string `json:"rag_query"`
}

type ArticleAnalysis struct {
	URL    string          `json:"url"`
	Title  string          `json:"title"`
	Outlet string          `json:"outlet"`
	Groups []InterestGroup `json:"groups"`
}
