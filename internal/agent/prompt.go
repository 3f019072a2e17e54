package agent

import (
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

const defaultInstructions = `The following news article may contain content from interest groups or people who have a vested interest in the topic.
Based on the article, list the people or groups who may have a vested interest in the topic:
- Vested interest groups
- Interviewed people
- People mentioned in the article
- People or groups affected by the topic

Give the reasoning for each interest group and how it relates to the article.
Include a Wikipedia API compatible query to find more information about the group or person.
Write a search query to find more information about the group or person in the context of possible bias or vested interest. Detail the issue in the context of the article. Be specific and use as much information and context from the article as possible.

Page URL: {{.url}}
Page title: {{.title}}

Answer with a single JSON code block using this template:
` + "```json" + `
[
    {
        "lang": "{language code of the article}",
        "name": "{group or person name}",
        "wikipedia query": "{query to find more information about the group or person}",
        "reasoning": "{reasoning for the vested interest}",
        "rag query": "{search query relating the group or person to the article}"
    }
]
` + "```" + `
`

// Prompt renders the instructions sent with each article.
type Prompt struct {
	template prompts.PromptTemplate
}

// NewPrompt parses a Go template using the url and title variables.
func NewPrompt(text string) (*Prompt, error) {
	if strings.TrimSpace(text) == "" {
		text = defaultInstructions
	}
	pt := prompts.NewPromptTemplate(text, []string{"url", "title"})
	if _, err := pt.Format(map[string]any{"url": "", "title": ""}); err != nil {
		return nil, fmt.Errorf("invalid prompt template: %w", err)
	}
	return &Prompt{template: pt}, nil
}

// LoadPrompt reads an override template from path, or returns the built-in
// instructions when path is empty.
func LoadPrompt(path string) (*Prompt, error) {
	if strings.TrimSpace(path) == "" {
		return NewPrompt("")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}
	return NewPrompt(string(raw))
}

func (p *Prompt) Render(url, title string) (string, error) {
	return p.template.Format(map[string]any{"url": url, "title": title})
}
