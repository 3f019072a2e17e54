package agent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var ErrNoJSONBlock = errors.New("no json block in response")

// InterestGroup is one party with a possible vested interest in an article.
type InterestGroup struct {
	Lang           string `json:"lang"`
	Name           string `json:"name"`
	WikipediaQuery string `json:"wikipedia query"`
	Reasoning      string `json:"reasoning"`
	RAGQuery       string `json:"rag query"`
}

// ParseResponse extracts interest groups from a model reply. The first
// fenced block tagged json wins; an untagged block or a bare reply is used
// when it is valid JSON on its own.
func ParseResponse(reply string) ([]InterestGroup, error) {
	raw, err := extractJSON([]byte(reply))
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(raw)
	if parsed.IsObject() {
		raw = append(append([]byte{'['}, raw...), ']')
	} else if !parsed.IsArray() {
		return nil, fmt.Errorf("decode interest groups: expected array, got %s", parsed.Type)
	}

	var groups []InterestGroup
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("decode interest groups: %w", err)
	}
	out := groups[:0]
	for _, g := range groups {
		if strings.TrimSpace(g.Name) == "" {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func extractJSON(src []byte) ([]byte, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var tagged, untagged []byte
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		body := blockText(block, src)
		switch strings.ToLower(string(block.Language(src))) {
		case "json":
			tagged = body
			return ast.WalkStop, nil
		case "":
			if untagged == nil && gjson.ValidBytes(body) {
				untagged = body
			}
		}
		return ast.WalkSkipChildren, nil
	})

	switch {
	case tagged != nil:
		return tagged, nil
	case untagged != nil:
		return untagged, nil
	}
	if trimmed := bytes.TrimSpace(src); gjson.ValidBytes(trimmed) && len(trimmed) > 0 {
		return trimmed, nil
	}
	return nil, ErrNoJSONBlock
}

func blockText(block *ast.FencedCodeBlock, src []byte) []byte {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.Bytes()
}
