package agent

import (
	"errors"
	"testing"
)

const taggedReply = "Tässä analyysi:\n\n```json\n[\n  {\"lang\": \"fi\", \"name\": \"Elinkeinoelämän keskusliitto\", \"wikipedia query\": \"Elinkeinoelämän keskusliitto\", \"reasoning\": \"Työnantajien etujärjestö.\", \"rag query\": \"EK työmarkkinauudistus\"},\n  {\"lang\": \"fi\", \"name\": \"\", \"reasoning\": \"tyhjä\"}\n]\n```\n\nMuuta?"

func TestParseResponse_TaggedBlock(t *testing.T) {
	groups, err := ParseResponse(taggedReply)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected nameless groups dropped, got %d", len(groups))
	}
	g := groups[0]
	if g.Name != "Elinkeinoelämän keskusliitto" || g.WikipediaQuery != "Elinkeinoelämän keskusliitto" || g.RAGQuery != "EK työmarkkinauudistus" || g.Lang != "fi" {
		t.Fatalf("unexpected group %+v", g)
	}
}

func TestParseResponse_PrefersJSONTag(t *testing.T) {
	reply := "```\n[{\"name\": \"untagged\"}]\n```\n\n```json\n[{\"name\": \"tagged\"}]\n```\n"
	groups, err := ParseResponse(reply)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "tagged" {
		t.Fatalf("expected the json block, got %+v", groups)
	}
}

func TestParseResponse_Fallbacks(t *testing.T) {
	cases := map[string]string{
		"untagged block": "```\n[{\"name\": \"A\"}]\n```",
		"bare array":     "  [{\"name\": \"A\"}]\n",
		"single object":  "```json\n{\"name\": \"A\"}\n```",
	}
	for name, reply := range cases {
		groups, err := ParseResponse(reply)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if len(groups) != 1 || groups[0].Name != "A" {
			t.Errorf("%s: unexpected groups %+v", name, groups)
		}
	}
}

func TestParseResponse_Errors(t *testing.T) {
	if _, err := ParseResponse("En osaa sanoa."); !errors.Is(err, ErrNoJSONBlock) {
		t.Fatalf("expected ErrNoJSONBlock, got %v", err)
	}
	if _, err := ParseResponse("```json\n[{'name': 'A'}]\n```"); err == nil {
		t.Fatalf("expected decode error for single-quoted json")
	}
	if _, err := ParseResponse("```json\n\"text\"\n```"); err == nil {
		t.Fatalf("expected error for non-array json")
	}
}
