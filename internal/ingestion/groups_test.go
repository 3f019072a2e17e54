package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/roivaz/klikinsaastaja/internal/agent"
)

func TestReadGroups_RoundTripAnalysis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidosryhmat.json")
	analysis := agent.Analysis{
		URL:    "https://www.iltalehti.fi/a/1",
		Groups: []agent.InterestGroup{{Name: "SAK", Lang: "fi", WikipediaQuery: "SAK", RAGQuery: "SAK lakko"}},
	}
	if err := WriteAnalysis(path, analysis); err != nil {
		t.Fatalf("write: %v", err)
	}
	groups, err := ReadGroups(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(groups) != 1 || groups[0] != analysis.Groups[0] {
		t.Fatalf("unexpected groups %+v", groups)
	}
}

func TestReadGroups_BareArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.json")
	content := `[{"lang": "fi", "name": "EK", "wikipedia query": "Elinkeinoelämän keskusliitto", "reasoning": "r", "rag query": "EK"}]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	groups, err := ReadGroups(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(groups) != 1 || groups[0].WikipediaQuery != "Elinkeinoelämän keskusliitto" {
		t.Fatalf("unexpected groups %+v", groups)
	}
}

func TestReadGroups_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.json")
	if err := os.WriteFile(path, []byte(`{"url": "x"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadGroups(path); err == nil {
		t.Fatalf("expected error for missing groups")
	}
}
