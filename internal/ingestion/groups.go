package ingestion

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/roivaz/klikinsaastaja/internal/agent"
)

// ReadGroups loads interest groups from a file written by analyze. Both
// the full analysis object and a bare group array are accepted.
func ReadGroups(path string) ([]agent.InterestGroup, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read groups: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("read groups %s: invalid json", path)
	}
	list := gjson.ParseBytes(raw)
	if !list.IsArray() {
		list = list.Get("groups")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("read groups %s: no group list", path)
	}
	var groups []agent.InterestGroup
	if err := json.Unmarshal([]byte(list.Raw), &groups); err != nil {
		return nil, fmt.Errorf("decode groups: %w", err)
	}
	return groups, nil
}

// WriteAnalysis stores an analysis as indented JSON.
func WriteAnalysis(path string, analysis agent.Analysis) error {
	raw, err := json.MarshalIndent(analysis, "", "    ")
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write analysis: %w", err)
	}
	return nil
}
