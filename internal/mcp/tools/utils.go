package tools

import (
	"encoding/json"
	"strings"
)

const defaultLimit = 10

func stringArgument(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

// limitArgument reads a positive number argument, falling back to def.
func limitArgument(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		if int(v) > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	}
	return def
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
