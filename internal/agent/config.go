package agent

import (
	"time"

	"github.com/roivaz/klikinsaastaja/internal/config"
	"github.com/roivaz/klikinsaastaja/internal/wiki"
)

type Config struct {
	ModelName   string
	OllamaURL   string
	PromptFile  string
	Lang        string // fallback for groups the model left without a language
	CallTimeout time.Duration
}

func LoadConfig() Config {
	return Config{
		ModelName:   config.ChatModel(),
		OllamaURL:   config.OllamaURL(),
		PromptFile:  config.PromptFile(),
		Lang:        wiki.NormalizeLocale(config.Locale()),
		CallTimeout: config.LLMCallTimeout(),
	}
}
