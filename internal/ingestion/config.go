package ingestion

import (
	"time"

	"github.com/roivaz/klikinsaastaja/internal/config"
	"github.com/roivaz/klikinsaastaja/internal/wiki"
)

type Config struct {
	PostgresURL    string
	OllamaURL      string
	EmbeddingModel string
	Lang           string // used for groups without a language
	LocalesFile    string
	TopK           int
	HTTPTimeout    time.Duration
	LLMCallTimeout time.Duration
	ChunkTokens    int
	ChunkOverlap   int
	SearchLimit    int
	AutoMigrate    bool
	MigrationsDir  string
	DBDebug        bool
}

func LoadConfig() Config {
	return Config{
		PostgresURL:    config.PostgresURL(),
		OllamaURL:      config.OllamaURL(),
		EmbeddingModel: config.EmbeddingModel(),
		Lang:           wiki.NormalizeLocale(config.Locale()),
		LocalesFile:    config.LocalesFile(),
		TopK:           config.WikiTopK(),
		HTTPTimeout:    config.HTTPTimeout(),
		LLMCallTimeout: config.LLMCallTimeout(),
		ChunkTokens:    config.IndexChunkTokens(),
		ChunkOverlap:   config.IndexChunkOverlap(),
		SearchLimit:    config.SearchLimit(),
		AutoMigrate:    config.AutoMigrate(),
		MigrationsDir:  config.MigrationsDir(),
		DBDebug:        config.DBDebug(),
	}
}
