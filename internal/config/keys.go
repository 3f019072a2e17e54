package config

const (
	KeyPostgresURL       = "postgres_url"
	KeyOllamaURL         = "ollama_url"
	KeyLogLevel          = "log_level"
	KeyEmbeddingModel    = "embedding_model_name"
	KeyChatModel         = "chat_model_name"
	KeyLocale            = "locale"
	KeyLocalesFile       = "wiki_locales_file"
	KeyWikiTopK          = "wiki_top_k"
	KeyHTTPTimeout       = "http_timeout"
	KeyLLMCallTimeout    = "llm_call_timeout"
	KeyAutoMigrate       = "auto_migrate"
	KeyMigrationsDir     = "db_migrations_dir"
	KeyDBDebug           = "db_debug"
	KeyIndexChunkTokens  = "index_chunk_tokens"
	KeyIndexChunkOverlap = "index_chunk_overlap"
	KeyPromptFile        = "prompt_file"
	KeySearchLimit       = "search_limit"
)
