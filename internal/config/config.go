package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	_ = godotenv.Load(".env")
	_ = godotenv.Load("manifests/config.env")
	if root != nil {
		_ = viper.BindPFlags(root.PersistentFlags())
	}
	setDefaults()
}

func setDefaults() {
	viper.SetDefault(KeyOllamaURL, "http://localhost:11434")
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyEmbeddingModel, "nomic-embed-text")
	viper.SetDefault(KeyChatModel, "llama3.1")
	viper.SetDefault(KeyLocale, "fi_FI")
	viper.SetDefault(KeyWikiTopK, 3)
	viper.SetDefault(KeyHTTPTimeout, "30s")
	viper.SetDefault(KeyLLMCallTimeout, "2m")
	viper.SetDefault(KeyAutoMigrate, false)
	viper.SetDefault(KeyIndexChunkTokens, 512)
	viper.SetDefault(KeyIndexChunkOverlap, 64)
	viper.SetDefault(KeySearchLimit, 4)
}

func PostgresURL() string    { return viper.GetString(KeyPostgresURL) }
func OllamaURL() string      { return viper.GetString(KeyOllamaURL) }
func LogLevel() string       { return viper.GetString(KeyLogLevel) }
func EmbeddingModel() string { return viper.GetString(KeyEmbeddingModel) }
func ChatModel() string      { return viper.GetString(KeyChatModel) }
func Locale() string         { return viper.GetString(KeyLocale) }
func LocalesFile() string    { return viper.GetString(KeyLocalesFile) }
func WikiTopK() int          { return viper.GetInt(KeyWikiTopK) }
func AutoMigrate() bool      { return viper.GetBool(KeyAutoMigrate) }
func MigrationsDir() string  { return viper.GetString(KeyMigrationsDir) }
func DBDebug() bool          { return viper.GetBool(KeyDBDebug) }
func IndexChunkTokens() int  { return viper.GetInt(KeyIndexChunkTokens) }
func IndexChunkOverlap() int { return viper.GetInt(KeyIndexChunkOverlap) }
func PromptFile() string     { return viper.GetString(KeyPromptFile) }
func SearchLimit() int       { return viper.GetInt(KeySearchLimit) }

func HTTPTimeout() time.Duration    { return Duration(KeyHTTPTimeout, 30*time.Second) }
func LLMCallTimeout() time.Duration { return Duration(KeyLLMCallTimeout, 2*time.Minute) }

// BindFlag binds a dashed command-line flag to a config key.
func BindFlag(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	_ = viper.BindPFlag(key, flag)
}

// Duration parses a duration-valued key, returning fallback when unset or invalid.
func Duration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
