package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Mode is the ActionScript inclusion mode; gather and export must agree.
	Mode       string
	CorpusPath string
	CacheDir   string

	WorkerCount           int
	BatchSize             int
	MaxConcurrentAPICalls int

	SourceLanguage string
	TargetLanguage string

	AzureSubscriptionKey    string
	AzureEndpointURL        string
	AzureSubscriptionRegion string

	GeminiAPIKey     string
	TranslationModel string

	// Optional backends; empty values disable them.
	DatabaseURL   string
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	EmbeddingAPIKey     string
	EmbeddingBaseURL    string
	EmbeddingModel      string
	EmbeddingDimensions int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		Mode:                    getEnv("SWF_MODE", "heuristic"),
		CorpusPath:              getEnv("SWF_CORPUS_PATH", "swf-translator-all-strings.json"),
		CacheDir:                getEnv("SWF_CACHE_DIR", "."),
		WorkerCount:             getEnvInt("WORKER_COUNT", 8),
		BatchSize:               getEnvInt("BATCH_SIZE", 100),
		MaxConcurrentAPICalls:   getEnvInt("MAX_CONCURRENT_API_CALLS", 1),
		SourceLanguage:          getEnv("SOURCE_LANGUAGE", "ja"),
		TargetLanguage:          getEnv("TARGET_LANGUAGE", "en"),
		AzureSubscriptionKey:    getEnv("AZURE_SUBSCRIPTION_KEY", ""),
		AzureEndpointURL:        getEnv("AZURE_ENDPOINT_URL", "https://api.cognitive.microsofttranslator.com"),
		AzureSubscriptionRegion: getEnv("AZURE_SUBSCRIPTION_REGION", ""),
		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
		TranslationModel:        getEnv("TRANSLATION_MODEL", "gemini-2.5-flash"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		Neo4jURI:                getEnv("NEO4J_URI", ""),
		Neo4jUser:               getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:           getEnv("NEO4J_PASSWORD", ""),
		EmbeddingAPIKey:         getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingBaseURL:        getEnv("EMBEDDING_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		EmbeddingModel:          getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		EmbeddingDimensions:     getEnvInt("EMBEDDING_DIMENSIONS", 768),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid integer in environment, using default")
		return fallback
	}
	return n
}
