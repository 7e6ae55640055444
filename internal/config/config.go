package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port              int
	LogLevel          string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIEmbedModel  string
	PineconeAPIKey    string
	PineconeIndexHost string
	Namespace         string
	TopK              int
	SearchBackend     string
	DatabaseURL       string
	NatsURL           string
}

func Load() Config {
	return Config{
		Port:              envInt("SUPPORTBOT_PORT", 8760),
		LogLevel:          envStr("LOG_LEVEL", "info"),
		OpenAIAPIKey:      envStr("OPENAI_API_KEY", ""),
		OpenAIModel:       envStr("SUPPORTBOT_MODEL", "gpt-4.1-mini"),
		OpenAIEmbedModel:  envStr("SUPPORTBOT_EMBED_MODEL", "text-embedding-3-small"),
		PineconeAPIKey:    envStr("PINECONE_API_KEY", ""),
		PineconeIndexHost: envStr("PINECONE_INDEX_HOST", ""),
		Namespace:         envStr("SUPPORTBOT_NAMESPACE", "all-gross"),
		TopK:              envInt("SUPPORTBOT_TOP_K", 3),
		SearchBackend:     envStr("SEARCH_BACKEND", "pinecone"),
		DatabaseURL:       envStr("DATABASE_URL", ""),
		NatsURL:           envStr("NATS_URL", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
