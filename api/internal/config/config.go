package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"tax-moguls/api/internal/cache"
)

type Config struct {
	Port string

	AllowedOrigins []string
	EmbedToken     string

	GeminiAPIKey string
	GeminiModel  string

	CacheTTL    time.Duration
	DatabaseURL string
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		AllowedOrigins: splitOrigins(os.Getenv("ALLOWED_ORIGINS")),
		EmbedToken:     os.Getenv("EMBED_TOKEN"),

		GeminiAPIKey: mustEnv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-pro"),

		CacheTTL:    ttlEnv("CACHE_TTL", cache.DefaultTTL),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}

func splitOrigins(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func ttlEnv(k string, def time.Duration) time.Duration {
	raw := os.Getenv(k)
	if raw == "" {
		return def
	}
	sec, err := strconv.Atoi(raw)
	if err != nil || sec <= 0 {
		log.Fatalf("bad %s: %q (want seconds > 0)", k, raw)
	}
	return time.Duration(sec) * time.Second
}
