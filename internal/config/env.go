package config

import (
	"os"
)

// applyProviderEnv fills credentials from the variables each provider documents,
// so an existing GEMINI_API_KEY or OPENAI_API_KEY works without renaming.
func (c *Config) applyProviderEnv() {
	if c.Generation.APIKey == "" {
		switch c.Generation.Provider {
		case "gemini":
			c.Generation.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_AI_API_KEY")
		case "openai":
			c.Generation.APIKey = firstEnv("OPENAI_API_KEY")
		case "anthropic":
			c.Generation.APIKey = firstEnv("ANTHROPIC_API_KEY")
		}
	}

	if c.Generation.BaseURL == "" {
		switch c.Generation.Provider {
		case "ollama":
			c.Generation.BaseURL = firstEnv("OLLAMA_URL", "OLLAMA_HOST")
		case "openai":
			c.Generation.BaseURL = firstEnv("OPENAI_BASE_URL")
		}
	}

	if c.Catalog.APIKey == "" {
		switch c.Catalog.Backend {
		case "googlebooks", "google":
			c.Catalog.APIKey = firstEnv("GOOGLE_BOOKS_API_KEY")
		case "kakao":
			c.Catalog.APIKey = firstEnv("KAKAO_REST_API_KEY")
		}
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
