package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds every runtime setting, read from environment variables.
// A .env file is loaded by main for local development; on Render the
// variables are injected directly.
type Config struct {
	Port        string
	FrontendURL string

	MongoURI    string
	MongoDBName string

	// Secret for signing/verifying API bearer tokens.
	JWTSecret string

	// OCR.space API key for image extraction. Optional: when empty,
	// image uploads are rejected with a configuration error.
	OCRSpaceAPIKey string

	// Hard cap on uploaded document size, enforced at the HTTP boundary.
	MaxUploadBytes int64
}

const defaultMaxUploadBytes = 10 << 20 // 10 MB

func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDBName:    getEnv("MONGO_DB_NAME", "contabilidade_rezende"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		OCRSpaceAPIKey: os.Getenv("OCR_SPACE_API_KEY"),
		MaxUploadBytes: defaultMaxUploadBytes,
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if raw := os.Getenv("MAX_UPLOAD_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer, got %q", raw)
		}
		cfg.MaxUploadBytes = n
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
