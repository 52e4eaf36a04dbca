package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	StorePath    string // SQLite sales mart file
	ArtifactsDir string // chart payloads served at /static
	Port         string
	Env          string
	OpenAIKey    string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		StorePath:    os.Getenv("SALESMART_DB"),
		ArtifactsDir: os.Getenv("ARTIFACTS_DIR"),
		Port:         os.Getenv("PORT"),
		Env:          os.Getenv("ENV"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
	}

	// Default values
	if cfg.StorePath == "" {
		cfg.StorePath = "artifacts/salesmart.db"
	}
	if cfg.ArtifactsDir == "" {
		cfg.ArtifactsDir = "artifacts/charts"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}

	return cfg
}
