package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	AI struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"ai"`
	Pipeline struct {
		MergePolicy string `yaml:"merge_policy"` // "title" or "title-content"
	} `yaml:"pipeline"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	var cfg Config
	cfg.Server.Addr = ":8085"
	cfg.AI.Provider = "gemini"
	cfg.Pipeline.MergePolicy = "title"
	cfg.Log.Level = "info"

	// 2. Load YAML config if present
	if file, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("POSTERFORGE_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("POSTERFORGE_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if model := os.Getenv("POSTERFORGE_AI_MODEL"); model != "" {
		cfg.AI.Model = model
	}
	if addr := os.Getenv("POSTERFORGE_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}

	return &cfg, nil
}

// MergeKeyName resolves the configured merge policy to a known value.
func (c *Config) MergeKeyName() string {
	if c.Pipeline.MergePolicy == "title-content" {
		return "title-content"
	}
	return "title"
}
