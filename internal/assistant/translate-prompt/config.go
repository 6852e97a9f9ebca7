// internal/assistant/translate-prompt/config.go
package translateprompt

import (
	"time"

	"askdata/internal/common/config"
)

const (
	MinTemperature     = 0.1
	MaxTemperature     = 1.0
	DefaultTemperature = 0.5
)

type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration // 0 = caller's context only
}

func LoadConfig(cfg *config.Config, secrets *config.Secrets) *Config {
	return &Config{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   secrets.ModelAPIKey,
		Timeout:  config.GetDuration(cfg.LLM.Timeout),
	}
}
