// internal/assistant/log-feedback/config.go
package logfeedback

import "askdata/internal/common/config"

type Config struct {
	Path string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{Path: cfg.Feedback.Path}
}
