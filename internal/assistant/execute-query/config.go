// internal/assistant/execute-query/config.go
package executequery

import (
	"time"

	"askdata/internal/common/config"
)

type Config struct {
	Driver  string
	Timeout time.Duration // 0 = caller's context only
	MaxRows int           // 0 = unbounded
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Driver:  cfg.Database.Driver,
		Timeout: config.GetDuration(cfg.Query.Timeout),
		MaxRows: cfg.Query.MaxRows,
	}
}
