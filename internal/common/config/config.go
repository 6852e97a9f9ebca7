// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Secret names are fixed; they are never read from the yaml files.
const (
	EnvModelAPIKey  = "OPEN_AI"
	EnvDBPassword   = "PASSWORD"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Query    QueryConfig    `mapstructure:"query"`
	Feedback FeedbackConfig `mapstructure:"feedback"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	SessionTTL     int    `mapstructure:"session_ttl"` // milliseconds
}

// DatabaseConfig describes the single connection target queries run against.
// The password is never part of the file config; it comes from PASSWORD.
type DatabaseConfig struct {
	Driver        string `mapstructure:"driver"` // oracle | postgres
	User          string `mapstructure:"user"`
	ConnectString string `mapstructure:"connect_string"`
	WalletPath    string `mapstructure:"wallet_path"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Name          string `mapstructure:"name"`
	SSLMode       string `mapstructure:"sslmode"`
}

type LLMConfig struct {
	Provider string `mapstructure:"provider"` // openai | gemini
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds, 0 = no deadline
}

type QueryConfig struct {
	Timeout int `mapstructure:"timeout"`  // milliseconds, 0 = no deadline
	MaxRows int `mapstructure:"max_rows"` // 0 = unbounded
}

type FeedbackConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DriverOracle   = "oracle"
	DriverPostgres = "postgres"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultOpenAIModel = "ft:gpt-3.5-turbo-0613:personal::8E797F6L"
	DefaultGeminiModel = "gemini-1.5-flash"
)

// Secrets carries the values resolved by Require at startup.
type Secrets struct {
	ModelAPIKey string
	DBPassword  string
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// Target renders the connection target without credentials, for logs.
func (d DatabaseConfig) Target() string {
	if d.Driver == DriverPostgres {
		return fmt.Sprintf("postgres://%s@%s:%d/%s", d.User, d.Host, d.Port, d.Name)
	}
	return fmt.Sprintf("oracle://%s@%s", d.User, d.ConnectString)
}
