package config

import (
	"fmt"
	"os"

	apperrors "askdata/internal/common/errors"
)

// Require returns the named environment value or a CONFIG_MISSING error.
// An empty value counts as missing.
func Require(name string) (string, error) {
	if val, ok := os.LookupEnv(name); ok && val != "" {
		return val, nil
	}
	return "", apperrors.NewConfigMissingError(name)
}

// RequireSecrets resolves every secret the configured stack needs.
// Callers treat any error as fatal.
func RequireSecrets(cfg *Config) (*Secrets, error) {
	keyName := EnvModelAPIKey
	if cfg.LLM.Provider == ProviderGemini {
		keyName = EnvGeminiAPIKey
	}

	apiKey, err := Require(keyName)
	if err != nil {
		return nil, err
	}
	password, err := Require(EnvDBPassword)
	if err != nil {
		return nil, err
	}
	return &Secrets{ModelAPIKey: apiKey, DBPassword: password}, nil
}

func NewInvalidConfigError(err error) error {
	return apperrors.NewConfigInvalidError(fmt.Errorf("invalid configuration: %w", err))
}
