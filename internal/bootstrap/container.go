// internal/bootstrap/container.go
package bootstrap

import (
	"context"
	"io"

	executequery "askdata/internal/assistant/execute-query"
	"askdata/internal/assistant/interaction"
	logfeedback "askdata/internal/assistant/log-feedback"
	translateprompt "askdata/internal/assistant/translate-prompt"
	"askdata/internal/common/config"
	"askdata/internal/common/database"
	"askdata/internal/common/logger"
	"askdata/internal/common/observability"
)

// Container wires the assistant pipeline for both front-ends.
type Container struct {
	Controller    *interaction.Controller
	Sessions      *interaction.SessionStore
	Observability *observability.Observability

	closers []io.Closer
}

// New resolves secrets first so a missing OPEN_AI or PASSWORD aborts
// before any listener starts.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*Container, error) {
	secrets, err := config.RequireSecrets(cfg)
	if err != nil {
		return nil, err
	}

	opener, err := database.NewOpener(cfg.Database, secrets.DBPassword)
	if err != nil {
		return nil, config.NewInvalidConfigError(err)
	}

	translateCfg := translateprompt.LoadConfig(cfg, secrets)
	provider, err := translateprompt.NewProvider(ctx, translateCfg)
	if err != nil {
		return nil, config.NewInvalidConfigError(err)
	}

	c := &Container{}
	if closer, ok := provider.(io.Closer); ok {
		c.closers = append(c.closers, closer)
	}

	c.Observability = observability.New(cfg.App.Name, log)
	c.Controller = interaction.NewController(
		translateprompt.NewHandler(translateCfg, provider, log),
		executequery.NewHandler(executequery.LoadConfig(cfg), opener, log),
		logfeedback.NewHandler(logfeedback.LoadConfig(cfg), log),
		c.Observability,
		log,
	)
	c.Sessions = interaction.NewSessionStore(config.GetDuration(cfg.Server.SessionTTL), translateprompt.DefaultTemperature)

	log.Info("assistant pipeline ready", map[string]interface{}{
		"provider": provider.Name(),
		"model":    cfg.LLM.Model,
		"database": opener.Target(),
		"feedback": cfg.Feedback.Path,
	})
	return c, nil
}

func (c *Container) Close() {
	for _, closer := range c.closers {
		_ = closer.Close()
	}
	c.Observability.Shutdown()
}
