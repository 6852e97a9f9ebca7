// internal/assistant/translate-prompt/handler.go
package translateprompt

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "askdata/internal/common/errors"
	"askdata/internal/common/logger"
	"askdata/internal/common/metrics"
)

const ActionName = "translate-prompt"

type Handler struct {
	config   *Config
	provider Provider
	logger   logger.Logger
}

func NewHandler(config *Config, provider Provider, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		provider: provider,
		logger: log.WithFields(map[string]interface{}{
			"action":   ActionName,
			"provider": provider.Name(),
		}),
	}
}

// Execute never returns an error: provider failures come back as a
// Degraded answer of the form "Error: <message>".
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	answer, err := h.complete(ctx, input.Question, input.Temperature)
	if err != nil {
		return &Output{Answer: "Error: " + apperrors.UserMessage(err), Degraded: true}, nil
	}
	return &Output{Answer: answer}, nil
}

// Translate returns the trimmed completion for question, or the degraded
// "Error: ..." text.
func (h *Handler) Translate(ctx context.Context, question string, temperature float64) string {
	out, _ := h.Execute(ctx, &Input{Question: question, Temperature: temperature})
	return out.Answer
}

func (h *Handler) complete(ctx context.Context, question string, temperature float64) (string, error) {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	temperature = ClampTemperature(temperature)
	start := time.Now()

	text, err := h.provider.Complete(ctx, BuildMessages(question), temperature)
	metrics.TranslationDuration.WithLabelValues(h.provider.Name()).Observe(time.Since(start).Seconds())

	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyCompletion
	}
	if err != nil {
		var appErr error
		if errors.Is(err, context.DeadlineExceeded) {
			appErr = apperrors.NewTranslationTimeoutError(err)
		} else {
			appErr = apperrors.NewTranslationFailedError(err)
		}
		h.logger.WithError(err).Warn("translation failed", map[string]interface{}{
			"errorCode":   apperrors.CodeOf(appErr),
			"temperature": temperature,
			"durationMs":  time.Since(start).Milliseconds(),
		})
		metrics.TranslationsTotal.WithLabelValues(h.provider.Name(), metrics.OutcomeDegraded).Inc()
		return "", appErr
	}

	metrics.TranslationsTotal.WithLabelValues(h.provider.Name(), metrics.OutcomeSuccess).Inc()
	h.logger.Info("translation completed", map[string]interface{}{
		"temperature": temperature,
		"durationMs":  time.Since(start).Milliseconds(),
	})
	return strings.TrimSpace(text), nil
}

// ClampTemperature keeps t within the slider's range.
func ClampTemperature(t float64) float64 {
	if t < MinTemperature {
		return MinTemperature
	}
	if t > MaxTemperature {
		return MaxTemperature
	}
	return t
}
