// internal/assistant/log-feedback/handler.go
package logfeedback

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	apperrors "askdata/internal/common/errors"
	"askdata/internal/common/logger"
	"askdata/internal/common/metrics"
	"askdata/internal/models"
)

const (
	ActionName = "log-feedback"

	timestampLayout = "2006-01-02 15:04:05"
	separator       = "-----------------------------------------------------"
)

// Handler appends feedback blocks to a plain-text file. The file is never
// read back, rotated or truncated.
type Handler struct {
	config *Config
	logger logger.Logger
	now    func() time.Time

	mu sync.Mutex
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.With(map[string]interface{}{"action": ActionName}),
		now:    time.Now,
	}
}

// Log writes one block for record. A zero Timestamp is filled with the
// current local time and an empty Label with Yes.
func (h *Handler) Log(ctx context.Context, record models.FeedbackRecord) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewFeedbackWriteFailedError(err)
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = h.now()
	}
	if record.Label == "" {
		record.Label = models.FeedbackYes
	}

	block := FormatRecord(record)

	h.mu.Lock()
	err := h.appendBlock(block)
	h.mu.Unlock()

	if err != nil {
		metrics.FeedbackTotal.WithLabelValues(string(record.Label), metrics.OutcomeError,
			apperrors.Category(apperrors.ErrCodeFeedbackWriteFailed)).Inc()
		h.logger.WithError(err).Error("failed to write feedback", map[string]interface{}{
			"path": h.config.Path,
		})
		return apperrors.NewFeedbackWriteFailedError(err)
	}

	metrics.FeedbackTotal.WithLabelValues(string(record.Label), metrics.OutcomeSuccess, "").Inc()
	h.logger.Info("feedback recorded", map[string]interface{}{
		"label": record.Label,
		"path":  h.config.Path,
	})
	return nil
}

func (h *Handler) appendBlock(block string) error {
	f, err := os.OpenFile(h.config.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(block); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FormatRecord renders the five-line block, separator included.
func FormatRecord(r models.FeedbackRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Timestamp: %s\n", r.Timestamp.Format(timestampLayout))
	fmt.Fprintf(&sb, "User Input: %s\n", r.Question)
	fmt.Fprintf(&sb, "AI Response: %s\n", r.Answer)
	fmt.Fprintf(&sb, "Feedback: %s\n", r.Label)
	sb.WriteString(separator + "\n")
	return sb.String()
}
