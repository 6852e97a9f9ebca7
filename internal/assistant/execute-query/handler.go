// internal/assistant/execute-query/handler.go
package executequery

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode"

	"askdata/internal/common/database"
	apperrors "askdata/internal/common/errors"
	"askdata/internal/common/logger"
	"askdata/internal/common/metrics"
	"askdata/internal/models"
)

const (
	ActionName = "execute-query"

	timestampLayout = "2006-01-02 15:04:05"
)

type Handler struct {
	config *Config
	opener database.Opener
	logger logger.Logger
}

func NewHandler(config *Config, opener database.Opener, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		opener: opener,
		logger: log.With(map[string]interface{}{"action": ActionName}),
	}
}

// Execute opens a connection, runs query and releases everything before
// returning. The query text is passed to the driver unchanged.
func (h *Handler) Execute(ctx context.Context, query string) (*models.QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		h.count(metrics.OutcomeError, apperrors.ErrCodeEmptyQuery)
		return nil, apperrors.NewEmptyQueryError()
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := h.run(ctx, query)
	metrics.QueryDuration.WithLabelValues(h.config.Driver).Observe(time.Since(start).Seconds())

	if err != nil {
		code := apperrors.CodeOf(err)
		h.count(metrics.OutcomeError, code)
		h.logger.WithError(err).Warn("query failed", map[string]interface{}{
			"errorCode":  code,
			"durationMs": time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	outcome := metrics.OutcomeSuccess
	if result.IsEmpty() {
		outcome = metrics.OutcomeEmpty
	}
	h.count(outcome, "")
	metrics.QueryRows.WithLabelValues(h.config.Driver).Observe(float64(len(result.Rows)))

	h.logger.Info("query executed", map[string]interface{}{
		"rowCount":   len(result.Rows),
		"columns":    len(result.Columns),
		"truncated":  result.Truncated,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return result, nil
}

// Skip counts a query that was never sent to the database.
func (h *Handler) Skip(reason string) {
	h.count(metrics.OutcomeSkipped, "")
	h.logger.Debug("query skipped", map[string]interface{}{"reason": reason})
}

func (h *Handler) count(outcome string, code apperrors.ErrorCode) {
	metrics.QueriesTotal.WithLabelValues(h.config.Driver, outcome, string(code), apperrors.Category(code)).Inc()
}

func (h *Handler) run(ctx context.Context, query string) (*models.QueryResult, error) {
	db, err := h.opener.Open(ctx)
	if err != nil {
		if isDeadline(ctx, err) {
			return nil, apperrors.NewQueryTimeoutError(err)
		}
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, classify(ctx, err)
	}

	result := &models.QueryResult{Columns: columns, Rows: [][]interface{}{}}
	for rows.Next() {
		if h.config.MaxRows > 0 && len(result.Rows) >= h.config.MaxRows {
			result.Truncated = true
			break
		}

		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, classify(ctx, err)
		}
		for i, v := range values {
			values[i] = normalizeValue(v)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(ctx, err)
	}
	return result, nil
}

func classify(ctx context.Context, err error) error {
	if isDeadline(ctx, err) {
		return apperrors.NewQueryTimeoutError(err)
	}
	return apperrors.NewQueryExecutionFailedError(err)
}

func isDeadline(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(timestampLayout)
	case sql.RawBytes:
		return string(val)
	default:
		return val
	}
}

// StripTerminator drops trailing whitespace and then at most one ';'.
// Oracle rejects a statement terminator sent through the driver.
func StripTerminator(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	return strings.TrimSuffix(s, ";")
}
