// internal/assistant/interaction/controller.go
package interaction

import (
	"context"
	"strings"
	"time"

	executequery "askdata/internal/assistant/execute-query"
	translateprompt "askdata/internal/assistant/translate-prompt"
	apperrors "askdata/internal/common/errors"
	"askdata/internal/common/logger"
	"askdata/internal/common/observability"
	"askdata/internal/models"
)

const (
	MessageNoRecords = "No records found."
	MessageThankYou  = "Thank you for your feedback!"
	queryErrorPrefix = "An error occurred while executing the query: "
)

const (
	statusSuccess  = "success"
	statusError    = "error"
	statusRejected = "rejected"

	actionSubmit   = "submit"
	actionFeedback = "feedback"
	actionClear    = "clear"
)

type Translator interface {
	Execute(ctx context.Context, input *translateprompt.Input) (*translateprompt.Output, error)
}

type Executor interface {
	Execute(ctx context.Context, query string) (*models.QueryResult, error)
	Skip(reason string)
}

type FeedbackLogger interface {
	Log(ctx context.Context, record models.FeedbackRecord) error
}

// SubmitView is everything one Send renders.
type SubmitView struct {
	Question     string              `json:"question"`
	Answer       string              `json:"answer"`
	Degraded     bool                `json:"degraded"`
	Result       *models.QueryResult `json:"result,omitempty"`
	Chart        *Chart              `json:"chart,omitempty"`
	ChartNote    string              `json:"chartNote,omitempty"`
	Message      string              `json:"message,omitempty"`
	ErrorMessage string              `json:"errorMessage,omitempty"`
	Session      SessionSnapshot     `json:"session"`
}

type FeedbackView struct {
	Message string          `json:"message"`
	Session SessionSnapshot `json:"session"`
}

type Controller struct {
	translator Translator
	executor   Executor
	feedback   FeedbackLogger
	obs        *observability.Observability
	logger     logger.Logger
}

func NewController(translator Translator, executor Executor, feedback FeedbackLogger, obs *observability.Observability, log logger.Logger) *Controller {
	return &Controller{
		translator: translator,
		executor:   executor,
		feedback:   feedback,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "interaction"}),
	}
}

// Submit handles one Send. An empty question is rejected without touching
// the session; otherwise the answer is shown and the feedback section
// appears. A verdict already given stays given until Clear.
func (c *Controller) Submit(ctx context.Context, sess *Session, question string, temperature float64) (*SubmitView, error) {
	start := time.Now()

	if strings.TrimSpace(question) == "" {
		c.obs.RecordAction(ctx, actionSubmit, statusRejected, time.Since(start))
		return nil, apperrors.NewInvalidRequestError("question is empty")
	}

	temperature = translateprompt.ClampTemperature(temperature)
	out, err := c.translator.Execute(ctx, &translateprompt.Input{Question: question, Temperature: temperature})
	if err != nil || out == nil {
		out = &translateprompt.Output{Answer: "Error: " + apperrors.UserMessage(orUnknown(err)), Degraded: true}
	}

	sess.mu.Lock()
	sess.Temperature = temperature
	sess.LastQuestion = question
	sess.LastAnswer = out.Answer
	sess.ShowFeedback = true
	sess.mu.Unlock()

	view := &SubmitView{
		Question: question,
		Answer:   out.Answer,
		Degraded: out.Degraded,
	}

	status := statusSuccess
	if out.Degraded {
		status = statusError
		c.executor.Skip("translation degraded")
		c.logger.Warn("translation degraded, query not executed", map[string]interface{}{
			"sessionId": sess.ID,
		})
	} else {
		c.runQuery(ctx, view)
		if view.ErrorMessage != "" {
			status = statusError
		}
	}

	view.Session = sess.Snapshot()
	c.obs.RecordAction(ctx, actionSubmit, status, time.Since(start))
	return view, nil
}

func (c *Controller) runQuery(ctx context.Context, view *SubmitView) {
	result, err := c.executor.Execute(ctx, executequery.StripTerminator(view.Answer))
	if err != nil {
		view.ErrorMessage = queryErrorPrefix + apperrors.UserMessage(err)
		return
	}
	if result.IsEmpty() {
		view.Message = MessageNoRecords
		return
	}
	view.Result = result
	view.Chart, view.ChartNote = BuildChart(result)
}

// SubmitFeedback records one verdict on the last answer. It is accepted
// only while the session is awaiting feedback.
func (c *Controller) SubmitFeedback(ctx context.Context, sess *Session, label string) (*FeedbackView, error) {
	start := time.Now()

	parsed, ok := models.ParseFeedbackLabel(label)
	if !ok {
		c.obs.RecordAction(ctx, actionFeedback, statusRejected, time.Since(start))
		return nil, apperrors.NewInvalidRequestError("feedback must be Yes or No")
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Phase() != PhaseAwaitingFeedback {
		c.obs.RecordAction(ctx, actionFeedback, statusRejected, time.Since(start))
		return nil, apperrors.NewFeedbackNotAllowedError(string(sess.Phase()))
	}

	err := c.feedback.Log(ctx, models.FeedbackRecord{
		Question: sess.LastQuestion,
		Answer:   sess.LastAnswer,
		Label:    parsed,
	})
	if err != nil {
		c.obs.RecordAction(ctx, actionFeedback, statusError, time.Since(start))
		return nil, err
	}

	sess.FeedbackSubmitted = true
	c.obs.RecordAction(ctx, actionFeedback, statusSuccess, time.Since(start))
	return &FeedbackView{Message: MessageThankYou, Session: sess.snapshot()}, nil
}

// Clear hides the feedback section. The last question and answer stay
// for display only.
func (c *Controller) Clear(ctx context.Context, sess *Session) SessionSnapshot {
	start := time.Now()

	sess.mu.Lock()
	sess.ShowFeedback = false
	sess.FeedbackSubmitted = false
	snap := sess.snapshot()
	sess.mu.Unlock()

	c.obs.RecordAction(ctx, actionClear, statusSuccess, time.Since(start))
	return snap
}

func orUnknown(err error) error {
	if err == nil {
		return apperrors.NewTranslationFailedError(nil)
	}
	return err
}
