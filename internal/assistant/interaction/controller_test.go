package interaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	translateprompt "askdata/internal/assistant/translate-prompt"
	apperrors "askdata/internal/common/errors"
	"askdata/internal/common/logger"
	"askdata/internal/models"
)

type fakeTranslator struct {
	out   *translateprompt.Output
	calls []translateprompt.Input
}

func (f *fakeTranslator) Execute(_ context.Context, in *translateprompt.Input) (*translateprompt.Output, error) {
	f.calls = append(f.calls, *in)
	return f.out, nil
}

type fakeExecutor struct {
	result  *models.QueryResult
	err     error
	queries []string
	skipped []string
}

func (f *fakeExecutor) Skip(reason string) {
	f.skipped = append(f.skipped, reason)
}

func (f *fakeExecutor) Execute(_ context.Context, query string) (*models.QueryResult, error) {
	f.queries = append(f.queries, query)
	return f.result, f.err
}

type fakeFeedback struct {
	records []models.FeedbackRecord
	err     error
}

func (f *fakeFeedback) Log(_ context.Context, r models.FeedbackRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, r)
	return nil
}

const genderSQL = "SELECT GENDER, COUNT(*) AS number_of_clients FROM CLIENTS_2023 GROUP BY GENDER"

func genderResult() *models.QueryResult {
	return &models.QueryResult{
		Columns: []string{"GENDER", "NUMBER_OF_CLIENTS"},
		Rows:    [][]interface{}{{"F", int64(120)}, {"M", int64(98)}},
	}
}

type fixture struct {
	ctrl       *Controller
	translator *fakeTranslator
	executor   *fakeExecutor
	feedback   *fakeFeedback
	sess       *Session
}

func newFixture(t *testing.T, answer string, degraded bool) *fixture {
	f := &fixture{
		translator: &fakeTranslator{out: &translateprompt.Output{Answer: answer, Degraded: degraded}},
		executor:   &fakeExecutor{result: genderResult()},
		feedback:   &fakeFeedback{},
		sess:       newSession("s-1", translateprompt.DefaultTemperature),
	}
	f.ctrl = NewController(f.translator, f.executor, f.feedback, nil, logger.NewTestLogger(t))
	return f
}

func TestSubmit_EmptyQuestion(t *testing.T) {
	f := newFixture(t, genderSQL, false)

	view, err := f.ctrl.Submit(context.Background(), f.sess, "   ", 0.5)
	require.Error(t, err)
	assert.Nil(t, view)
	assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
	assert.Empty(t, f.translator.calls)
	assert.Equal(t, PhaseIdle, f.sess.Snapshot().Phase)
}

func TestSubmit_ResultWithChart(t *testing.T) {
	f := newFixture(t, genderSQL+";  ", false)

	view, err := f.ctrl.Submit(context.Background(), f.sess, "How many clients do I have based on gender?", 0.7)
	require.NoError(t, err)

	assert.Equal(t, genderSQL+";  ", view.Answer)
	assert.Equal(t, []string{genderSQL}, f.executor.queries)
	assert.Empty(t, f.executor.skipped)
	assert.Equal(t, genderResult(), view.Result)
	require.NotNil(t, view.Chart)
	assert.Equal(t, []Bar{{Label: "F", Value: 120}, {Label: "M", Value: 98}}, view.Chart.Bars)
	assert.Empty(t, view.ChartNote)
	assert.Empty(t, view.ErrorMessage)

	assert.InDelta(t, 0.7, f.translator.calls[0].Temperature, 1e-9)
	assert.Equal(t, PhaseAwaitingFeedback, view.Session.Phase)
	assert.Equal(t, "How many clients do I have based on gender?", view.Session.LastQuestion)
	assert.InDelta(t, 0.7, view.Session.Temperature, 1e-9)
}

func TestSubmit_NoRecords(t *testing.T) {
	f := newFixture(t, genderSQL, false)
	f.executor.result = &models.QueryResult{Columns: []string{"GENDER"}, Rows: [][]interface{}{}}

	view, err := f.ctrl.Submit(context.Background(), f.sess, "q", 0.5)
	require.NoError(t, err)
	assert.Equal(t, MessageNoRecords, view.Message)
	assert.Nil(t, view.Result)
	assert.Nil(t, view.Chart)
	assert.True(t, view.Session.ShowFeedback)
}

func TestSubmit_ExecutionError(t *testing.T) {
	f := newFixture(t, "SELECT * FROM CLIENTS_2024", false)
	f.executor.err = apperrors.NewQueryExecutionFailedError(errors.New("ORA-00942: table or view does not exist"))

	view, err := f.ctrl.Submit(context.Background(), f.sess, "q", 0.5)
	require.NoError(t, err)
	assert.Equal(t, "An error occurred while executing the query: ORA-00942: table or view does not exist", view.ErrorMessage)
	assert.Nil(t, view.Result)
	assert.Equal(t, PhaseAwaitingFeedback, view.Session.Phase)
}

func TestSubmit_DegradedSkipsExecution(t *testing.T) {
	f := newFixture(t, "Error: status 401: invalid api key", true)

	view, err := f.ctrl.Submit(context.Background(), f.sess, "q", 0.5)
	require.NoError(t, err)
	assert.True(t, view.Degraded)
	assert.Equal(t, "Error: status 401: invalid api key", view.Answer)
	assert.Empty(t, f.executor.queries)
	assert.Equal(t, []string{"translation degraded"}, f.executor.skipped)
	assert.Equal(t, PhaseAwaitingFeedback, view.Session.Phase)
}

func TestSubmit_SingleColumnHasNote(t *testing.T) {
	f := newFixture(t, "SELECT CITY FROM CLIENTS_2023", false)
	f.executor.result = &models.QueryResult{Columns: []string{"CITY"}, Rows: [][]interface{}{{"Laval"}}}

	view, err := f.ctrl.Submit(context.Background(), f.sess, "q", 0.5)
	require.NoError(t, err)
	assert.NotNil(t, view.Result)
	assert.Nil(t, view.Chart)
	assert.Equal(t, noteTooFewColumns, view.ChartNote)
}

func TestFeedback_Lifecycle(t *testing.T) {
	f := newFixture(t, genderSQL, false)
	ctx := context.Background()

	_, err := f.ctrl.SubmitFeedback(ctx, f.sess, "Yes")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeFeedbackNotAllowed, apperrors.CodeOf(err))
	assert.Empty(t, f.feedback.records)

	_, err = f.ctrl.Submit(ctx, f.sess, "How many clients do I have based on gender?", 0.5)
	require.NoError(t, err)

	view, err := f.ctrl.SubmitFeedback(ctx, f.sess, "")
	require.NoError(t, err)
	assert.Equal(t, MessageThankYou, view.Message)
	assert.Equal(t, PhaseFeedbackSubmitted, view.Session.Phase)
	require.Len(t, f.feedback.records, 1)
	assert.Equal(t, models.FeedbackRecord{
		Question: "How many clients do I have based on gender?",
		Answer:   genderSQL,
		Label:    models.FeedbackYes,
	}, f.feedback.records[0])

	_, err = f.ctrl.SubmitFeedback(ctx, f.sess, "No")
	assert.Equal(t, apperrors.ErrCodeFeedbackNotAllowed, apperrors.CodeOf(err))
	assert.Len(t, f.feedback.records, 1)

}

func TestFeedback_NewAnswerDoesNotReopenFeedback(t *testing.T) {
	f := newFixture(t, genderSQL, false)
	ctx := context.Background()

	_, err := f.ctrl.Submit(ctx, f.sess, "q1", 0.5)
	require.NoError(t, err)
	_, err = f.ctrl.SubmitFeedback(ctx, f.sess, "Yes")
	require.NoError(t, err)

	view, err := f.ctrl.Submit(ctx, f.sess, "q2", 0.5)
	require.NoError(t, err)
	assert.Equal(t, PhaseFeedbackSubmitted, view.Session.Phase)
	assert.True(t, view.Session.FeedbackSubmitted)
	assert.Equal(t, "q2", view.Session.LastQuestion)

	_, err = f.ctrl.SubmitFeedback(ctx, f.sess, "No")
	assert.Equal(t, apperrors.ErrCodeFeedbackNotAllowed, apperrors.CodeOf(err))
	require.Len(t, f.feedback.records, 1)
	assert.Equal(t, "q1", f.feedback.records[0].Question)

	f.ctrl.Clear(ctx, f.sess)
	_, err = f.ctrl.Submit(ctx, f.sess, "q3", 0.5)
	require.NoError(t, err)
	_, err = f.ctrl.SubmitFeedback(ctx, f.sess, "No")
	require.NoError(t, err)
	require.Len(t, f.feedback.records, 2)
	assert.Equal(t, models.FeedbackRecord{Question: "q3", Answer: genderSQL, Label: models.FeedbackNo}, f.feedback.records[1])
}

func TestFeedback_InvalidLabel(t *testing.T) {
	f := newFixture(t, genderSQL, false)
	_, err := f.ctrl.Submit(context.Background(), f.sess, "q", 0.5)
	require.NoError(t, err)

	_, err = f.ctrl.SubmitFeedback(context.Background(), f.sess, "maybe")
	assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
	assert.Equal(t, PhaseAwaitingFeedback, f.sess.Snapshot().Phase)
}

func TestFeedback_WriteFailureKeepsFeedbackOpen(t *testing.T) {
	f := newFixture(t, genderSQL, false)
	f.feedback.err = apperrors.NewFeedbackWriteFailedError(errors.New("read-only file system"))

	_, err := f.ctrl.Submit(context.Background(), f.sess, "q", 0.5)
	require.NoError(t, err)

	_, err = f.ctrl.SubmitFeedback(context.Background(), f.sess, "Yes")
	assert.Equal(t, apperrors.ErrCodeFeedbackWriteFailed, apperrors.CodeOf(err))
	assert.Equal(t, PhaseAwaitingFeedback, f.sess.Snapshot().Phase)
}

func TestClear(t *testing.T) {
	f := newFixture(t, genderSQL, false)
	ctx := context.Background()

	_, err := f.ctrl.Submit(ctx, f.sess, "q", 0.5)
	require.NoError(t, err)
	_, err = f.ctrl.SubmitFeedback(ctx, f.sess, "Yes")
	require.NoError(t, err)

	snap := f.ctrl.Clear(ctx, f.sess)
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.False(t, snap.ShowFeedback)
	assert.False(t, snap.FeedbackSubmitted)

	_, err = f.ctrl.SubmitFeedback(ctx, f.sess, "Yes")
	assert.Equal(t, apperrors.ErrCodeFeedbackNotAllowed, apperrors.CodeOf(err))
}

func TestSessionStore_Isolation(t *testing.T) {
	store := NewSessionStore(time.Minute, translateprompt.DefaultTemperature)

	a, created := store.GetOrCreate("")
	assert.True(t, created)
	b, _ := store.GetOrCreate("unknown-id")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, store.Count())

	f := newFixture(t, genderSQL, false)
	_, err := f.ctrl.Submit(context.Background(), a, "q", 0.5)
	require.NoError(t, err)

	again, created := store.GetOrCreate(a.ID)
	assert.False(t, created)
	assert.Same(t, a, again)
	assert.Equal(t, PhaseAwaitingFeedback, again.Snapshot().Phase)
	assert.Equal(t, PhaseIdle, b.Snapshot().Phase)
	assert.InDelta(t, translateprompt.DefaultTemperature, b.Snapshot().Temperature, 1e-9)

	store.Delete(a.ID)
	_, ok := store.Get(a.ID)
	assert.False(t, ok)
}
