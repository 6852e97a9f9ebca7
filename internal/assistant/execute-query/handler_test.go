package executequery

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "askdata/internal/common/errors"
	"askdata/internal/common/logger"
	"askdata/internal/common/metrics"
)

type fakeOpener struct {
	db     *sql.DB
	err    error
	opened int
}

func (f *fakeOpener) Open(ctx context.Context) (*sql.DB, error) {
	f.opened++
	if f.err != nil {
		return nil, f.err
	}
	return f.db, nil
}

func newMockHandler(t *testing.T, cfg *Config) (*Handler, sqlmock.Sqlmock, *fakeOpener) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	opener := &fakeOpener{db: db}
	if cfg == nil {
		cfg = &Config{Driver: "oracle"}
	}
	return NewHandler(cfg, opener, logger.NewTestLogger(t)), mock, opener
}

func TestHandler_Execute_GroupBy(t *testing.T) {
	h, mock, opener := newMockHandler(t, nil)
	query := "SELECT GENDER, COUNT(*) AS number_of_clients FROM CLIENTS_2023 GROUP BY GENDER"

	mock.ExpectQuery("SELECT GENDER, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"GENDER", "NUMBER_OF_CLIENTS"}).
			AddRow([]byte("F"), int64(120)).
			AddRow("M", int64(98)).
			AddRow(nil, int64(3)))
	mock.ExpectClose()

	result, err := h.Execute(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, []string{"GENDER", "NUMBER_OF_CLIENTS"}, result.Columns)
	assert.Equal(t, [][]interface{}{
		{"F", int64(120)},
		{"M", int64(98)},
		{nil, int64(3)},
	}, result.Rows)
	assert.False(t, result.Truncated)
	assert.Equal(t, 1, opener.opened)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_TimeValues(t *testing.T) {
	h, mock, _ := newMockHandler(t, nil)
	dob := time.Date(1984, 3, 7, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT CLIENTFIRSTNAME").
		WillReturnRows(sqlmock.NewRows([]string{"CLIENTFIRSTNAME", "DATEOFBIRTH"}).AddRow("Marie", dob))
	mock.ExpectClose()

	result, err := h.Execute(context.Background(), "SELECT CLIENTFIRSTNAME, DATEOFBIRTH FROM CLIENTS_2023")
	require.NoError(t, err)
	assert.Equal(t, "1984-03-07 00:00:00", result.Rows[0][1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_EmptyResult(t *testing.T) {
	h, mock, _ := newMockHandler(t, nil)

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"CITY"}))
	mock.ExpectClose()

	result, err := h.Execute(context.Background(), "SELECT CITY FROM CLIENTS_2023 WHERE 1=0")
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
	assert.Equal(t, []string{"CITY"}, result.Columns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_MaxRows(t *testing.T) {
	h, mock, _ := newMockHandler(t, &Config{Driver: "oracle", MaxRows: 2})

	mock.ExpectQuery("SELECT CITY").
		WillReturnRows(sqlmock.NewRows([]string{"CITY"}).
			AddRow("Montreal").AddRow("Quebec").AddRow("Laval"))
	mock.ExpectClose()

	result, err := h.Execute(context.Background(), "SELECT CITY FROM CLIENTS_2023")
	require.NoError(t, err)
	assert.Len(t, result.Rows, 2)
	assert.True(t, result.Truncated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DriverError(t *testing.T) {
	h, mock, _ := newMockHandler(t, nil)

	mock.ExpectQuery("SELECT").
		WillReturnError(errors.New("ORA-00942: table or view does not exist"))
	mock.ExpectClose()

	_, err := h.Execute(context.Background(), "SELECT * FROM CLIENTS_2024")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeQueryExecutionFailed, apperrors.CodeOf(err))
	assert.Equal(t, "ORA-00942: table or view does not exist", apperrors.UserMessage(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ScanErrorReleasesConnection(t *testing.T) {
	h, mock, _ := newMockHandler(t, nil)

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"CITY"}).
			AddRow("Montreal").
			RowError(0, errors.New("ORA-01722: invalid number")))
	mock.ExpectClose()

	_, err := h.Execute(context.Background(), "SELECT CITY FROM CLIENTS_2023")
	require.Error(t, err)
	assert.Contains(t, apperrors.UserMessage(err), "ORA-01722")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ConnectionFailed(t *testing.T) {
	opener := &fakeOpener{err: errors.New("ORA-01017: invalid username/password; logon denied")}
	h := NewHandler(&Config{Driver: "oracle"}, opener, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), "SELECT 1 FROM DUAL")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDatabaseConnectionFailed, apperrors.CodeOf(err))
	assert.Contains(t, apperrors.UserMessage(err), "ORA-01017")
}

func TestHandler_Execute_Timeout(t *testing.T) {
	h, mock, _ := newMockHandler(t, &Config{Driver: "oracle", Timeout: 20 * time.Millisecond})

	mock.ExpectQuery("SELECT").
		WillDelayFor(200 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"N"}).AddRow(1))
	mock.ExpectClose()

	_, err := h.Execute(context.Background(), "SELECT COUNT(*) FROM CLIENTS_2023")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeQueryTimeout, apperrors.CodeOf(err))
}

func TestHandler_Execute_EmptyQuery(t *testing.T) {
	opener := &fakeOpener{}
	h := NewHandler(&Config{Driver: "oracle"}, opener, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), "  \n")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeEmptyQuery, apperrors.CodeOf(err))
	assert.Equal(t, 0, opener.opened)
}

func TestStripTerminator(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT 1 FROM DUAL;", "SELECT 1 FROM DUAL"},
		{"SELECT 1 FROM DUAL;  \n", "SELECT 1 FROM DUAL"},
		{"SELECT 1 FROM DUAL;;", "SELECT 1 FROM DUAL;"},
		{"SELECT 1 FROM DUAL", "SELECT 1 FROM DUAL"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripTerminator(tt.in), tt.in)
	}
}

func TestHandler_Skip_CountsWithoutOpening(t *testing.T) {
	opener := &fakeOpener{}
	h := NewHandler(&Config{Driver: "skiptest"}, opener, logger.NewTestLogger(t))
	skipped := metrics.QueriesTotal.WithLabelValues("skiptest", metrics.OutcomeSkipped, "", "")

	before := testutil.ToFloat64(skipped)
	h.Skip("translation degraded")

	assert.Equal(t, before+1, testutil.ToFloat64(skipped))
	assert.Equal(t, 0, opener.opened)
}

func TestHandler_Execute_ErrorCategoryLabel(t *testing.T) {
	opener := &fakeOpener{err: errors.New("ORA-12154: TNS:could not resolve the connect identifier")}
	h := NewHandler(&Config{Driver: "categorytest"}, opener, logger.NewTestLogger(t))
	failed := metrics.QueriesTotal.WithLabelValues("categorytest", metrics.OutcomeError,
		string(apperrors.ErrCodeDatabaseConnectionFailed), "DATABASE")

	before := testutil.ToFloat64(failed)
	_, err := h.Execute(context.Background(), "SELECT 1 FROM DUAL")
	require.Error(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(failed))
}
