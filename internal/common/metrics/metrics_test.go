package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersAreRegistered(t *testing.T) {
	before := testutil.ToFloat64(FeedbackTotal.WithLabelValues("No", OutcomeSuccess, ""))
	FeedbackTotal.WithLabelValues("No", OutcomeSuccess, "").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(FeedbackTotal.WithLabelValues("No", OutcomeSuccess, "")))

	QueriesTotal.WithLabelValues("oracle", OutcomeError, "QUERY_TIMEOUT", "DATABASE").Inc()
	assert.GreaterOrEqual(t, testutil.CollectAndCount(QueriesTotal), 1)
}
