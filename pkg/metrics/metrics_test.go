package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordLedger(t *testing.T) {
	before := testutil.ToFloat64(ledgerOps.WithLabelValues("credit", "error"))
	RecordLedger("credit", errors.New("boom"))
	require.Equal(t, before+1, testutil.ToFloat64(ledgerOps.WithLabelValues("credit", "error")))
}

func TestRecordDecisionFailureOverridesOutcome(t *testing.T) {
	before := testutil.ToFloat64(decisions.WithLabelValues("task", "failed"))
	RecordDecision("task", "approved", errors.New("conflict"))
	require.Equal(t, before+1, testutil.ToFloat64(decisions.WithLabelValues("task", "failed")))
}
