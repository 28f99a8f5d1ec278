package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pable/go-passnet/internal/network"
)

func TestObserveCompute(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.ObserveCompute(120, 2*time.Millisecond, nil)
	r.ObserveCompute(80, time.Millisecond, nil)
	r.ObserveCompute(0, time.Millisecond, fmt.Errorf("centralization: %w", network.ErrDivisionByZero))

	if got := testutil.ToFloat64(r.networksComputed); got != 2 {
		t.Errorf("networks computed: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.passesAnalyzed); got != 200 {
		t.Errorf("passes analyzed: got %v, want 200", got)
	}
	if got := testutil.ToFloat64(r.computeFailures.WithLabelValues("division_by_zero")); got != 1 {
		t.Errorf("division_by_zero failures: got %v, want 1", got)
	}
}

func TestObserveRequest(t *testing.T) {
	r := New(prometheus.NewRegistry())
	r.ObserveRequest("/matches", 200, time.Millisecond)
	r.ObserveRequest("/matches", 200, time.Millisecond)
	r.ObserveRequest("/matches", 500, time.Millisecond)

	if got := testutil.ToFloat64(r.httpRequests.WithLabelValues("/matches", "200")); got != 2 {
		t.Errorf("200s: got %v, want 2", got)
	}
}

func TestErrorKind(t *testing.T) {
	cases := map[error]string{
		&network.ValidationError{Field: "passer", Reason: "is empty"}: "validation",
		fmt.Errorf("x: %w", network.ErrEmptyInput):                   "empty_input",
		network.ErrDivisionByZero:                                    "division_by_zero",
		network.ErrInvalidConfig:                                     "invalid_config",
		errors.New("disk full"):                                      "other",
	}
	for err, want := range cases {
		if got := ErrorKind(err); got != want {
			t.Errorf("ErrorKind(%v) = %s, want %s", err, got, want)
		}
	}
}
