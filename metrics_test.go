package lingolens

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.recordPlacement(OutcomePlaneHit, 0.001)
	m.recordRejection(ErrInvalidLabel)
	m.setLive(3)
	if m.Registry() != nil {
		t.Error("nil metrics should have no registry")
	}
}

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics("lingolens")
	m.recordPlacement(OutcomePlaneHit, 0.001)
	m.recordPlacement(OutcomePlaneHit, 0.002)
	m.recordPlacement(OutcomeFailed, 0.003)
	m.recordRejection(ErrPlacementInProgress)
	m.setLive(2)

	if got := testutil.ToFloat64(m.placements.WithLabelValues("plane")); got != 2 {
		t.Errorf("placements{plane} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.placements.WithLabelValues("failed")); got != 1 {
		t.Errorf("placements{failed} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.rejections.WithLabelValues("in_progress")); got != 1 {
		t.Errorf("rejections{in_progress} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.live); got != 2 {
		t.Errorf("live = %v, want 2", got)
	}

	expected := `
# HELP lingolens_annotations_live Current number of annotations in the scene
# TYPE lingolens_annotations_live gauge
lingolens_annotations_live 2
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "lingolens_annotations_live"); err != nil {
		t.Error(err)
	}
	if n := testutil.CollectAndCount(m.resolveDuration); n != 1 {
		t.Errorf("histogram series = %d, want 1", n)
	}
}

func TestRejectionReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidLabel, "invalid_label"},
		{ErrPlacementInProgress, "in_progress"},
		{ErrInvalidIndex, "invalid_index"},
		{ErrInvalidScale, "invalid_scale"},
		{ErrPlacementFailed, "placement_failed"},
		{errors.New("other"), "other"},
	}
	for _, tt := range tests {
		if got := rejectionReason(tt.err); got != tt.want {
			t.Errorf("rejectionReason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
