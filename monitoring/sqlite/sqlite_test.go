package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmike/walker/internal/domain"
	errs "github.com/osmike/walker/internal/error"
)

func TestHistory_SaveAndRecent(t *testing.T) {
	h, err := Open(":memory:", nil)
	require.NoError(t, err)
	defer h.Close()

	start := time.Unix(1700000000, 0)
	h.SaveMetrics(domain.StepState{
		WalkID:   "w1",
		Seq:      1,
		StartAt:  start,
		EndAt:    start.Add(time.Second),
		Duration: time.Second,
		Status:   domain.Succeeded,
	})
	h.SaveMetrics(domain.StepState{
		WalkID:  "w1",
		Seq:     2,
		StartAt: start.Add(time.Minute),
		EndAt:   start.Add(time.Minute),
		Status:  domain.Failed,
		Error:   errors.New("nothing to visit"),
	})

	recs, err := h.Recent(10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, 2, recs[0].Seq)
	assert.Equal(t, domain.Failed, recs[0].Status)
	assert.Equal(t, "nothing to visit", recs[0].Error)

	assert.Equal(t, "w1", recs[1].WalkID)
	assert.Equal(t, domain.Succeeded, recs[1].Status)
	assert.Equal(t, time.Second, recs[1].Duration)
	assert.True(t, recs[1].StartAt.Equal(start))
	assert.Empty(t, recs[1].Error)
}

func TestHistory_RecentLimit(t *testing.T) {
	h, err := Open(filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	defer h.Close()

	for i := 1; i <= 5; i++ {
		require.NoError(t, h.Save(domain.StepState{WalkID: "w", Seq: i, Status: domain.Succeeded}))
	}

	recs, err := h.Recent(3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []int{5, 4, 3}, []int{recs[0].Seq, recs[1].Seq, recs[2].Seq})
}

func TestHistory_Open_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "history.db"), nil)
	assert.ErrorIs(t, err, errs.ErrHistoryOpen)
}
