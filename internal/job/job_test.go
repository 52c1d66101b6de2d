package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"MaterialPrices/internal/model"
	"MaterialPrices/internal/recorder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureRecorder struct {
	snaps []*recorder.RunSnapshot
	err   error
}

func (c *captureRecorder) RecordRun(snap *recorder.RunSnapshot) error {
	c.snaps = append(c.snaps, snap)
	return c.err
}

func (c *captureRecorder) Close() error { return nil }

func fixedNow() time.Time { return time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC) }

func materials() []model.Material {
	return []model.Material{
		{Name: "Cement (OPC 53 Grade)", BasePrice: 380, Volatility: 10, Unit: "Per 50kg Bag"},
		{Name: "Steel (TMT Fe550)", BasePrice: 58000, Volatility: 1000, Unit: "Per Ton"},
	}
}

func TestDefaultWindow(t *testing.T) {
	tests := []struct {
		now        time.Time
		days       int
		start, end string
	}{
		{fixedNow(), 365, "2025-10-01", "2026-09-30"},
		{time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 1, "2024-02-29", "2024-02-29"},
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 31, "2024-12-01", "2024-12-31"},
	}
	for _, tt := range tests {
		start, end := DefaultWindow(tt.now, tt.days)
		assert.Equal(t, tt.start, start.Format("2006-01-02"))
		assert.Equal(t, tt.end, end.Format("2006-01-02"))
	}

	start, end := DefaultWindow(fixedNow(), 0)
	assert.True(t, start.After(end))
}

func TestRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "data", "prices.csv")
	rec := &captureRecorder{}
	j := &Job{Materials: materials(), Days: 10, Seed: 42, Output: out, Recorder: rec, Now: fixedNow}

	res, err := j.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, res.Rows())
	assert.Equal(t, "2026-09-21", res.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-09-30", res.End.Format("2006-01-02"))
	assert.True(t, filepath.IsAbs(res.Path))
	assert.NotEmpty(t, res.RunID)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 21)
	assert.Equal(t, "Date,Material,Unit,Price_INR,7_Day_Avg", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2026-09-21,Cement (OPC 53 Grade),Per 50kg Bag,"))

	require.Len(t, rec.snaps, 1)
	assert.Equal(t, res.RunID, rec.snaps[0].RunID)
	assert.Equal(t, int64(42), rec.snaps[0].Seed)
	assert.Len(t, rec.snaps[0].Table, 20)
}

func TestRun_Reproducible(t *testing.T) {
	dir := t.TempDir()
	a := &Job{Materials: materials(), Days: 30, Seed: 9, Output: filepath.Join(dir, "a.csv"), Now: fixedNow}
	b := &Job{Materials: materials(), Days: 30, Seed: 9, Output: filepath.Join(dir, "b.csv"), Now: fixedNow}

	_, err := a.Run(context.Background())
	require.NoError(t, err)
	_, err = b.Run(context.Background())
	require.NoError(t, err)

	rawA, err := os.ReadFile(a.Output)
	require.NoError(t, err)
	rawB, err := os.ReadFile(b.Output)
	require.NoError(t, err)
	assert.Equal(t, rawA, rawB)
}

func TestRun_RecorderFailureIsNotFatal(t *testing.T) {
	rec := &captureRecorder{err: errors.New("disk full")}
	j := &Job{Materials: materials(), Days: 3, Seed: 1, Output: filepath.Join(t.TempDir(), "p.csv"), Recorder: rec, Now: fixedNow}

	res, err := j.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, res.Rows())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j := &Job{Materials: materials(), Days: 3, Output: filepath.Join(t.TempDir(), "p.csv"), Now: fixedNow}

	_, err := j.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(j.Output)
	assert.True(t, os.IsNotExist(statErr))
}
