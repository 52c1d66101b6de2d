// Package job wires one generation run: date window, generation, CSV export and recording.
package job

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"MaterialPrices/internal/exporter"
	"MaterialPrices/internal/generator"
	"MaterialPrices/internal/model"
	"MaterialPrices/internal/recorder"

	"github.com/google/uuid"
)

// Job describes a repeatable generation run.
type Job struct {
	Materials []model.Material
	Days      int
	Seed      int64
	Output    string
	Recorder  recorder.Recorder
	// Now is the clock used to derive the date window; nil means time.Now.
	Now func() time.Time
}

// Result summarizes a finished run.
type Result struct {
	RunID string
	Start time.Time
	End   time.Time
	Path  string
	Table model.PriceTable
}

// Rows returns the number of generated observations.
func (r *Result) Rows() int { return len(r.Table) }

// DefaultWindow returns the range of days ending on the last day of the month before now.
// A non-positive days value yields start after end, i.e. an empty range.
func DefaultWindow(now time.Time, days int) (start, end time.Time) {
	y, m, _ := now.Date()
	end = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	start = end.AddDate(0, 0, -(days - 1))
	return start, end
}

// Run generates the table, writes it to Output and records it.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	start, end := DefaultWindow(now(), j.Days)
	table := generator.Generate(start, end, j.Materials, j.Seed)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := exporter.WriteCSV(j.Output, table); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	path, err := filepath.Abs(j.Output)
	if err != nil {
		path = j.Output
	}

	res := &Result{
		RunID: uuid.NewString(),
		Start: start,
		End:   end,
		Path:  path,
		Table: table,
	}

	if j.Recorder != nil {
		if err := j.Recorder.RecordRun(&recorder.RunSnapshot{
			RunID:  res.RunID,
			Seed:   j.Seed,
			Start:  start,
			End:    end,
			Output: path,
			Table:  table,
		}); err != nil {
			log.Printf("[ERROR] record run %s: %v", res.RunID, err)
		}
	}
	return res, nil
}
