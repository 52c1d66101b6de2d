package recorder

import (
	"time"

	"MaterialPrices/internal/model"
)

// RunSnapshot holds everything about one generation run worth keeping.
type RunSnapshot struct {
	RunID  string
	Seed   int64
	Start  time.Time
	End    time.Time
	Output string
	Table  model.PriceTable
}

// Recorder persists generated tables for later inspection.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	Close() error
}
