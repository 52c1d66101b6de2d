package report

import (
	"strings"
	"testing"
	"time"

	"MaterialPrices/internal/job"
	"MaterialPrices/internal/model"
)

func TestFormatSummary(t *testing.T) {
	d := time.Date(2025, 2, 4, 0, 0, 0, 0, time.UTC)
	res := &job.Result{
		RunID: "abc",
		Start: d,
		End:   d.AddDate(0, 0, 1),
		Path:  "/tmp/prices.csv",
		Table: model.PriceTable{
			{Date: d, Material: "Steel (TMT Fe550)", Unit: "Per Ton", Price: 58000, RollingAvg7d: 58000},
			{Date: d, Material: "River Sand", Unit: "Per Cubic Meter", Price: 1600, RollingAvg7d: 1600},
			{Date: d.AddDate(0, 0, 1), Material: "Steel (TMT Fe550)", Unit: "Per Ton", Price: 66700, RollingAvg7d: 62350},
			{Date: d.AddDate(0, 0, 1), Material: "River Sand", Unit: "Per Cubic Meter", Price: 1580, RollingAvg7d: 1590},
		},
	}

	out := FormatSummary(res)
	for _, want := range []string{
		"Run abc | 2025-02-04 ~ 2025-02-05",
		"Rows: 4 -> /tmp/prices.csv",
		"Steel (TMT Fe550): low 58000.00 | high 66700.00 | 7d avg 62350.00 Per Ton (at 100% of range)",
		"River Sand: low 1580.00 | high 1600.00 | 7d avg 1590.00 Per Cubic Meter (at 0% of range)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Steel") > strings.Index(out, "River Sand") {
		t.Error("materials should be listed in emission order")
	}
}

func TestFormatSummary_Empty(t *testing.T) {
	out := FormatSummary(&job.Result{RunID: "x"})
	if !strings.Contains(out, "Rows: 0") {
		t.Errorf("unexpected summary: %s", out)
	}
}
