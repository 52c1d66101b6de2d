package report

import (
	"fmt"
	"strings"

	"MaterialPrices/internal/calculator"
	"MaterialPrices/internal/job"
	"MaterialPrices/internal/model"
)

// FormatSummary formats a finished run for the log.
func FormatSummary(res *job.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Run %s | %s ~ %s\n", res.RunID, res.Start.Format("2006-01-02"), res.End.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Rows: %d -> %s\n", res.Rows(), res.Path))

	for _, name := range materialNames(res.Table) {
		obs := res.Table.ByMaterial(name)
		high, low, err := calculator.PriceRange(model.Prices(obs))
		if err != nil {
			continue
		}
		last := obs[len(obs)-1]
		pos, _ := calculator.RangePosition(last.Price, high, low)
		b.WriteString(fmt.Sprintf("  %s: low %.2f | high %.2f | 7d avg %.2f %s (at %.0f%% of range)\n",
			name, low, high, last.RollingAvg7d, last.Unit, pos*100))
	}

	return b.String()
}

func materialNames(table model.PriceTable) []string {
	seen := make(map[string]bool)
	var names []string
	for _, o := range table {
		if !seen[o.Material] {
			seen[o.Material] = true
			names = append(names, o.Material)
		}
	}
	return names
}
