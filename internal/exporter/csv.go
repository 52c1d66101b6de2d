package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"MaterialPrices/internal/model"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used in exported rows.
const DateLayout = "2006-01-02"

// Header lists the exported columns in order.
var Header = []string{"Date", "Material", "Unit", "Price_INR", "7_Day_Avg"}

// WriteCSV writes the table to path, creating parent directories as needed.
func WriteCSV(path string, table model.PriceTable) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, r := range table {
		row := []string{
			r.Date.Format(DateLayout),
			r.Material,
			r.Unit,
			FormatAmount(r.Price),
			FormatAmount(r.RollingAvg7d),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// FormatAmount renders a 2-decimal price as fixed-point text, always with two
// decimals ("380.50", not "380.5"). Callers must pass finite values.
func FormatAmount(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}
