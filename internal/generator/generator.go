// Package generator synthesizes daily construction-material price series.
package generator

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"MaterialPrices/internal/calculator"
	"MaterialPrices/internal/model"
)

const (
	seasonalAmplitude = 0.05
	seasonalPhaseDay  = 80
	daysPerYear       = 365.25

	shockKeyword    = "Steel"
	shockMultiplier = 1.15

	rollingWindow = 7
)

// Generate builds the price table for every date in [start, end] and every material,
// in date-major, material-minor order. A single random stream seeded with seed feeds
// all rows in that order, so reordering materials or changing the range changes the
// noise every later row receives. An inverted range or empty material list yields an
// empty table.
func Generate(start, end time.Time, materials []model.Material, seed int64) model.PriceTable {
	rng := rand.New(rand.NewSource(seed))
	dates := Dates(start, end)

	table := make(model.PriceTable, 0, len(dates)*len(materials))
	for _, date := range dates {
		seasonal := SeasonalMultiplier(date)
		for _, m := range materials {
			noise := rng.NormFloat64() * m.Volatility / 3
			price := m.BasePrice + m.BasePrice*seasonal + noise
			if IsSupplyShock(date, m.Name) {
				price *= shockMultiplier
			}
			table = append(table, model.PriceObservation{
				Date:     date,
				Material: m.Name,
				Unit:     m.Unit,
				Price:    RoundPrice(price),
			})
		}
	}

	fillRollingAverages(table)
	return table
}

// Dates returns each calendar day from start to end inclusive, as UTC midnights.
func Dates(start, end time.Time) []time.Time {
	start, end = civilDate(start), civilDate(end)
	if start.After(end) {
		return nil
	}
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// SeasonalMultiplier models a smooth annual cycle with 5% amplitude, crossing zero
// around day 80 of the year.
func SeasonalMultiplier(date time.Time) float64 {
	return seasonalAmplitude * math.Sin(2*math.Pi*float64(date.YearDay()-seasonalPhaseDay)/daysPerYear)
}

// IsSupplyShock reports whether the scripted Feb 5 steel price jump applies.
func IsSupplyShock(date time.Time, material string) bool {
	return date.Month() == time.February && date.Day() == 5 && strings.Contains(material, shockKeyword)
}

// RoundPrice rounds to 2 decimals, half-to-even on the exact binary value.
func RoundPrice(x float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// roundAverage rounds to 2 decimals, half-to-even after scaling by 100.
func roundAverage(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}

func fillRollingAverages(table model.PriceTable) {
	positions := make(map[string][]int)
	var order []string
	for i, row := range table {
		if _, ok := positions[row.Material]; !ok {
			order = append(order, row.Material)
		}
		positions[row.Material] = append(positions[row.Material], i)
	}

	for _, name := range order {
		idx := positions[name]
		prices := make([]float64, len(idx))
		for j, i := range idx {
			prices[j] = table[i].Price
		}
		// rollingWindow is a positive constant, so RollingMean cannot fail here.
		avgs, _ := calculator.RollingMean(prices, rollingWindow)
		for j, i := range idx {
			table[i].RollingAvg7d = roundAverage(avgs[j])
		}
	}
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
