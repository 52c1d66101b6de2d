package model

import "time"

// PriceObservation is one generated row of the price table.
type PriceObservation struct {
	Date         time.Time
	Material     string
	Unit         string
	Price        float64
	RollingAvg7d float64
}

// PriceTable holds observations in date-major, material-minor order.
type PriceTable []PriceObservation

// ByMaterial returns the observations of one material in chronological order.
func (t PriceTable) ByMaterial(name string) []PriceObservation {
	var out []PriceObservation
	for _, o := range t {
		if o.Material == name {
			out = append(out, o)
		}
	}
	return out
}

// Prices extracts the price column.
func Prices(obs []PriceObservation) []float64 {
	prices := make([]float64, len(obs))
	for i, o := range obs {
		prices[i] = o.Price
	}
	return prices
}
