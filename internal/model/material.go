package model

// Material describes one priced construction material.
type Material struct {
	Name       string
	BasePrice  float64
	Volatility float64
	Unit       string
}
