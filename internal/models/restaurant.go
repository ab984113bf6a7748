package models

type Restaurant struct {
	ID       string     `json:"id" yaml:"id"`
	Name     string     `json:"name" yaml:"name"`
	Type     Menu       `json:"type" yaml:"type"`
	Price    PriceRange `json:"price" yaml:"price"`
	Distance int        `json:"distance" yaml:"distance"` // minutes on foot
	Rating   float64    `json:"rating" yaml:"rating"`
}
