package models

import (
	"time"
)

// Calculation is one entry in a session's pricing ledger. TotalCost is always
// computed server-side at append time; records are never edited afterwards.
type Calculation struct {
	ID              uint      `gorm:"primary_key" json:"id"`
	SessionID       string    `gorm:"type:uuid;index" json:"session_id"`
	Material        string    `json:"material"`
	Product         string    `json:"product"`
	PricePerSpool   float64   `json:"price_per_spool"`
	WeightGrams     float64   `json:"weight_grams"`
	PrintHours      float64   `json:"print_hours"`
	PrintMinutes    float64   `json:"print_minutes"`
	ElectricityCost float64   `json:"electricity_cost"`
	MarkupPercent   float64   `json:"markup_percent"`
	TotalCost       float64   `json:"total_cost"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `gorm:"index" json:"expires_at"`
}
