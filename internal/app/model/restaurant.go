package model

import (
	"time"
)

// Restaurant holds the single row of restaurant-wide settings. Tax and
// delivery values feed every cart quote and order total.
type Restaurant struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	AddressLine    string    `json:"address_line"`
	OpensAt        string    `gorm:"size:8" json:"opens_at"`
	ClosesAt       string    `gorm:"size:8" json:"closes_at"`
	TaxPercent     float64   `gorm:"not null;default:0" json:"tax_percent"`
	DeliveryCharge float64   `gorm:"not null;default:0" json:"delivery_charge"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}
