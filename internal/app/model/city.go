package model

import (
	"time"

	"gorm.io/gorm"
)

// City is a delivery zone the restaurant serves.
type City struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (City) TableName() string {
	return "cities"
}
