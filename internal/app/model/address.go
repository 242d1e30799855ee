package model

import (
	"time"

	"gorm.io/gorm"
)

// Address is a saved delivery address of a registered user.
type Address struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	CityID    uint           `gorm:"not null" json:"city_id"`
	Street    string         `gorm:"not null" json:"street"`
	House     string         `json:"house"`
	Phone     string         `gorm:"not null" json:"phone"`
	Note      string         `json:"note"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	City City `gorm:"foreignKey:CityID" json:"city,omitempty"`
}

func (Address) TableName() string {
	return "addresses"
}
