package model

import (
	"time"

	"gorm.io/gorm"
)

type DiscountStatus string

const (
	DiscountStatusPublished   DiscountStatus = "published"
	DiscountStatusUnpublished DiscountStatus = "unpublished"
)

// Discount is a flat amount-off coupon. Only published discounts are
// redeemable.
type Discount struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Code      string         `gorm:"not null;uniqueIndex;size:50" json:"code"`
	Amount    float64        `gorm:"not null" json:"amount"`
	Status    DiscountStatus `gorm:"type:varchar(20);default:'published'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Discount) TableName() string {
	return "discounts"
}

func (d *Discount) IsPublished() bool {
	return d.Status == DiscountStatusPublished
}
