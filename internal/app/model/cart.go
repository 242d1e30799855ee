package model

import (
	"time"
)

// CartLine is a single unit of an item variant sitting in a cart. Quantity is
// represented by row count: adding three medium pizzas inserts three lines
// with the same (item_id, price_id). Exactly one of UserID/GuestID is set.
//
// UnitPrice is the catalog price captured at add time; the live catalog price
// still wins at pricing time.
type CartLine struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       *uint     `gorm:"index:idx_cart_owner_user" json:"user_id,omitempty"`
	GuestID      *string   `gorm:"index:idx_cart_owner_guest;size:64" json:"guest_id,omitempty"`
	ItemID       uint      `gorm:"not null;index" json:"item_id"`
	PriceID      uint      `gorm:"not null;index" json:"price_id"`
	UnitPrice    float64   `gorm:"not null" json:"unit_price"`
	DiscountCode *string   `gorm:"size:50" json:"discount_code,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Item  Item      `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Price ItemPrice `gorm:"foreignKey:PriceID" json:"price,omitempty"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}

// BelongsTo reports whether the line is owned by the given owner.
func (c *CartLine) BelongsTo(owner Owner) bool {
	return owner.Matches(c.UserID, c.GuestID)
}
