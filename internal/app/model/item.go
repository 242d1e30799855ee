package model

import (
	"time"

	"gorm.io/gorm"
)

type ItemStatus string

const (
	ItemStatusPublished   ItemStatus = "published"
	ItemStatusUnpublished ItemStatus = "unpublished"
)

// Item is a menu entry. Its sellable prices live in ItemPrice rows, one per
// size variant.
type Item struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Details    string         `gorm:"type:text" json:"details"`
	Thumbnail  string         `json:"thumbnail"`
	CategoryID uint           `gorm:"not null;index" json:"category_id"`
	Status     ItemStatus     `gorm:"type:varchar(20);default:'published'" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Category Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Prices   []ItemPrice `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"prices,omitempty"`
}

func (Item) TableName() string {
	return "items"
}

// ItemPrice is a priced variant of an item (a size, typically).
type ItemPrice struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ItemID    uint           `gorm:"not null;index" json:"item_id"`
	Size      string         `gorm:"size:50" json:"size"`
	Price     float64        `gorm:"not null" json:"price"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Item Item `gorm:"foreignKey:ItemID" json:"-"`
}

func (ItemPrice) TableName() string {
	return "item_prices"
}
