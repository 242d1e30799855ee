package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCooking   OrderStatus = "cooking"
	OrderStatusOnTheWay  OrderStatus = "on_the_way"
	OrderStatusDelivered OrderStatus = "delivered"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusCooking, OrderStatusOnTheWay, OrderStatusDelivered:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusPaid
}

// Order is an immutable snapshot of a priced cart. All monetary columns are
// frozen at placement; later catalog or settings edits never touch them.
// Exactly one of UserID/GuestID is set. Registered users reference a saved
// address; guests carry the delivery address inline.
type Order struct {
	ID      uint    `gorm:"primarykey" json:"id"`
	UserID  *uint   `gorm:"index" json:"user_id,omitempty"`
	GuestID *string `gorm:"index;size:64" json:"guest_id,omitempty"`

	ItemsPrice     float64 `gorm:"not null" json:"items_price"`
	DiscountCode   *string `gorm:"size:50" json:"discount_code,omitempty"`
	DiscountAmount float64 `gorm:"not null;default:0" json:"discount_amount"`
	TaxPercent     float64 `gorm:"not null;default:0" json:"tax_percent"`
	TaxAmount      float64 `gorm:"not null;default:0" json:"tax_amount"`
	DeliveryCharge float64 `gorm:"not null;default:0" json:"delivery_charge"`
	TotalAmount    float64 `gorm:"not null" json:"total_amount"`

	Status        OrderStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'unpaid'" json:"payment_status"`

	AddressID *uint `gorm:"index" json:"address_id,omitempty"`

	// Guest delivery details, captured inline at placement.
	GuestName   string `json:"guest_name,omitempty"`
	GuestPhone  string `json:"guest_phone,omitempty"`
	GuestEmail  string `json:"guest_email,omitempty"`
	GuestCityID *uint  `json:"guest_city_id,omitempty"`
	GuestStreet string `json:"guest_street,omitempty"`
	GuestHouse  string `json:"guest_house,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User    *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Address *Address    `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Items   []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// BelongsTo reports whether the order is owned by the given owner.
func (o *Order) BelongsTo(owner Owner) bool {
	return owner.Matches(o.UserID, o.GuestID)
}

// OrderItem is a denormalized order line: title, size and unit price are
// copied from the catalog at placement so the order survives catalog edits.
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	ItemID    uint      `gorm:"not null" json:"item_id"`
	PriceID   uint      `gorm:"not null" json:"price_id"`
	Title     string    `gorm:"not null" json:"title"`
	Size      string    `gorm:"size:50" json:"size"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal is the unit price times quantity for this line.
func (oi *OrderItem) LineTotal() float64 {
	return oi.UnitPrice * float64(oi.Quantity)
}
