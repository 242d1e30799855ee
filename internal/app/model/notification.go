package model

import (
	"time"

	"github.com/lib/pq"
)

type NotificationKind string

const (
	NotificationOrderPlaced        NotificationKind = "order_placed"
	NotificationOrderStatusChanged NotificationKind = "order_status_changed"
)

// NotificationLog records one dispatch attempt per order event, with the
// channels that accepted the message. Dispatch is best effort; a log row is
// written even when every channel fails.
type NotificationLog struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	OrderID   uint             `gorm:"not null;index" json:"order_id"`
	Kind      NotificationKind `gorm:"type:varchar(40);not null" json:"kind"`
	Channels  pq.StringArray   `gorm:"type:text[]" json:"channels"`
	Error     string           `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}
