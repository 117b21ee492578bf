package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// CanTransitionTo encodes the order state machine:
// pending -> accepted | cancelled, accepted -> completed.
// Completed and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusAccepted || next == OrderStatusCancelled
	case OrderStatusAccepted:
		return next == OrderStatusCompleted
	}
	return false
}

type Order struct {
	ID        uint64      `gorm:"primaryKey;autoIncrement"`
	ListingID uint64      `gorm:"column:listing_id;index;not null"`
	BuyerUID  string      `gorm:"column:buyer_uid;size:128;index;not null"`
	Status    OrderStatus `gorm:"column:status;size:16;not null"`
	OrderDate time.Time   `gorm:"column:order_date;not null"`
	// Version guards the status against concurrent accept/complete races.
	Version   uint64    `gorm:"not null;default:0"`
	Review    *Review   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}
