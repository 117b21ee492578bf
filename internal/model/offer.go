package model

import "time"

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
)

// CanResolve reports whether an offer in status s may still be accepted or
// rejected. Accepted and rejected are terminal.
func (s OfferStatus) CanResolve() bool {
	return s == OfferStatusPending
}

type Offer struct {
	ID           uint64      `gorm:"primaryKey;autoIncrement"`
	ListingID    uint64      `gorm:"column:listing_id;index;not null"`
	BuyerUID     string      `gorm:"column:buyer_uid;size:128;index;not null"`
	OfferedPrice float64     `gorm:"column:offered_price;type:decimal(10,2);not null"`
	Status       OfferStatus `gorm:"column:status;size:16;not null"`
	CreatedAt    time.Time   `gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime"`
}

func (Offer) TableName() string {
	return "offers"
}
