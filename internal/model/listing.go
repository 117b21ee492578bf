package model

import "time"

type ListingCondition string

const (
	ConditionNew      ListingCondition = "new"
	ConditionLikeNew  ListingCondition = "like_new"
	ConditionVeryGood ListingCondition = "very_good"
	ConditionGood     ListingCondition = "good"
	ConditionFair     ListingCondition = "fair"
)

func (c ListingCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionVeryGood, ConditionGood, ConditionFair:
		return true
	}
	return false
}

type Listing struct {
	ID          uint64           `gorm:"primaryKey;autoIncrement"`
	Title       string           `gorm:"size:120;not null"`
	Description string           `gorm:"type:text;not null"`
	Price       float64          `gorm:"type:decimal(10,2);not null"`
	Condition   ListingCondition `gorm:"column:item_condition;size:16;not null"`
	IsSold      bool             `gorm:"column:is_sold;not null;default:false"`
	CategoryID  uint64           `gorm:"column:category_id;index;not null"`
	SellerUID   string           `gorm:"column:seller_uid;size:128;index;not null"`
	ImageURL    *string          `gorm:"size:512"`
	// Version guards concurrent writes to IsSold and listing edits.
	Version   uint64    `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Listing) TableName() string {
	return "listings"
}
