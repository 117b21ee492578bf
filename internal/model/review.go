package model

import "time"

type Review struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	OrderID     uint64    `gorm:"column:order_id;not null;uniqueIndex:uk_reviews_order"`
	ReviewerUID string    `gorm:"column:reviewer_uid;size:128;index;not null"`
	RevieweeUID string    `gorm:"column:reviewee_uid;size:128;index;not null"`
	Rating      int       `gorm:"not null"`
	Comment     string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Review) TableName() string {
	return "reviews"
}
