package model

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleBuyer:
		return true
	}
	return false
}

type User struct {
	UID         string    `gorm:"column:uid;primaryKey;size:128"`
	DisplayName string    `gorm:"column:display_name;size:120"`
	Email       string    `gorm:"column:email;size:255"`
	Role        Role      `gorm:"column:role;size:16;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
