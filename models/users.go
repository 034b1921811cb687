package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User types for the unified login.
const (
	UserTypeCustomer = "customer"
	UserTypeDriver   = "driver"
	UserTypeAdmin    = "admin"
)

type User struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Phone    string `gorm:"type:varchar(32);uniqueIndex;not null" json:"phone"`
	Email    string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	UserType string `gorm:"type:varchar(20);not null;default:'customer'" json:"userType"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
