package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is a customer review of a delivered order. Reviews start unapproved
// and are moderated by an admin before they surface anywhere.
type Rating struct {
	ID            string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID       string  `gorm:"type:varchar(36);not null;index" json:"orderId"`
	RestaurantID  string  `gorm:"type:varchar(36);not null;index" json:"restaurantId"`
	CustomerName  string  `gorm:"type:varchar(255);not null" json:"customerName"`
	CustomerPhone string  `gorm:"type:varchar(32)" json:"customerPhone"`
	Rating        int     `gorm:"not null" json:"rating"`
	Comment       *string `gorm:"type:text" json:"comment,omitempty"`
	IsApproved    bool    `gorm:"not null;default:false" json:"isApproved"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
