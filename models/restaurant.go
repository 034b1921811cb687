package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Restaurant struct {
	ID   string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	// DeliveryFee and MinimumOrder are decimal strings; empty means "use the
	// platform default" / "no minimum".
	DeliveryFee  string `gorm:"type:varchar(20)" json:"deliveryFee,omitempty"`
	MinimumOrder string `gorm:"type:varchar(20)" json:"minimumOrder,omitempty"`

	DeliveryTime string `gorm:"type:varchar(64)" json:"deliveryTime,omitempty"`
	Phone        string `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Address      string `gorm:"type:text" json:"address,omitempty"`
	IsOpen       bool   `gorm:"not null;default:true" json:"isOpen"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
