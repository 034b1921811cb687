package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Driver is referenced by orders, never owned; drivers are deactivated via
// the availability flag rather than hard-deleted.
type Driver struct {
	ID              string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name            string  `gorm:"type:varchar(255);not null" json:"name"`
	Phone           string  `gorm:"type:varchar(32);uniqueIndex;not null" json:"phone"`
	Email           string  `gorm:"type:varchar(255)" json:"email,omitempty"`
	Password        string  `gorm:"type:varchar(255)" json:"-"`
	VehicleType     string  `gorm:"type:varchar(64)" json:"vehicleType,omitempty"`
	IsAvailable     bool    `gorm:"not null;default:false;index" json:"isAvailable"`
	CurrentLocation *string `gorm:"type:varchar(255)" json:"currentLocation,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (d *Driver) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
