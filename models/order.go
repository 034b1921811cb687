package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID            string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderNumber   string  `gorm:"type:varchar(32);uniqueIndex;not null" json:"orderNumber"`
	CustomerID    *string `gorm:"type:varchar(36);index" json:"customerId"` // nil for guest orders
	CustomerName  string  `gorm:"type:varchar(255);not null" json:"customerName"`
	CustomerPhone string  `gorm:"type:varchar(32);not null" json:"customerPhone"`
	CustomerEmail string  `gorm:"type:varchar(255)" json:"customerEmail,omitempty"`

	RestaurantID string     `gorm:"type:varchar(36);not null;index" json:"restaurantId"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`
	DriverID     *string    `gorm:"type:varchar(36);index" json:"driverId"`

	// Items is the ordered item list serialized as JSON text.
	Items string `gorm:"type:text" json:"items"`

	// Monetary fields travel as decimal strings; parse with utils.ParseDecimal.
	Subtotal       string `gorm:"type:varchar(20);default:'0'" json:"subtotal"`
	DeliveryFee    string `gorm:"type:varchar(20);default:'0'" json:"deliveryFee"`
	DiscountAmount string `gorm:"type:varchar(20);default:'0'" json:"discountAmount"`
	Total          string `gorm:"type:varchar(20);default:'0'" json:"total"`
	TotalAmount    string `gorm:"type:varchar(20);default:'0'" json:"totalAmount"`
	DriverEarnings string `gorm:"type:varchar(20)" json:"driverEarnings"`

	Status        string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentMethod string `gorm:"type:varchar(20);default:'cash'" json:"paymentMethod"`
	PaymentStatus string `gorm:"type:varchar(20);default:'unpaid'" json:"paymentStatus"`

	DeliveryAddress     string   `gorm:"type:text;not null" json:"deliveryAddress"`
	CustomerLocationLat *float64 `json:"customerLocationLat,omitempty"`
	CustomerLocationLng *float64 `json:"customerLocationLng,omitempty"`

	Notes            string `gorm:"type:text" json:"notes,omitempty"`
	DeliveryDate     string `gorm:"type:varchar(32)" json:"deliveryDate,omitempty"`
	DeliveryTimeSlot string `gorm:"type:varchar(64)" json:"deliveryTimeSlot,omitempty"`

	CreatedAt          time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"not null" json:"updatedAt"`
	ActualDeliveryTime *time.Time `json:"actualDeliveryTime,omitempty"`
}

// OrderItem is the value shape stored inside Order.Items.
type OrderItem struct {
	Name         string `json:"name"`
	Price        string `json:"price"`
	Quantity     int    `json:"quantity"`
	RestaurantID string `json:"restaurantId"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = NewOrderNumber()
	}
	return nil
}

// NewOrderNumber builds the human-readable order number.
func NewOrderNumber() string {
	return fmt.Sprintf("ORD%d", time.Now().UnixMilli())
}

// ParsedItems decodes the serialized item list. Malformed JSON yields an
// empty slice rather than an error, matching how clients treat the field.
func (o *Order) ParsedItems() []OrderItem {
	var items []OrderItem
	if err := json.Unmarshal([]byte(o.Items), &items); err != nil {
		return []OrderItem{}
	}
	return items
}

// SetItems serializes the item list into the Items column.
func (o *Order) SetItems(items []OrderItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	o.Items = string(data)
	return nil
}
