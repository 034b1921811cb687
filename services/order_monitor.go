package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/aymen12m12-coder/sareeone1/events"
	"github.com/aymen12m12-coder/sareeone1/models"
)

// OrderMonitor polls the order_changes audit table and pushes order/driver
// updates to the websocket hub. Reads stay poll-based; clients tolerate the
// interval of staleness.
type OrderMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewOrderMonitor(db *gorm.DB) *OrderMonitor {
	return &OrderMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (m *OrderMonitor) Start() {
	go func() {
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.checkChanges()
			case <-m.StopChan:
				return
			}
		}
	}()
}

func (m *OrderMonitor) Stop() {
	close(m.StopChan)
}

func (m *OrderMonitor) checkChanges() {
	var changes []models.OrderChange

	tx := m.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		log.Printf("Error fetching changes: %v", err)
		return
	}

	for _, change := range changes {
		switch change.TableName {
		case "orders":
			m.processOrderChange(change)
		case "drivers":
			m.processDriverChange(change)
		}

		if err := tx.Model(&models.OrderChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			log.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing change batch: %v", err)
		tx.Rollback()
	}
}

func (m *OrderMonitor) processOrderChange(change models.OrderChange) {
	var order models.Order
	if err := m.DB.First(&order, "id = ?", change.RecordID).Error; err != nil {
		log.Printf("Error fetching order %s: %v", change.RecordID, err)
		return
	}

	switch change.ActionType {
	case "INSERT", "UPDATE":
		events.BroadcastOrderUpdate(order)
		if order.DriverID != nil && models.CanonicalStatus(order.Status) == models.StatusPreparing {
			events.BroadcastOrderClaimed(order)
		}
	}
}

func (m *OrderMonitor) processDriverChange(change models.OrderChange) {
	var driver models.Driver
	if err := m.DB.First(&driver, "id = ?", change.RecordID).Error; err != nil {
		log.Printf("Error fetching driver %s: %v", change.RecordID, err)
		return
	}

	if change.ActionType == "UPDATE" {
		events.BroadcastDriverUpdate(driver)
	}
}

// RecordChange writes an audit row directly. Used on sqlite where the
// mysql triggers are unavailable.
func RecordChange(db *gorm.DB, tableName, recordID, action string) {
	change := models.OrderChange{
		TableName:  tableName,
		RecordID:   recordID,
		ActionType: action,
		ChangedAt:  time.Now(),
	}
	if err := db.Create(&change).Error; err != nil {
		log.Printf("Error recording %s change for %s: %v", tableName, recordID, err)
	}
}
