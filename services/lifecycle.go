package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aymen12m12-coder/sareeone1/models"
	"github.com/aymen12m12-coder/sareeone1/utils"
)

// forwardEdges is the only legal forward path through the lifecycle.
// Cancellation branches off separately in Cancel.
var forwardEdges = map[string]string{
	models.StatusPending:   models.StatusConfirmed,
	models.StatusConfirmed: models.StatusPreparing,
	models.StatusPreparing: models.StatusOnWay,
	models.StatusOnWay:     models.StatusDelivered,
}

// cancellableStatuses: an order can be cancelled until the food leaves the
// restaurant.
var cancellableStatuses = map[string]bool{
	models.StatusPending:   true,
	models.StatusConfirmed: true,
	models.StatusPreparing: true,
}

type OrderLifecycle struct {
	DB *gorm.DB
}

func NewOrderLifecycle(db *gorm.DB) *OrderLifecycle {
	return &OrderLifecycle{DB: db}
}

// Advance moves an order one step forward along the lifecycle. Any target
// that is not the immediate successor of the current status is rejected.
// Alias spellings (ready, picked_up) are accepted for the target.
func (s *OrderLifecycle) Advance(order *models.Order, target string) error {
	target = models.CanonicalStatus(target)
	if !models.IsValidStatus(target) {
		return ErrInvalidTransition
	}
	if target == models.StatusCancelled {
		return s.Cancel(order)
	}

	current := models.CanonicalStatus(order.Status)
	if models.IsTerminalStatus(current) {
		return ErrInvalidTransition
	}
	if forwardEdges[current] != target {
		return ErrInvalidTransition
	}

	updates := map[string]interface{}{
		"status":     target,
		"updated_at": time.Now(),
	}
	if target == models.StatusDelivered {
		now := time.Now()
		updates["actual_delivery_time"] = &now
		order.ActualDeliveryTime = &now
		if order.DriverEarnings == "" {
			earnings := ComputeDriverEarnings(utils.ParseDecimal(order.DeliveryFee))
			updates["driver_earnings"] = earnings.String()
			order.DriverEarnings = earnings.String()
		}
	}

	if err := s.DB.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return err
	}
	order.Status = target
	return nil
}

// Cancel terminates an order that has not been handed to a driver yet. The
// driver reference is cleared so an assigned driver never points at a
// cancelled order.
func (s *OrderLifecycle) Cancel(order *models.Order) error {
	if !cancellableStatuses[models.CanonicalStatus(order.Status)] {
		return ErrInvalidTransition
	}

	updates := map[string]interface{}{
		"status":     models.StatusCancelled,
		"driver_id":  nil,
		"updated_at": time.Now(),
	}
	if err := s.DB.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return err
	}
	order.Status = models.StatusCancelled
	order.DriverID = nil
	return nil
}

// AssignDriver atomically claims an order for a driver. The claim is a
// single conditional UPDATE so two concurrent accepts can never both
// succeed; the loser is told the order is already taken.
func (s *OrderLifecycle) AssignDriver(orderID, driverID string) (*models.Order, error) {
	var driver models.Driver
	if err := s.DB.First(&driver, "id = ?", driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !driver.IsAvailable {
		return nil, ErrDriverUnavailable
	}

	// One active delivery at a time, enforced server-side.
	active, err := s.ActiveOrderCount(driverID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, ErrDriverBusy
	}

	var order models.Order
	if err := s.DB.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	earnings := ComputeDriverEarnings(utils.ParseDecimal(order.DeliveryFee))

	res := s.DB.Model(&models.Order{}).
		Where("id = ? AND driver_id IS NULL AND status = ?", orderID, models.StatusConfirmed).
		Updates(map[string]interface{}{
			"driver_id":       driverID,
			"status":          models.StatusPreparing,
			"driver_earnings": earnings.String(),
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race or the order was never claimable; re-read to tell.
		if err := s.DB.First(&order, "id = ?", orderID).Error; err != nil {
			return nil, ErrNotFound
		}
		if order.DriverID != nil {
			return nil, ErrAlreadyAssigned
		}
		return nil, ErrInvalidState
	}

	if err := s.DB.First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Order %s claimed by driver %s (earnings=%s)", order.OrderNumber, driverID, earnings)
	return &order, nil
}

// MarkDelivered completes a delivery in progress.
func (s *OrderLifecycle) MarkDelivered(order *models.Order) error {
	return s.Advance(order, models.StatusDelivered)
}

// ActiveOrderCount counts claimed, undelivered orders held by a driver.
func (s *OrderLifecycle) ActiveOrderCount(driverID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Order{}).
		Where("driver_id = ? AND status IN ?", driverID, []string{models.StatusPreparing, models.StatusOnWay}).
		Count(&count).Error
	return count, err
}

// AvailableOrders lists confirmed, unassigned orders newest-first. Callers
// gate visibility on the requesting driver's availability.
func (s *OrderLifecycle) AvailableOrders(limit int) ([]models.Order, error) {
	var orders []models.Order
	q := s.DB.Where("status = ? AND driver_id IS NULL", models.StatusConfirmed).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&orders).Error
	return orders, err
}

// ActiveOrders lists a driver's claimed, undelivered orders.
func (s *OrderLifecycle) ActiveOrders(driverID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Where("driver_id = ? AND status IN ?", driverID, []string{models.StatusPreparing, models.StatusOnWay}).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}
