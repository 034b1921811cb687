package services

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aymen12m12-coder/sareeone1/models"
	"github.com/aymen12m12-coder/sareeone1/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupLifecycleDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.Driver{}, &models.OrderChange{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, status string) *models.Order {
	order := models.Order{
		CustomerName:    "Test Customer",
		CustomerPhone:   "0500000000",
		RestaurantID:    "rest-1",
		DeliveryAddress: "123 Test St",
		DeliveryFee:     "5",
		Subtotal:        "40",
		Total:           "45",
		TotalAmount:     "45",
		Status:          status,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return &order
}

func seedDriver(t *testing.T, db *gorm.DB, phone string, available bool) *models.Driver {
	driver := models.Driver{
		Name:        "Test Driver",
		Phone:       phone,
		IsAvailable: available,
	}
	if err := db.Create(&driver).Error; err != nil {
		t.Fatalf("failed to seed driver: %v", err)
	}
	return &driver
}

func TestAdvanceHappyPath(t *testing.T) {
	db := setupLifecycleDB(t, "advance_happy")
	lc := NewOrderLifecycle(db)
	order := seedOrder(t, db, models.StatusPending)

	for _, next := range []string{
		models.StatusConfirmed,
		models.StatusPreparing,
		models.StatusOnWay,
		models.StatusDelivered,
	} {
		assert.NoError(t, lc.Advance(order, next))
		assert.Equal(t, next, order.Status)
	}

	var stored models.Order
	assert.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, models.StatusDelivered, stored.Status)
	assert.NotNil(t, stored.ActualDeliveryTime)
	// Earnings are finalized at delivery when nothing set them earlier.
	assert.Equal(t, "4", stored.DriverEarnings)
}

func TestAdvanceRejectsSkipsAndBackwards(t *testing.T) {
	db := setupLifecycleDB(t, "advance_reject")
	lc := NewOrderLifecycle(db)

	tests := []struct {
		from, to string
	}{
		{models.StatusPending, models.StatusDelivered},
		{models.StatusPending, models.StatusOnWay},
		{models.StatusConfirmed, models.StatusPending},
		{models.StatusDelivered, models.StatusOnWay},
		{models.StatusCancelled, models.StatusConfirmed},
		{models.StatusPreparing, "teleported"},
	}
	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			order := seedOrder(t, db, tt.from)
			err := lc.Advance(order, tt.to)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, order.Status)
		})
	}
}

func TestAdvanceAcceptsAliasSpellings(t *testing.T) {
	db := setupLifecycleDB(t, "advance_alias")
	lc := NewOrderLifecycle(db)

	order := seedOrder(t, db, models.StatusConfirmed)
	assert.NoError(t, lc.Advance(order, "ready"))
	assert.Equal(t, models.StatusPreparing, order.Status)

	assert.NoError(t, lc.Advance(order, "picked_up"))
	assert.Equal(t, models.StatusOnWay, order.Status)
}

func TestCancel(t *testing.T) {
	db := setupLifecycleDB(t, "cancel")
	lc := NewOrderLifecycle(db)

	for _, status := range []string{models.StatusPending, models.StatusConfirmed, models.StatusPreparing} {
		order := seedOrder(t, db, status)
		assert.NoError(t, lc.Cancel(order), "expected %s to be cancellable", status)
		assert.Equal(t, models.StatusCancelled, order.Status)
	}

	for _, status := range []string{models.StatusOnWay, models.StatusDelivered, models.StatusCancelled} {
		order := seedOrder(t, db, status)
		assert.ErrorIs(t, lc.Cancel(order), ErrInvalidTransition, "expected %s not to be cancellable", status)
	}
}

func TestCancelReleasesDriver(t *testing.T) {
	db := setupLifecycleDB(t, "cancel_release")
	lc := NewOrderLifecycle(db)
	driver := seedDriver(t, db, "0501111111", true)

	order := seedOrder(t, db, models.StatusConfirmed)
	claimed, err := lc.AssignDriver(order.ID, driver.ID)
	assert.NoError(t, err)

	assert.NoError(t, lc.Cancel(claimed))

	var stored models.Order
	assert.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, models.StatusCancelled, stored.Status)
	assert.Nil(t, stored.DriverID)
}

func TestAssignDriver(t *testing.T) {
	db := setupLifecycleDB(t, "assign")
	lc := NewOrderLifecycle(db)
	driver := seedDriver(t, db, "0502222222", true)
	order := seedOrder(t, db, models.StatusConfirmed)

	claimed, err := lc.AssignDriver(order.ID, driver.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, claimed.Status)
	if assert.NotNil(t, claimed.DriverID) {
		assert.Equal(t, driver.ID, *claimed.DriverID)
	}
	assert.Equal(t, "4", claimed.DriverEarnings)
}

func TestAssignDriverSecondClaimLoses(t *testing.T) {
	db := setupLifecycleDB(t, "assign_second")
	lc := NewOrderLifecycle(db)
	first := seedDriver(t, db, "0503333333", true)
	second := seedDriver(t, db, "0504444444", true)
	order := seedOrder(t, db, models.StatusConfirmed)

	_, err := lc.AssignDriver(order.ID, first.ID)
	assert.NoError(t, err)

	_, err = lc.AssignDriver(order.ID, second.ID)
	assert.ErrorIs(t, err, ErrAlreadyAssigned)
}

func TestAssignDriverPreconditions(t *testing.T) {
	db := setupLifecycleDB(t, "assign_pre")
	lc := NewOrderLifecycle(db)

	t.Run("unknown driver", func(t *testing.T) {
		order := seedOrder(t, db, models.StatusConfirmed)
		_, err := lc.AssignDriver(order.ID, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown order", func(t *testing.T) {
		driver := seedDriver(t, db, "0505555555", true)
		_, err := lc.AssignDriver("no-such-order", driver.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unavailable driver", func(t *testing.T) {
		driver := seedDriver(t, db, "0506666666", false)
		order := seedOrder(t, db, models.StatusConfirmed)
		_, err := lc.AssignDriver(order.ID, driver.ID)
		assert.ErrorIs(t, err, ErrDriverUnavailable)
	})

	t.Run("unconfirmed order", func(t *testing.T) {
		driver := seedDriver(t, db, "0507777777", true)
		order := seedOrder(t, db, models.StatusPending)
		_, err := lc.AssignDriver(order.ID, driver.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("driver already on a delivery", func(t *testing.T) {
		driver := seedDriver(t, db, "0508888888", true)
		busyOrder := seedOrder(t, db, models.StatusConfirmed)
		_, err := lc.AssignDriver(busyOrder.ID, driver.ID)
		assert.NoError(t, err)

		another := seedOrder(t, db, models.StatusConfirmed)
		_, err = lc.AssignDriver(another.ID, driver.ID)
		assert.ErrorIs(t, err, ErrDriverBusy)
	})
}

// Two drivers race for the same order; the conditional update guarantees
// exactly one claim lands.
func TestConcurrentClaimExactlyOneWins(t *testing.T) {
	db := setupLifecycleDB(t, "assign_race")
	lc := NewOrderLifecycle(db)
	first := seedDriver(t, db, "0509999999", true)
	second := seedDriver(t, db, "0500000001", true)
	order := seedOrder(t, db, models.StatusConfirmed)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, driverID := range []string{first.ID, second.ID} {
		go func(i int, driverID string) {
			defer wg.Done()
			_, errs[i] = lc.AssignDriver(order.ID, driverID)
		}(i, driverID)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case err == ErrAlreadyAssigned:
			losses++
		default:
			t.Fatalf("unexpected claim error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	var stored models.Order
	assert.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.NotNil(t, stored.DriverID)
	assert.Equal(t, models.StatusPreparing, stored.Status)
}

func TestAvailableOrdersExcludesClaimedAndUnconfirmed(t *testing.T) {
	db := setupLifecycleDB(t, "pool")
	lc := NewOrderLifecycle(db)
	driver := seedDriver(t, db, "0500000002", true)

	seedOrder(t, db, models.StatusPending)
	open := seedOrder(t, db, models.StatusConfirmed)
	claimed := seedOrder(t, db, models.StatusConfirmed)
	_, err := lc.AssignDriver(claimed.ID, driver.ID)
	assert.NoError(t, err)

	pool, err := lc.AvailableOrders(10)
	assert.NoError(t, err)
	if assert.Len(t, pool, 1) {
		assert.Equal(t, open.ID, pool[0].ID)
	}
}
