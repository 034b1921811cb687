package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aymen12m12-coder/sareeone1/events"
	"github.com/aymen12m12-coder/sareeone1/models"
	"github.com/aymen12m12-coder/sareeone1/services"
	"github.com/aymen12m12-coder/sareeone1/utils"
)

type DriverController struct {
	DB        *gorm.DB
	Lifecycle *services.OrderLifecycle
}

func NewDriverController(db *gorm.DB) *DriverController {
	return &DriverController{DB: db, Lifecycle: services.NewOrderLifecycle(db)}
}

func (dc *DriverController) recordChange(table, id, action string) {
	if dc.DB.Dialector.Name() == "mysql" {
		return
	}
	services.RecordChange(dc.DB, table, id, action)
}

// currentDriverID resolves the authenticated driver from the token claims.
func currentDriverID(c *gin.Context) (string, bool) {
	id, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	driverID, ok := id.(string)
	return driverID, ok && driverID != ""
}

func (dc *DriverController) GetAllDrivers(c *gin.Context) {
	var drivers []models.Driver
	q := dc.DB.Order("created_at desc")
	if avail := c.Query("isAvailable"); avail == "true" {
		q = q.Where("is_available = ?", true)
	}
	if err := q.Find(&drivers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of drivers", drivers)
}

func (dc *DriverController) CreateDriver(c *gin.Context) {
	type reqBody struct {
		Name        string `json:"name" binding:"required"`
		Phone       string `json:"phone" binding:"required"`
		Email       string `json:"email"`
		VehicleType string `json:"vehicleType"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	driver := models.Driver{
		Name:        body.Name,
		Phone:       body.Phone,
		Email:       body.Email,
		VehicleType: body.VehicleType,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := dc.DB.Create(&driver).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Driver created", driver)
}

func (dc *DriverController) GetDriverByID(c *gin.Context) {
	var driver models.Driver
	if err := dc.DB.First(&driver, "id = ?", c.Param("driver_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Driver detail", driver)
}

// UpdateDriver handles PUT /api/drivers/:id for availability and profile
// changes. Drivers may only update themselves; admins may update anyone.
func (dc *DriverController) UpdateDriver(c *gin.Context) {
	driverID := c.Param("driver_id")

	userType, _ := c.Get("user_type")
	if userType != models.UserTypeAdmin {
		selfID, ok := currentDriverID(c)
		if !ok || selfID != driverID {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return
		}
	}

	var driver models.Driver
	if err := dc.DB.First(&driver, "id = ?", driverID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	updates, err := bindDriverUpdates(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := dc.DB.Model(&driver).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := dc.DB.First(&driver, "id = ?", driverID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	dc.recordChange("drivers", driver.ID, "UPDATE")
	events.BroadcastDriverUpdate(driver)
	utils.RespondJSON(c, http.StatusOK, "Driver updated", driver)
}

// bindDriverUpdates whitelists the mutable driver fields.
func bindDriverUpdates(c *gin.Context) (map[string]interface{}, error) {
	type reqBody struct {
		Name            *string `json:"name"`
		Phone           *string `json:"phone"`
		Email           *string `json:"email"`
		VehicleType     *string `json:"vehicleType"`
		CurrentLocation *string `json:"currentLocation"`
		IsAvailable     *bool   `json:"isAvailable"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if body.Name != nil {
		updates["name"] = *body.Name
	}
	if body.Phone != nil {
		updates["phone"] = *body.Phone
	}
	if body.Email != nil {
		updates["email"] = *body.Email
	}
	if body.VehicleType != nil {
		updates["vehicle_type"] = *body.VehicleType
	}
	if body.CurrentLocation != nil {
		updates["current_location"] = *body.CurrentLocation
	}
	if body.IsAvailable != nil {
		updates["is_available"] = *body.IsAvailable
	}
	return updates, nil
}

// UpdateProfile is the driver-app variant of UpdateDriver, scoped to the
// authenticated driver.
func (dc *DriverController) UpdateProfile(c *gin.Context) {
	driverID, ok := currentDriverID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("driver id not found in token"))
		return
	}

	var driver models.Driver
	if err := dc.DB.First(&driver, "id = ?", driverID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	updates, err := bindDriverUpdates(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := dc.DB.Model(&driver).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := dc.DB.First(&driver, "id = ?", driverID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	dc.recordChange("drivers", driver.ID, "UPDATE")
	utils.RespondJSON(c, http.StatusOK, "Profile updated", driver)
}

// Dashboard returns the driver's daily stats, the available-order pool and
// the deliveries in progress. Availability is read from the store, never
// from whatever the app cached; an unavailable driver sees no pool.
func (dc *DriverController) Dashboard(c *gin.Context) {
	driverID, ok := currentDriverID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("driver id not found in token"))
		return
	}

	var driver models.Driver
	if err := dc.DB.First(&driver, "id = ?", driverID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var driverOrders []models.Order
	if err := dc.DB.Where("driver_id = ?", driverID).Find(&driverOrders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var todayOrders, completedToday int
	todayEarnings := decimal.Zero
	totalEarnings := decimal.Zero
	for _, order := range driverOrders {
		delivered := models.CanonicalStatus(order.Status) == models.StatusDelivered
		if delivered {
			totalEarnings = totalEarnings.Add(utils.ParseDecimal(order.DriverEarnings))
		}
		if order.CreatedAt.After(today) {
			todayOrders++
			if delivered {
				completedToday++
				todayEarnings = todayEarnings.Add(utils.ParseDecimal(order.DriverEarnings))
			}
		}
	}

	currentOrders, err := dc.Lifecycle.ActiveOrders(driverID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// The pool is hidden from unavailable drivers and from drivers who are
	// already out on a delivery.
	availableOrders := []models.Order{}
	if driver.IsAvailable && len(currentOrders) == 0 {
		availableOrders, err = dc.Lifecycle.AvailableOrders(10)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Driver dashboard", gin.H{
		"stats": gin.H{
			"todayOrders":    todayOrders,
			"todayEarnings":  todayEarnings,
			"completedToday": completedToday,
			"totalOrders":    len(driverOrders),
			"totalEarnings":  totalEarnings,
		},
		"availableOrders": availableOrders,
		"currentOrders":   currentOrders,
	})
}

// GetDriverOrders lists the driver's own orders, optionally filtered by
// status, newest-first.
func (dc *DriverController) GetDriverOrders(c *gin.Context) {
	driverID, ok := currentDriverID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("driver id not found in token"))
		return
	}

	q := dc.DB.Where("driver_id = ?", driverID).Order("created_at desc")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", models.CanonicalStatus(status))
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Driver orders", orders)
}

func (dc *DriverController) GetDriverOrder(c *gin.Context) {
	driverID, ok := currentDriverID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("driver id not found in token"))
		return
	}

	var order models.Order
	if err := dc.DB.First(&order, "id = ?", c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if order.DriverID == nil || *order.DriverID != driverID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus lets a driver move their own delivery forward. Only
// the driver-side statuses are accepted; aliases are normalized.
func (dc *DriverController) UpdateOrderStatus(c *gin.Context) {
	driverID, ok := currentDriverID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("driver id not found in token"))
		return
	}

	var body struct {
		Status   string  `json:"status" binding:"required"`
		Location *string `json:"location"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	status := models.CanonicalStatus(body.Status)
	if status != models.StatusPreparing && status != models.StatusOnWay && status != models.StatusDelivered {
		utils.RespondError(c, http.StatusBadRequest, errors.New("status not allowed for drivers"))
		return
	}

	var order models.Order
	if err := dc.DB.First(&order, "id = ?", c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if order.DriverID == nil || *order.DriverID != driverID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	if err := dc.Lifecycle.Advance(&order, status); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Location != nil {
		dc.DB.Model(&models.Driver{}).Where("id = ?", driverID).
			Updates(map[string]interface{}{"current_location": *body.Location, "updated_at": time.Now()})
	}

	if err := dc.DB.First(&order, "id = ?", order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	dc.recordChange("orders", order.ID, "UPDATE")
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// Stats aggregates lifetime and monthly delivery figures.
func (dc *DriverController) Stats(c *gin.Context) {
	driverID, ok := currentDriverID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("driver id not found in token"))
		return
	}

	var driver models.Driver
	if err := dc.DB.First(&driver, "id = ?", driverID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var driverOrders []models.Order
	if err := dc.DB.Where("driver_id = ?", driverID).Find(&driverOrders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var completed, monthlyOrders int
	totalEarnings := decimal.Zero
	monthlyEarnings := decimal.Zero
	for _, order := range driverOrders {
		if models.CanonicalStatus(order.Status) != models.StatusDelivered {
			continue
		}
		completed++
		earnings := utils.ParseDecimal(order.DriverEarnings)
		totalEarnings = totalEarnings.Add(earnings)
		if order.CreatedAt.After(monthStart) || order.CreatedAt.Equal(monthStart) {
			monthlyOrders++
			monthlyEarnings = monthlyEarnings.Add(earnings)
		}
	}

	successRate := 0
	if len(driverOrders) > 0 {
		successRate = int(float64(completed)/float64(len(driverOrders))*100 + 0.5)
	}

	utils.RespondJSON(c, http.StatusOK, "Driver stats", gin.H{
		"totalOrders":     len(driverOrders),
		"completedOrders": completed,
		"totalEarnings":   totalEarnings,
		"monthlyOrders":   monthlyOrders,
		"monthlyEarnings": monthlyEarnings,
		"successRate":     successRate,
	})
}
