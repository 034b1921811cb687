package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aymen12m12-coder/sareeone1/events"
	"github.com/aymen12m12-coder/sareeone1/models"
	"github.com/aymen12m12-coder/sareeone1/services"
	"github.com/aymen12m12-coder/sareeone1/utils"
)

type OrderController struct {
	DB        *gorm.DB
	Lifecycle *services.OrderLifecycle
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, Lifecycle: services.NewOrderLifecycle(db)}
}

// recordChange feeds the live-update monitor directly on databases without
// the audit triggers (sqlite).
func (oc *OrderController) recordChange(table, id, action string) {
	if oc.DB.Dialector.Name() == "mysql" {
		return
	}
	services.RecordChange(oc.DB, table, id, action)
}

// CreateOrder places a new order with status=pending. Guest orders (no
// customerId) are allowed; contact fields and a non-empty cart are not
// optional. The minimum-order rule is re-checked here regardless of what
// the client already validated.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type reqBody struct {
		CustomerID          *string            `json:"customerId"`
		CustomerName        string             `json:"customerName"`
		CustomerPhone       string             `json:"customerPhone"`
		CustomerEmail       string             `json:"customerEmail"`
		RestaurantID        string             `json:"restaurantId"`
		Items               []models.OrderItem `json:"items"`
		PaymentMethod       string             `json:"paymentMethod"`
		DiscountAmount      string             `json:"discountAmount"`
		DeliveryAddress     string             `json:"deliveryAddress"`
		CustomerLocationLat *float64           `json:"customerLocationLat"`
		CustomerLocationLng *float64           `json:"customerLocationLng"`
		Notes               string             `json:"notes"`
		DeliveryDate        string             `json:"deliveryDate"`
		DeliveryTimeSlot    string             `json:"deliveryTimeSlot"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.CustomerName == "" {
		utils.RespondError(c, http.StatusBadRequest, &services.ValidationError{Field: "customerName", Message: "customer name is required"})
		return
	}
	if body.CustomerPhone == "" {
		utils.RespondError(c, http.StatusBadRequest, &services.ValidationError{Field: "customerPhone", Message: "customer phone is required"})
		return
	}
	if body.DeliveryAddress == "" {
		utils.RespondError(c, http.StatusBadRequest, &services.ValidationError{Field: "deliveryAddress", Message: "delivery address is required"})
		return
	}
	if len(body.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, &services.ValidationError{Field: "items", Message: "cart is empty"})
		return
	}

	var restaurant models.Restaurant
	if err := oc.DB.First(&restaurant, "id = ?", body.RestaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown restaurant"))
		return
	}

	subtotal := services.ComputeSubtotal(body.Items)
	if !services.MeetsMinimumOrder(subtotal, &restaurant) {
		utils.RespondError(c, http.StatusBadRequest, &services.ValidationError{
			Field:   "subtotal",
			Message: "order is below the restaurant minimum of " + restaurant.MinimumOrder,
		})
		return
	}

	fee := services.ResolveDeliveryFee(&restaurant, len(body.Items))
	total := services.ComputeTotal(subtotal.String(), fee.String(), body.DiscountAmount)

	paymentMethod := body.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentCash
	}
	discount := utils.ParseDecimal(body.DiscountAmount)

	order := models.Order{
		CustomerID:          body.CustomerID,
		CustomerName:        body.CustomerName,
		CustomerPhone:       body.CustomerPhone,
		CustomerEmail:       body.CustomerEmail,
		RestaurantID:        restaurant.ID,
		Subtotal:            subtotal.String(),
		DeliveryFee:         fee.String(),
		DiscountAmount:      discount.String(),
		Total:               total.String(),
		TotalAmount:         total.String(),
		Status:              models.StatusPending,
		PaymentMethod:       paymentMethod,
		PaymentStatus:       models.PaymentStatusUnpaid,
		DeliveryAddress:     body.DeliveryAddress,
		CustomerLocationLat: body.CustomerLocationLat,
		CustomerLocationLng: body.CustomerLocationLng,
		Notes:               body.Notes,
		DeliveryDate:        body.DeliveryDate,
		DeliveryTimeSlot:    body.DeliveryTimeSlot,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
	if err := order.SetItems(body.Items); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	oc.recordChange("orders", order.ID, "INSERT")
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders lists orders newest-first with optional filters:
// ?status= (aliases accepted), ?driverId=, ?customerId=, ?hasDriver=.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	q := oc.DB.Model(&models.Order{}).Order("created_at desc")

	if status := c.Query("status"); status != "" {
		canonical := models.CanonicalStatus(status)
		if !models.IsValidStatus(canonical) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown status filter"))
			return
		}
		q = q.Where("status = ?", canonical)
	}
	if driverID := c.Query("driverId"); driverID != "" {
		q = q.Where("driver_id = ?", driverID)
	}
	if customerID := c.Query("customerId"); customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}
	switch c.Query("hasDriver") {
	case "true":
		q = q.Where("driver_id IS NOT NULL")
	case "false":
		q = q.Where("driver_id IS NULL")
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	var order models.Order
	if err := oc.DB.First(&order, "id = ?", c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrder mutates an order. Status changes go through the lifecycle
// service; everything else is a plain field update.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	var order models.Order
	if err := oc.DB.First(&order, "id = ?", c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type updateReq struct {
		Status           *string `json:"status"`
		Notes            *string `json:"notes"`
		DeliveryAddress  *string `json:"deliveryAddress"`
		PaymentStatus    *string `json:"paymentStatus"`
		DeliveryDate     *string `json:"deliveryDate"`
		DeliveryTimeSlot *string `json:"deliveryTimeSlot"`
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Status != nil {
		if err := oc.Lifecycle.Advance(&order, *req.Status); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	updates := map[string]interface{}{}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.DeliveryAddress != nil {
		updates["delivery_address"] = *req.DeliveryAddress
	}
	if req.PaymentStatus != nil {
		updates["payment_status"] = *req.PaymentStatus
	}
	if req.DeliveryDate != nil {
		updates["delivery_date"] = *req.DeliveryDate
	}
	if req.DeliveryTimeSlot != nil {
		updates["delivery_time_slot"] = *req.DeliveryTimeSlot
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := oc.DB.Model(&order).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := oc.DB.First(&order, "id = ?", order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	oc.recordChange("orders", order.ID, "UPDATE")
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// AssignDriver is the atomic claim endpoint. Exactly one of two racing
// drivers wins; the loser gets a 400 with the already-assigned message.
func (oc *OrderController) AssignDriver(c *gin.Context) {
	var body struct {
		DriverID string `json:"driverId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Lifecycle.AssignDriver(c.Param("order_id"), body.DriverID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	oc.recordChange("orders", order.ID, "UPDATE")
	events.BroadcastOrderClaimed(*order)
	utils.RespondJSON(c, http.StatusOK, "Driver assigned", order)
}
