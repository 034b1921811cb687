package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aymen12m12-coder/sareeone1/models"
	"github.com/aymen12m12-coder/sareeone1/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats summarizes the marketplace for the admin dashboard:
// order counts per status, delivered revenue, and driver availability.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	statusCounts := map[string]int64{}
	for _, status := range []string{
		models.StatusPending, models.StatusConfirmed, models.StatusPreparing,
		models.StatusOnWay, models.StatusDelivered, models.StatusCancelled,
	} {
		var count int64
		if err := ac.DB.Model(&models.Order{}).Where("status = ?", status).Count(&count).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		statusCounts[status] = count
	}

	var deliveredOrders []models.Order
	if err := ac.DB.Where("status = ?", models.StatusDelivered).Find(&deliveredOrders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	revenue := decimal.Zero
	driverPayouts := decimal.Zero
	for _, order := range deliveredOrders {
		revenue = revenue.Add(utils.ParseDecimal(order.TotalAmount))
		driverPayouts = driverPayouts.Add(utils.ParseDecimal(order.DriverEarnings))
	}

	var totalDrivers, availableDrivers int64
	if err := ac.DB.Model(&models.Driver{}).Count(&totalDrivers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := ac.DB.Model(&models.Driver{}).Where("is_available = ?", true).Count(&availableDrivers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var todayOrders int64
	if err := ac.DB.Model(&models.Order{}).Where("created_at >= ?", today).Count(&todayOrders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"ordersByStatus":   statusCounts,
		"todayOrders":      todayOrders,
		"deliveredRevenue": revenue,
		"driverPayouts":    driverPayouts,
		"totalDrivers":     totalDrivers,
		"availableDrivers": availableDrivers,
	})
}

// GetPendingReviews lists unapproved ratings for moderation.
func (ac *AdminController) GetPendingReviews(c *gin.Context) {
	var reviews []models.Rating
	if err := ac.DB.Where("is_approved = ?", false).Order("created_at desc").Find(&reviews).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending reviews", reviews)
}

// ApproveReview publishes a customer review.
func (ac *AdminController) ApproveReview(c *gin.Context) {
	res := ac.DB.Model(&models.Rating{}).
		Where("id = ?", c.Param("review_id")).
		Update("is_approved", true)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("review not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Review approved", gin.H{"review_id": c.Param("review_id")})
}
