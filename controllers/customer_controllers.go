package controllers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aymen12m12-coder/sareeone1/models"
	"github.com/aymen12m12-coder/sareeone1/utils"
)

type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

func currentUserID(c *gin.Context) (string, bool) {
	id, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	userID, ok := id.(string)
	return userID, ok && userID != ""
}

func (cc *CustomerController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in token"))
		return
	}

	var user models.User
	if err := cc.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer profile", user)
}

func (cc *CustomerController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in token"))
		return
	}

	var body struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
		Email *string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
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

	var user models.User
	if err := cc.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := cc.DB.Model(&user).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := cc.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile updated", user)
}

// GetAddresses lists the customer's addresses, default first, then newest.
func (cc *CustomerController) GetAddresses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in token"))
		return
	}

	var addresses []models.UserAddress
	if err := cc.DB.Where("user_id = ?", userID).Find(&addresses).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	sort.SliceStable(addresses, func(i, j int) bool {
		if addresses[i].IsDefault != addresses[j].IsDefault {
			return addresses[i].IsDefault
		}
		return addresses[i].CreatedAt.After(addresses[j].CreatedAt)
	})

	utils.RespondJSON(c, http.StatusOK, "Customer addresses", addresses)
}

func (cc *CustomerController) CreateAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in token"))
		return
	}

	var body struct {
		Label     string   `json:"label"`
		Address   string   `json:"address" binding:"required"`
		City      string   `json:"city"`
		Lat       *float64 `json:"lat"`
		Lng       *float64 `json:"lng"`
		IsDefault bool     `json:"isDefault"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	address := models.UserAddress{
		UserID:    userID,
		Label:     body.Label,
		Address:   body.Address,
		City:      body.City,
		Lat:       body.Lat,
		Lng:       body.Lng,
		IsDefault: body.IsDefault,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if body.IsDefault {
			// Only one default address per customer.
			if err := tx.Model(&models.UserAddress{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Address created", address)
}

func (cc *CustomerController) UpdateAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in token"))
		return
	}

	var address models.UserAddress
	if err := cc.DB.Where("id = ? AND user_id = ?", c.Param("address_id"), userID).First(&address).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("address not found for this customer"))
		return
	}

	var body struct {
		Label     *string  `json:"label"`
		Address   *string  `json:"address"`
		City      *string  `json:"city"`
		Lat       *float64 `json:"lat"`
		Lng       *float64 `json:"lng"`
		IsDefault *bool    `json:"isDefault"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if body.Label != nil {
		updates["label"] = *body.Label
	}
	if body.Address != nil {
		updates["address"] = *body.Address
	}
	if body.City != nil {
		updates["city"] = *body.City
	}
	if body.Lat != nil {
		updates["lat"] = *body.Lat
	}
	if body.Lng != nil {
		updates["lng"] = *body.Lng
	}
	if body.IsDefault != nil {
		updates["is_default"] = *body.IsDefault
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if body.IsDefault != nil && *body.IsDefault {
			if err := tx.Model(&models.UserAddress{}).
				Where("user_id = ? AND id != ?", userID, address.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		updates["updated_at"] = time.Now()
		return tx.Model(&address).Updates(updates).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := cc.DB.First(&address, "id = ?", address.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Address updated", address)
}

func (cc *CustomerController) DeleteAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in token"))
		return
	}

	res := cc.DB.Where("id = ? AND user_id = ?", c.Param("address_id"), userID).Delete(&models.UserAddress{})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("address not found for this customer"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Address deleted", gin.H{"address_id": c.Param("address_id")})
}

// GetOrders lists the customer's own orders newest-first with page/limit
// pagination.
func (cc *CustomerController) GetOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in token"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var orders []models.Order
	if err := cc.DB.Where("customer_id = ?", userID).
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer orders", orders)
}

// CreateReview records a 1..5 rating for one of the customer's own orders.
// Reviews await admin approval.
func (cc *CustomerController) CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in token"))
		return
	}

	var order models.Order
	if err := cc.DB.First(&order, "id = ?", c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if order.CustomerID == nil || *order.CustomerID != userID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var body struct {
		Rating  int     `json:"rating"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Rating < 1 || body.Rating > 5 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("rating must be between 1 and 5"))
		return
	}

	var user models.User
	if err := cc.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	review := models.Rating{
		OrderID:       order.ID,
		RestaurantID:  order.RestaurantID,
		CustomerName:  user.Name,
		CustomerPhone: user.Phone,
		Rating:        body.Rating,
		Comment:       body.Comment,
		CreatedAt:     time.Now(),
	}
	if err := cc.DB.Create(&review).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Review created", review)
}
