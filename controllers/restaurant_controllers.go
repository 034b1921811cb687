package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aymen12m12-coder/sareeone1/models"
	"github.com/aymen12m12-coder/sareeone1/utils"
)

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := rc.DB.Order("name asc").Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

func (rc *RestaurantController) GetRestaurantByID(c *gin.Context) {
	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, "id = ?", c.Param("restaurant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	type reqBody struct {
		Name         string `json:"name" binding:"required"`
		DeliveryFee  string `json:"deliveryFee"`
		MinimumOrder string `json:"minimumOrder"`
		DeliveryTime string `json:"deliveryTime"`
		Phone        string `json:"phone"`
		Address      string `json:"address"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant := models.Restaurant{
		Name:         body.Name,
		DeliveryFee:  body.DeliveryFee,
		MinimumOrder: body.MinimumOrder,
		DeliveryTime: body.DeliveryTime,
		Phone:        body.Phone,
		Address:      body.Address,
		IsOpen:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, "id = ?", c.Param("restaurant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body struct {
		Name         *string `json:"name"`
		DeliveryFee  *string `json:"deliveryFee"`
		MinimumOrder *string `json:"minimumOrder"`
		DeliveryTime *string `json:"deliveryTime"`
		Phone        *string `json:"phone"`
		Address      *string `json:"address"`
		IsOpen       *bool   `json:"isOpen"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if body.Name != nil {
		updates["name"] = *body.Name
	}
	if body.DeliveryFee != nil {
		updates["delivery_fee"] = *body.DeliveryFee
	}
	if body.MinimumOrder != nil {
		updates["minimum_order"] = *body.MinimumOrder
	}
	if body.DeliveryTime != nil {
		updates["delivery_time"] = *body.DeliveryTime
	}
	if body.Phone != nil {
		updates["phone"] = *body.Phone
	}
	if body.Address != nil {
		updates["address"] = *body.Address
	}
	if body.IsOpen != nil {
		updates["is_open"] = *body.IsOpen
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := rc.DB.Model(&restaurant).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := rc.DB.First(&restaurant, "id = ?", restaurant.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}
