package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/aymen12m12-coder/sareeone1/models"
	"github.com/aymen12m12-coder/sareeone1/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register creates a user account. Driver accounts also get a driver
// record under the same id so order claims and token identity line up.
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Name        string `json:"name" binding:"required"`
		Phone       string `json:"phone" binding:"required"`
		Email       string `json:"email"`
		Password    string `json:"password" binding:"required"`
		UserType    string `json:"userType"`
		VehicleType string `json:"vehicleType"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userType := req.UserType
	if userType == "" {
		userType = models.UserTypeCustomer
	}
	switch userType {
	case models.UserTypeCustomer, models.UserTypeDriver, models.UserTypeAdmin:
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown user type"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  string(hashed),
		UserType:  userType,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if userType == models.UserTypeDriver {
			driver := models.Driver{
				ID:          user.ID,
				Name:        user.Name,
				Phone:       user.Phone,
				Email:       user.Email,
				Password:    user.Password,
				VehicleType: req.VehicleType,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
			return tx.Create(&driver).Error
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (type=%s)", user.Phone, user.UserType)

	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// Login is the unified entry for customers, drivers and admins. The
// identifier is a phone number, or an email for admins.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Identifier string `json:"identifier" binding:"required"`
		Password   string `json:"password" binding:"required"`
		UserType   string `json:"userType"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	q := uc.DB.Where("phone = ? OR email = ?", input.Identifier, input.Identifier)
	if input.UserType != "" {
		q = q.Where("user_type = ?", input.UserType)
	}

	var user models.User
	if err := q.First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.UserType)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "Login successful",
		"data": gin.H{
			"token":     token,
			"user_type": strings.ToLower(user.UserType),
			"user": gin.H{
				"id":    user.ID,
				"name":  user.Name,
				"phone": user.Phone,
			},
		},
	})
}

// LoginAs returns a handler for the legacy per-type login routes.
func (uc *UserController) LoginAs(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Phone    string `json:"phone"`
			Email    string `json:"email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}

		identifier := input.Phone
		if identifier == "" {
			identifier = input.Email
		}

		var user models.User
		if err := uc.DB.Where("(phone = ? OR email = ?) AND user_type = ?", identifier, identifier, userType).
			First(&user).Error; err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
			return
		}

		token, err := utils.GenerateToken(user.ID, user.UserType)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}

		utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
			"token":     token,
			"user_type": user.UserType,
		})
	}
}

// Logout blacklists the presented token until it expires on its own.
func (uc *UserController) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		utils.BlacklistToken(strings.TrimPrefix(authHeader, "Bearer "))
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// Me returns the authenticated user.
func (uc *UserController) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in token"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Current user", gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"phone":     user.Phone,
		"email":     user.Email,
		"user_type": user.UserType,
	})
}

// ErrNoPermission is returned when a caller acts outside their role.
var ErrNoPermission = &CustomError{"You do not have permission"}

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}
