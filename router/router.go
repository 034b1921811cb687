package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aymen12m12-coder/sareeone1/controllers"
	"github.com/aymen12m12-coder/sareeone1/middlewares"
	"github.com/aymen12m12-coder/sareeone1/models"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	rateLimiter := middlewares.NewRateLimiter(100, 60)
	r.Use(rateLimiter.RateLimit())

	userCtrl := controllers.NewUserController(db)
	orderCtrl := controllers.NewOrderController(db)
	driverCtrl := controllers.NewDriverController(db)
	customerCtrl := controllers.NewCustomerController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	adminCtrl := controllers.NewAdminController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
		// Legacy per-type logins, kept for older app builds.
		auth.POST("/admin/login", userCtrl.LoginAs(models.UserTypeAdmin))
		auth.POST("/driver/login", userCtrl.LoginAs(models.UserTypeDriver))
		auth.POST("/customer/login", userCtrl.LoginAs(models.UserTypeCustomer))
	}
	api.POST("/auth/logout", userCtrl.Logout)

	api.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
	api.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurantByID)

	// Guest checkout is allowed, so order placement and tracking are public.
	api.POST("/orders", orderCtrl.CreateOrder)
	api.GET("/orders/:order_id", orderCtrl.GetOrderByID)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	authed := api.Group("/")
	authed.Use(middlewares.AuthMiddleware())

	authed.GET("/auth/me", userCtrl.Me)

	// ORDERS (admin manages, drivers claim)
	adminOnly := authed.Group("/")
	adminOnly.Use(middlewares.RequireUserType(models.UserTypeAdmin))
	{
		adminOnly.GET("/orders", orderCtrl.GetAllOrders)
		adminOnly.PUT("/orders/:order_id", orderCtrl.UpdateOrder)

		adminOnly.POST("/restaurants", restaurantCtrl.CreateRestaurant)
		adminOnly.PUT("/restaurants/:restaurant_id", restaurantCtrl.UpdateRestaurant)

		adminOnly.GET("/drivers", driverCtrl.GetAllDrivers)
		adminOnly.POST("/drivers", driverCtrl.CreateDriver)
		adminOnly.GET("/drivers/:driver_id", driverCtrl.GetDriverByID)

		adminOnly.GET("/admin/stats", adminCtrl.GetDashboardStats)
		adminOnly.GET("/admin/reviews", adminCtrl.GetPendingReviews)
		adminOnly.PUT("/admin/reviews/:review_id/approve", adminCtrl.ApproveReview)
	}

	// The atomic claim; drivers call it for themselves, admins on behalf
	// of any driver.
	authed.PUT("/orders/:order_id/assign-driver",
		middlewares.RequireUserType(models.UserTypeAdmin, models.UserTypeDriver),
		orderCtrl.AssignDriver)

	// Availability/profile update: admin or the driver themself.
	authed.PUT("/drivers/:driver_id",
		middlewares.RequireUserType(models.UserTypeAdmin, models.UserTypeDriver),
		driverCtrl.UpdateDriver)

	// DRIVER APP
	driver := authed.Group("/driver")
	driver.Use(middlewares.RequireUserType(models.UserTypeDriver))
	{
		driver.GET("/dashboard", driverCtrl.Dashboard)
		driver.GET("/orders", driverCtrl.GetDriverOrders)
		driver.GET("/orders/:order_id", driverCtrl.GetDriverOrder)
		driver.PUT("/orders/:order_id/status", driverCtrl.UpdateOrderStatus)
		driver.GET("/stats", driverCtrl.Stats)
		driver.PUT("/profile", driverCtrl.UpdateProfile)
	}

	// CUSTOMER
	customer := authed.Group("/customer")
	customer.Use(middlewares.RequireUserType(models.UserTypeCustomer))
	{
		customer.GET("/profile", customerCtrl.GetProfile)
		customer.PUT("/profile", customerCtrl.UpdateProfile)
		customer.GET("/addresses", customerCtrl.GetAddresses)
		customer.POST("/addresses", customerCtrl.CreateAddress)
		customer.PUT("/addresses/:address_id", customerCtrl.UpdateAddress)
		customer.DELETE("/addresses/:address_id", customerCtrl.DeleteAddress)
		customer.GET("/orders", customerCtrl.GetOrders)
		customer.POST("/orders/:order_id/review", customerCtrl.CreateReview)
	}

	// WebSocket endpoint for live order/driver events.
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.EventsHandler)
	}

	return r
}
