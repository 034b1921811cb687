package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/aymen12m12-coder/sareeone1/config"
	"github.com/aymen12m12-coder/sareeone1/database"
	"github.com/aymen12m12-coder/sareeone1/models"
	"github.com/aymen12m12-coder/sareeone1/router"
	"github.com/aymen12m12-coder/sareeone1/services"
	"github.com/aymen12m12-coder/sareeone1/utils"
)

func main() {
	// Missing .env is fine in production, env vars come from the host.
	_ = godotenv.Load()

	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.UserAddress{},
		&models.Restaurant{},
		&models.Driver{},
		&models.Order{},
		&models.Rating{},
		&models.OrderChange{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := database.ExecuteTriggers(db); err != nil {
		utils.ErrorLogger.Printf("Failed to install audit triggers: %v", err)
	}

	monitor := services.NewOrderMonitor(db)
	monitor.Start()
	defer monitor.Stop()

	go utils.CleanupBlacklist()

	r := router.SetupRouter(db)

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.ErrorLogger.Fatalf("Failed to set trusted proxies: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	utils.InfoLogger.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatalf("Server failed: %v", err)
	}
}
