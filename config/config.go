package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database connection from environment configuration.
// DB_DRIVER selects mysql (default) or sqlite; sqlite is the dev fallback
// when no DSN is configured.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")
	dsn := os.Getenv("DB_DSN")

	if dsn == "" && driver != "sqlite" {
		user := os.Getenv("DB_USER")
		pass := os.Getenv("DB_PASSWORD")
		host := os.Getenv("DB_HOST")
		name := os.Getenv("DB_NAME")
		if host != "" && name != "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", user, pass, host, name)
		}
	}

	switch {
	case driver == "sqlite" || dsn == "":
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "sareeone.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	default:
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	}
}
