package main

import (
	"github.com/SeakMengs/ProjectHub/internal/config"
	"github.com/SeakMengs/ProjectHub/internal/database"
	"github.com/SeakMengs/ProjectHub/internal/env"
	"github.com/SeakMengs/ProjectHub/internal/model"
	"go.uber.org/zap"
)

func init() {
	env.LoadEnv()
}

func main() {
	logger := zap.Must(zap.NewDevelopment()).Sugar()
	defer logger.Sync()
	cfg := config.GetConfig()

	logger.Infof("Database configuration: host=%s db=%s", cfg.DB.DB_HOST, cfg.DB.DB_DATABASE)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	// users.email is citext so uniqueness is case-insensitive
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS citext`).Error; err != nil {
		logger.Panic(err)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		logger.Panic(err)
	}

	logger.Info("Migration completed")
}
