package database

import (
	"fmt"
	"log"

	"betleague/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	// Migrate core models first
	coreModels := []interface{}{
		&models.League{},
		&models.Profile{},
		&models.BettingSetting{},
		&models.News{},
	}

	for _, model := range coreModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Migrate betting models
	bettingModels := []interface{}{
		&models.Bet{},
		&models.BetSelection{},
		&models.MatchResult{},
		&models.WeeklyPerformance{},
	}

	for _, model := range bettingModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Migrate odds cache
	if err := DB.AutoMigrate(&models.OddsSnapshot{}); err != nil {
		log.Printf("Warning: migration issue for %T: %v", &models.OddsSnapshot{}, err)
	}

	// Migrate premium feature models
	premiumModels := []interface{}{
		&models.MatchBlock{},
		&models.Payment{},
		&models.DiscountCode{},
	}

	for _, model := range premiumModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
