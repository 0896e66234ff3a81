package database

import (
	"fmt"

	"binary-signal-bot-go/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase opens the local database and performs auto-migration.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates the schema and seeds the single-row tables and the
// demo history so a fresh install never starts from a broken read.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.TradeHistoryItem{},
		&models.QuotaState{},
		&models.UserProfile{},
		&models.SessionState{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Seed the default profile if none is stored yet.
	var profileCount int64
	if err := db.Model(&models.UserProfile{}).Count(&profileCount).Error; err != nil {
		return fmt.Errorf("failed to check for stored profile: %w", err)
	}
	if profileCount == 0 {
		profile := models.DefaultProfile()
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed default profile: %w", err)
		}
	}

	var sessionCount int64
	if err := db.Model(&models.SessionState{}).Count(&sessionCount).Error; err != nil {
		return fmt.Errorf("failed to check for session state: %w", err)
	}
	if sessionCount == 0 {
		if err := db.Create(&models.SessionState{}).Error; err != nil {
			return fmt.Errorf("failed to seed session state: %w", err)
		}
	}

	// Seed a small demo history on first run.
	var historyCount int64
	if err := db.Model(&models.TradeHistoryItem{}).Count(&historyCount).Error; err != nil {
		return fmt.Errorf("failed to check for trade history: %w", err)
	}
	if historyCount == 0 {
		demo := []models.TradeHistoryItem{
			{TradeID: "demo-3", Time: "12:27:50", Asset: "USD/COP", Signal: models.TradeCall, Result: models.ResultProfit, ProfitAmount: "+80%"},
			{TradeID: "demo-2", Time: "12:28:50", Asset: "USD/INR", Signal: models.TradePut, Result: models.ResultLoss, ProfitAmount: "-100%"},
			{TradeID: "demo-1", Time: "12:29:50", Asset: "AUD/NZD", Signal: models.TradeCall, Result: models.ResultProfit, ProfitAmount: "+75%"},
		}
		if err := db.Create(&demo).Error; err != nil {
			return fmt.Errorf("failed to seed demo history: %w", err)
		}
	}

	return nil
}
