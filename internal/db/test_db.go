package db

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Int64

// SetupTestDB creates an in-memory SQLite database for testing.
// NotificationLog is skipped: its text[] column is Postgres-only and the
// notification tests stub persistence instead.
func SetupTestDB() (*gorm.DB, error) {
	// A plain ":memory:" DSN gives every pool connection its own empty
	// database; a uniquely named shared-cache DSN keeps the schema visible
	// across connections while isolating each test setup.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.City{},
		&model.Address{},
		&model.Category{},
		&model.Item{},
		&model.ItemPrice{},
		&model.CartLine{},
		&model.Discount{},
		&model.Restaurant{},
		&model.Order{},
		&model.OrderItem{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database.
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables.
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		"order_items", "orders", "cart_lines", "item_prices", "items",
		"categories", "discounts", "addresses", "cities", "restaurants", "users",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
