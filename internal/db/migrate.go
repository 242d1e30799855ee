package db

import (
	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/pkg/logger"
)

// Migrate runs database migrations and seeds the data the app cannot run
// without.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
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
		&model.NotificationLog{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional).
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedRestaurant(); err != nil {
		logger.Error("Failed to seed restaurant settings", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedRestaurant creates the settings row if none exists. Pricing refuses to
// quote without it, so a fresh install gets sane defaults.
func seedRestaurant() error {
	var count int64
	if err := DB.Model(&model.Restaurant{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Restaurant settings already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	settings := model.Restaurant{
		Name:           "Bella Vista",
		OpensAt:        "11:00",
		ClosesAt:       "23:00",
		TaxPercent:     8,
		DeliveryCharge: 5,
	}
	if err := DB.Create(&settings).Error; err != nil {
		return err
	}

	logger.Info("Restaurant settings seeded successfully", map[string]interface{}{
		"tax_percent":     settings.TaxPercent,
		"delivery_charge": settings.DeliveryCharge,
	})
	return nil
}
