package repository

import (
	"github.com/bellavista/bellavista-backend/internal/app/model"
	"gorm.io/gorm"
)

type RestaurantRepository interface {
	Get() (*model.Restaurant, error)
	Save(settings *model.Restaurant) error
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

// Get returns the settings row. There is at most one.
func (r *restaurantRepository) Get() (*model.Restaurant, error) {
	var settings model.Restaurant
	if err := r.db.Order("id ASC").First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save updates the settings row, creating it on first write.
func (r *restaurantRepository) Save(settings *model.Restaurant) error {
	return r.db.Save(settings).Error
}
