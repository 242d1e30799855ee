package service

import (
	"errors"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"github.com/bellavista/bellavista-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrSettingsNotConfigured means the restaurant settings row is missing, so
// nothing can be priced.
var ErrSettingsNotConfigured = errors.New("restaurant settings are not configured")

// RestaurantSettingsUpdate carries the editable settings fields. Nil pointers
// leave the current value untouched.
type RestaurantSettingsUpdate struct {
	Name           *string
	Phone          *string
	Email          *string
	AddressLine    *string
	OpensAt        *string
	ClosesAt       *string
	TaxPercent     *float64
	DeliveryCharge *float64
}

type RestaurantService interface {
	GetSettings() (*model.Restaurant, error)
	UpdateSettings(update RestaurantSettingsUpdate) (*model.Restaurant, error)
}

type restaurantService struct {
	restaurantRepo repository.RestaurantRepository
}

func NewRestaurantService(restaurantRepo repository.RestaurantRepository) RestaurantService {
	return &restaurantService{restaurantRepo: restaurantRepo}
}

func (s *restaurantService) GetSettings() (*model.Restaurant, error) {
	settings, err := s.restaurantRepo.Get()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotConfigured
		}
		return nil, err
	}
	return settings, nil
}

func (s *restaurantService) UpdateSettings(update RestaurantSettingsUpdate) (*model.Restaurant, error) {
	settings, err := s.restaurantRepo.Get()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		settings = &model.Restaurant{}
	}

	if update.Name != nil {
		settings.Name = *update.Name
	}
	if update.Phone != nil {
		settings.Phone = *update.Phone
	}
	if update.Email != nil {
		settings.Email = *update.Email
	}
	if update.AddressLine != nil {
		settings.AddressLine = *update.AddressLine
	}
	if update.OpensAt != nil {
		settings.OpensAt = *update.OpensAt
	}
	if update.ClosesAt != nil {
		settings.ClosesAt = *update.ClosesAt
	}
	if update.TaxPercent != nil {
		settings.TaxPercent = *update.TaxPercent
	}
	if update.DeliveryCharge != nil {
		settings.DeliveryCharge = *update.DeliveryCharge
	}

	if err := s.restaurantRepo.Save(settings); err != nil {
		return nil, err
	}

	logger.Info("Restaurant settings updated", map[string]interface{}{
		"tax_percent":     settings.TaxPercent,
		"delivery_charge": settings.DeliveryCharge,
	})
	return settings, nil
}
