package repository

import (
	"github.com/bellavista/bellavista-backend/internal/app/model"
	"gorm.io/gorm"
)

type CityRepository interface {
	FindAll() ([]model.City, error)
	FindByID(id uint) (*model.City, error)
	Create(city *model.City) error
	Update(city *model.City) error
	Delete(id uint) error
}

type cityRepository struct {
	db *gorm.DB
}

func NewCityRepository(db *gorm.DB) CityRepository {
	return &cityRepository{db: db}
}

func (r *cityRepository) FindAll() ([]model.City, error) {
	var cities []model.City
	if err := r.db.Order("name ASC").Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *cityRepository) FindByID(id uint) (*model.City, error) {
	var city model.City
	if err := r.db.First(&city, id).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *cityRepository) Create(city *model.City) error {
	return r.db.Create(city).Error
}

func (r *cityRepository) Update(city *model.City) error {
	return r.db.Save(city).Error
}

func (r *cityRepository) Delete(id uint) error {
	return r.db.Delete(&model.City{}, id).Error
}
