package service

import (
	"errors"
	"strings"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"gorm.io/gorm"
)

var ErrInvalidCity = errors.New("city name is required")

type CityService interface {
	List() ([]model.City, error)
	Create(name string) (*model.City, error)
	Update(id uint, name string) (*model.City, error)
	Delete(id uint) error
}

type cityService struct {
	cityRepo repository.CityRepository
}

func NewCityService(cityRepo repository.CityRepository) CityService {
	return &cityService{cityRepo: cityRepo}
}

func (s *cityService) List() ([]model.City, error) {
	return s.cityRepo.FindAll()
}

func (s *cityService) Create(name string) (*model.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidCity
	}
	city := &model.City{Name: name}
	if err := s.cityRepo.Create(city); err != nil {
		return nil, err
	}
	return city, nil
}

func (s *cityService) Update(id uint, name string) (*model.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidCity
	}

	city, err := s.cityRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}

	city.Name = name
	if err := s.cityRepo.Update(city); err != nil {
		return nil, err
	}
	return city, nil
}

func (s *cityService) Delete(id uint) error {
	if _, err := s.cityRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCityNotFound
		}
		return err
	}
	return s.cityRepo.Delete(id)
}
