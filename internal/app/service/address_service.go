package service

import (
	"errors"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"gorm.io/gorm"
)

var ErrInvalidAddress = errors.New("street, phone and city are required")

// AddressInput carries the writable address fields.
type AddressInput struct {
	CityID uint
	Street string
	House  string
	Phone  string
	Note   string
}

type AddressService interface {
	List(userID uint) ([]model.Address, error)
	Create(userID uint, input AddressInput) (*model.Address, error)
	Update(userID, addressID uint, input AddressInput) (*model.Address, error)
	Delete(userID, addressID uint) error
}

type addressService struct {
	addressRepo repository.AddressRepository
	cityRepo    repository.CityRepository
}

func NewAddressService(addressRepo repository.AddressRepository, cityRepo repository.CityRepository) AddressService {
	return &addressService{addressRepo: addressRepo, cityRepo: cityRepo}
}

func (s *addressService) List(userID uint) ([]model.Address, error) {
	return s.addressRepo.FindByUserID(userID)
}

func (s *addressService) Create(userID uint, input AddressInput) (*model.Address, error) {
	if input.Street == "" || input.Phone == "" || input.CityID == 0 {
		return nil, ErrInvalidAddress
	}
	if _, err := s.cityRepo.FindByID(input.CityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}

	address := &model.Address{
		UserID: userID,
		CityID: input.CityID,
		Street: input.Street,
		House:  input.House,
		Phone:  input.Phone,
		Note:   input.Note,
	}
	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}
	return address, nil
}

// owned loads an address and checks it belongs to the user.
func (s *addressService) owned(userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		return nil, ErrAddressAccessDenied
	}
	return address, nil
}

func (s *addressService) Update(userID, addressID uint, input AddressInput) (*model.Address, error) {
	address, err := s.owned(userID, addressID)
	if err != nil {
		return nil, err
	}

	if input.CityID != 0 && input.CityID != address.CityID {
		if _, err := s.cityRepo.FindByID(input.CityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCityNotFound
			}
			return nil, err
		}
		address.CityID = input.CityID
	}
	if input.Street != "" {
		address.Street = input.Street
	}
	if input.House != "" {
		address.House = input.House
	}
	if input.Phone != "" {
		address.Phone = input.Phone
	}
	if input.Note != "" {
		address.Note = input.Note
	}

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) Delete(userID, addressID uint) error {
	if _, err := s.owned(userID, addressID); err != nil {
		return err
	}
	return s.addressRepo.Delete(addressID)
}
