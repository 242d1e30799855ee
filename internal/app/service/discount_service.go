package service

import (
	"errors"
	"strings"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"github.com/bellavista/bellavista-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrDiscountNotFound   = errors.New("discount not found")
	ErrDiscountCodeExists = errors.New("discount code already exists")
	ErrInvalidDiscount    = errors.New("discount code and a non-negative amount are required")
)

type DiscountService interface {
	List() ([]model.Discount, error)
	Get(id uint) (*model.Discount, error)
	Create(code string, amount float64, status model.DiscountStatus) (*model.Discount, error)
	Update(id uint, code *string, amount *float64, status *model.DiscountStatus) (*model.Discount, error)
	Delete(id uint) error
}

type discountService struct {
	discountRepo repository.DiscountRepository
}

func NewDiscountService(discountRepo repository.DiscountRepository) DiscountService {
	return &discountService{discountRepo: discountRepo}
}

func (s *discountService) List() ([]model.Discount, error) {
	return s.discountRepo.FindAll()
}

func (s *discountService) Get(id uint) (*model.Discount, error) {
	discount, err := s.discountRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return discount, nil
}

func (s *discountService) Create(code string, amount float64, status model.DiscountStatus) (*model.Discount, error) {
	code = strings.TrimSpace(code)
	if code == "" || amount < 0 {
		return nil, ErrInvalidDiscount
	}
	if status == "" {
		status = model.DiscountStatusPublished
	}

	if _, err := s.discountRepo.FindByCode(code); err == nil {
		return nil, ErrDiscountCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	discount := &model.Discount{Code: code, Amount: amount, Status: status}
	if err := s.discountRepo.Create(discount); err != nil {
		return nil, err
	}

	logger.Info("Discount created", map[string]interface{}{
		"discount_id": discount.ID,
		"code":        discount.Code,
		"amount":      discount.Amount,
	})
	return discount, nil
}

func (s *discountService) Update(id uint, code *string, amount *float64, status *model.DiscountStatus) (*model.Discount, error) {
	discount, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if code != nil {
		trimmed := strings.TrimSpace(*code)
		if trimmed == "" {
			return nil, ErrInvalidDiscount
		}
		if trimmed != discount.Code {
			if _, err := s.discountRepo.FindByCode(trimmed); err == nil {
				return nil, ErrDiscountCodeExists
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
		discount.Code = trimmed
	}
	if amount != nil {
		if *amount < 0 {
			return nil, ErrInvalidDiscount
		}
		discount.Amount = *amount
	}
	if status != nil {
		discount.Status = *status
	}

	if err := s.discountRepo.Update(discount); err != nil {
		return nil, err
	}
	return discount, nil
}

func (s *discountService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.discountRepo.Delete(id)
}
