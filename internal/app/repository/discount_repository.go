package repository

import (
	"github.com/bellavista/bellavista-backend/internal/app/model"
	"gorm.io/gorm"
)

type DiscountRepository interface {
	FindAll() ([]model.Discount, error)
	FindByID(id uint) (*model.Discount, error)
	FindByCode(code string) (*model.Discount, error)
	FindPublishedByCode(code string) (*model.Discount, error)
	Create(discount *model.Discount) error
	Update(discount *model.Discount) error
	Delete(id uint) error
}

type discountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) FindAll() ([]model.Discount, error) {
	var discounts []model.Discount
	if err := r.db.Order("created_at DESC").Find(&discounts).Error; err != nil {
		return nil, err
	}
	return discounts, nil
}

func (r *discountRepository) FindByID(id uint) (*model.Discount, error) {
	var discount model.Discount
	if err := r.db.First(&discount, id).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *discountRepository) FindByCode(code string) (*model.Discount, error) {
	var discount model.Discount
	if err := r.db.Where("code = ?", code).First(&discount).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

// FindPublishedByCode resolves a code for redemption. Unpublished discounts
// are invisible here.
func (r *discountRepository) FindPublishedByCode(code string) (*model.Discount, error) {
	var discount model.Discount
	err := r.db.
		Where("code = ? AND status = ?", code, model.DiscountStatusPublished).
		First(&discount).Error
	if err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *discountRepository) Create(discount *model.Discount) error {
	return r.db.Create(discount).Error
}

func (r *discountRepository) Update(discount *model.Discount) error {
	return r.db.Save(discount).Error
}

func (r *discountRepository) Delete(id uint) error {
	return r.db.Delete(&model.Discount{}, id).Error
}
