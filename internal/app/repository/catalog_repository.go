package repository

import (
	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/pkg/logger"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	FindItems(categoryID *uint, publishedOnly bool) ([]model.Item, error)
	FindItemByID(id uint) (*model.Item, error)
	CreateItem(item *model.Item) error
	UpdateItem(item *model.Item) error
	DeleteItem(id uint) error
	FindPriceByID(id uint) (*model.ItemPrice, error)
	FindPricesByIDs(ids []uint) ([]model.ItemPrice, error)
	CreatePrice(price *model.ItemPrice) error
	UpdatePrice(price *model.ItemPrice) error
	DeletePrice(id uint) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) FindItems(categoryID *uint, publishedOnly bool) ([]model.Item, error) {
	query := r.db.Preload("Prices").Preload("Category")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if publishedOnly {
		query = query.Where("status = ?", model.ItemStatusPublished)
	}

	var items []model.Item
	if err := query.Order("id ASC").Find(&items).Error; err != nil {
		logger.Error("Failed to find items", err)
		return nil, err
	}
	return items, nil
}

func (r *catalogRepository) FindItemByID(id uint) (*model.Item, error) {
	var item model.Item
	if err := r.db.Preload("Prices").Preload("Category").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) CreateItem(item *model.Item) error {
	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create item", err, map[string]interface{}{
			"name": item.Name,
		})
		return err
	}
	logger.Debug("Item created", map[string]interface{}{
		"item_id": item.ID,
		"name":    item.Name,
	})
	return nil
}

func (r *catalogRepository) UpdateItem(item *model.Item) error {
	return r.db.Save(item).Error
}

func (r *catalogRepository) DeleteItem(id uint) error {
	return r.db.Delete(&model.Item{}, id).Error
}

func (r *catalogRepository) FindPriceByID(id uint) (*model.ItemPrice, error) {
	var price model.ItemPrice
	if err := r.db.Preload("Item").First(&price, id).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *catalogRepository) FindPricesByIDs(ids []uint) ([]model.ItemPrice, error) {
	var prices []model.ItemPrice
	if len(ids) == 0 {
		return prices, nil
	}
	if err := r.db.Preload("Item").Where("id IN ?", ids).Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *catalogRepository) CreatePrice(price *model.ItemPrice) error {
	return r.db.Create(price).Error
}

func (r *catalogRepository) UpdatePrice(price *model.ItemPrice) error {
	return r.db.Save(price).Error
}

func (r *catalogRepository) DeletePrice(id uint) error {
	return r.db.Delete(&model.ItemPrice{}, id).Error
}
