package service

import (
	"errors"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"github.com/bellavista/bellavista-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCatalogItemNotFound  = errors.New("catalog item not found")
	ErrCatalogPriceNotFound = errors.New("catalog price not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrInvalidCatalogInput  = errors.New("invalid catalog input")
)

// ItemInput carries the writable item fields.
type ItemInput struct {
	Name       string
	Details    string
	Thumbnail  string
	CategoryID uint
	Status     model.ItemStatus
}

// PriceInput carries the writable price-variant fields.
type PriceInput struct {
	Size  string
	Price float64
}

type CatalogService interface {
	ListItems(categoryID *uint, includeUnpublished bool) ([]model.Item, error)
	GetItem(id uint) (*model.Item, error)
	CreateItem(input ItemInput, prices []PriceInput) (*model.Item, error)
	UpdateItem(id uint, input ItemInput) (*model.Item, error)
	DeleteItem(id uint) error
	AddPrice(itemID uint, input PriceInput) (*model.ItemPrice, error)
	UpdatePrice(priceID uint, input PriceInput) (*model.ItemPrice, error)
	DeletePrice(priceID uint) error

	ListCategories() ([]model.Category, error)
	CreateCategory(name, thumbnail string) (*model.Category, error)
	UpdateCategory(id uint, name, thumbnail *string) (*model.Category, error)
	DeleteCategory(id uint) error
}

type catalogService struct {
	catalogRepo  repository.CatalogRepository
	categoryRepo repository.CategoryRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository, categoryRepo repository.CategoryRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo, categoryRepo: categoryRepo}
}

func (s *catalogService) ListItems(categoryID *uint, includeUnpublished bool) ([]model.Item, error) {
	return s.catalogRepo.FindItems(categoryID, !includeUnpublished)
}

func (s *catalogService) GetItem(id uint) (*model.Item, error) {
	item, err := s.catalogRepo.FindItemByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *catalogService) CreateItem(input ItemInput, prices []PriceInput) (*model.Item, error) {
	if input.Name == "" || input.CategoryID == 0 || len(prices) == 0 {
		return nil, ErrInvalidCatalogInput
	}
	for _, p := range prices {
		if p.Price < 0 {
			return nil, ErrInvalidCatalogInput
		}
	}
	if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.ItemStatusPublished
	}

	item := &model.Item{
		Name:       input.Name,
		Details:    input.Details,
		Thumbnail:  input.Thumbnail,
		CategoryID: input.CategoryID,
		Status:     status,
	}
	for _, p := range prices {
		item.Prices = append(item.Prices, model.ItemPrice{Size: p.Size, Price: p.Price})
	}

	if err := s.catalogRepo.CreateItem(item); err != nil {
		return nil, err
	}

	logger.Info("Catalog item created", map[string]interface{}{
		"item_id":  item.ID,
		"name":     item.Name,
		"variants": len(item.Prices),
	})
	return item, nil
}

func (s *catalogService) UpdateItem(id uint, input ItemInput) (*model.Item, error) {
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		item.Name = input.Name
	}
	if input.Details != "" {
		item.Details = input.Details
	}
	if input.Thumbnail != "" {
		item.Thumbnail = input.Thumbnail
	}
	if input.CategoryID != 0 && input.CategoryID != item.CategoryID {
		if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		item.CategoryID = input.CategoryID
	}
	if input.Status != "" {
		item.Status = input.Status
	}

	if err := s.catalogRepo.UpdateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *catalogService) DeleteItem(id uint) error {
	if _, err := s.GetItem(id); err != nil {
		return err
	}
	return s.catalogRepo.DeleteItem(id)
}

func (s *catalogService) AddPrice(itemID uint, input PriceInput) (*model.ItemPrice, error) {
	if input.Price < 0 {
		return nil, ErrInvalidCatalogInput
	}
	if _, err := s.GetItem(itemID); err != nil {
		return nil, err
	}

	price := &model.ItemPrice{ItemID: itemID, Size: input.Size, Price: input.Price}
	if err := s.catalogRepo.CreatePrice(price); err != nil {
		return nil, err
	}
	return price, nil
}

func (s *catalogService) UpdatePrice(priceID uint, input PriceInput) (*model.ItemPrice, error) {
	price, err := s.catalogRepo.FindPriceByID(priceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogPriceNotFound
		}
		return nil, err
	}

	if input.Price < 0 {
		return nil, ErrInvalidCatalogInput
	}
	if input.Size != "" {
		price.Size = input.Size
	}
	price.Price = input.Price

	if err := s.catalogRepo.UpdatePrice(price); err != nil {
		return nil, err
	}
	return price, nil
}

func (s *catalogService) DeletePrice(priceID uint) error {
	if _, err := s.catalogRepo.FindPriceByID(priceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCatalogPriceNotFound
		}
		return err
	}
	return s.catalogRepo.DeletePrice(priceID)
}

func (s *catalogService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *catalogService) CreateCategory(name, thumbnail string) (*model.Category, error) {
	if name == "" {
		return nil, ErrInvalidCatalogInput
	}
	category := &model.Category{Name: name, Thumbnail: thumbnail}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(id uint, name, thumbnail *string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if name != nil && *name != "" {
		category.Name = *name
	}
	if thumbnail != nil {
		category.Thumbnail = *thumbnail
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(id uint) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.categoryRepo.Delete(id)
}
