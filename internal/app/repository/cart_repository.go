package repository

import (
	"time"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	FindByOwner(owner model.Owner) ([]model.CartLine, error)
	FindGroupByOwner(owner model.Owner, itemID, priceID uint) ([]model.CartLine, error)
	CreateLines(lines []model.CartLine) error
	DeleteByIDs(ids []uint) error
	DeleteGroup(owner model.Owner, itemID, priceID uint) error
	DeleteByOwner(owner model.Owner) error
	SetDiscountCode(owner model.Owner, code *string) error
	DeleteStaleGuestLines(before time.Time) (int64, error)
	CountAll() (int64, error)
	FindAll() ([]model.CartLine, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// ownerScope narrows a query to one owner's lines. The opposite identity
// column must be NULL so a user never sees guest rows and vice versa.
func ownerScope(db *gorm.DB, owner model.Owner) *gorm.DB {
	if userID, ok := owner.UserID(); ok {
		return db.Where("user_id = ? AND guest_id IS NULL", userID)
	}
	guestID, _ := owner.GuestID()
	return db.Where("guest_id = ? AND user_id IS NULL", guestID)
}

func (r *cartRepository) FindByOwner(owner model.Owner) ([]model.CartLine, error) {
	var lines []model.CartLine
	err := ownerScope(r.db, owner).
		Preload("Item").
		Preload("Price").
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		logger.Error("Failed to find cart lines", err, owner.LogFields())
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) FindGroupByOwner(owner model.Owner, itemID, priceID uint) ([]model.CartLine, error) {
	var lines []model.CartLine
	err := ownerScope(r.db, owner).
		Where("item_id = ? AND price_id = ?", itemID, priceID).
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		logger.Error("Failed to find cart line group", err, map[string]interface{}{
			"item_id":  itemID,
			"price_id": priceID,
		})
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) CreateLines(lines []model.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	if err := r.db.Create(&lines).Error; err != nil {
		logger.Error("Failed to create cart lines", err, map[string]interface{}{
			"count": len(lines),
		})
		return err
	}
	logger.Debug("Cart lines created", map[string]interface{}{
		"count": len(lines),
	})
	return nil
}

func (r *cartRepository) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("id IN ?", ids).Delete(&model.CartLine{}).Error
}

func (r *cartRepository) DeleteGroup(owner model.Owner, itemID, priceID uint) error {
	return ownerScope(r.db, owner).
		Where("item_id = ? AND price_id = ?", itemID, priceID).
		Delete(&model.CartLine{}).Error
}

func (r *cartRepository) DeleteByOwner(owner model.Owner) error {
	return ownerScope(r.db, owner).Delete(&model.CartLine{}).Error
}

// SetDiscountCode stamps (or clears, when code is nil) the coupon on every
// line the owner has. The coupon is cart-wide even though it is stored
// per line.
func (r *cartRepository) SetDiscountCode(owner model.Owner, code *string) error {
	return ownerScope(r.db.Model(&model.CartLine{}), owner).
		Update("discount_code", code).Error
}

// DeleteStaleGuestLines purges guest cart lines untouched since the cutoff.
func (r *cartRepository) DeleteStaleGuestLines(before time.Time) (int64, error) {
	result := r.db.
		Where("guest_id IS NOT NULL AND updated_at < ?", before).
		Delete(&model.CartLine{})
	if result.Error != nil {
		logger.Error("Failed to purge stale guest cart lines", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *cartRepository) FindAll() ([]model.CartLine, error) {
	var lines []model.CartLine
	err := r.db.
		Preload("Item").
		Preload("Price").
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		logger.Error("Failed to list all cart lines", err)
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.CartLine{}).Count(&count).Error
	return count, err
}
