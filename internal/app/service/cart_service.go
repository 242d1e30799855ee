package service

import (
	"errors"
	"fmt"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/pricing"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"github.com/bellavista/bellavista-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrNoValidItems        = errors.New("cart has no valid items")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrItemNotFound        = errors.New("item not found or unavailable")
	ErrInvalidItemPrice    = errors.New("price does not belong to the item")
	ErrInvalidQuantity     = errors.New("quantity must be between 1 and 999")
	ErrInvalidDiscountCode = errors.New("discount code is invalid or expired")
)

// MaxLineQuantity caps how many units of one variant a single cart may hold.
const MaxLineQuantity = 999

// CartAddition is one requested item group to add to a cart.
type CartAddition struct {
	ItemID   uint
	PriceID  uint
	Quantity int
}

// CartSummary is the aggregated, priced view of a cart.
type CartSummary struct {
	Items    []pricing.LineItem
	Quote    pricing.Quote
	Warnings []string
}

type CartService interface {
	GetCart(owner model.Owner) (*CartSummary, error)
	AddItems(owner model.Owner, additions []CartAddition) (*CartSummary, error)
	SetQuantity(owner model.Owner, itemID, priceID uint, quantity int) (*CartSummary, error)
	RemoveItem(owner model.Owner, itemID, priceID uint) (*CartSummary, error)
	ApplyDiscount(owner model.Owner, code string) (*CartSummary, error)
	RemoveDiscount(owner model.Owner) (*CartSummary, error)
	Clear(owner model.Owner) error
}

type cartService struct {
	cartRepo       repository.CartRepository
	catalogRepo    repository.CatalogRepository
	discountRepo   repository.DiscountRepository
	restaurantRepo repository.RestaurantRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	catalogRepo repository.CatalogRepository,
	discountRepo repository.DiscountRepository,
	restaurantRepo repository.RestaurantRepository,
) CartService {
	return &cartService{
		cartRepo:       cartRepo,
		catalogRepo:    catalogRepo,
		discountRepo:   discountRepo,
		restaurantRepo: restaurantRepo,
	}
}

func (s *cartService) GetCart(owner model.Owner) (*CartSummary, error) {
	rows, err := s.cartRepo.FindByOwner(owner)
	if err != nil {
		return nil, err
	}
	return s.summarize(rows)
}

// summarize aggregates raw rows and prices them against the current catalog
// and settings. A stamped coupon that is no longer redeemable prices as if
// absent, with a warning.
func (s *cartService) summarize(rows []model.CartLine) (*CartSummary, error) {
	agg := buildAggregate(rows)

	// Cart previews price with zero tax and delivery until the restaurant
	// settings exist; only order placement requires them.
	var ctx pricing.Context
	settings, err := s.restaurantRepo.Get()
	switch {
	case err == nil:
		ctx = pricing.Context{
			TaxPercent:     settings.TaxPercent,
			DeliveryCharge: settings.DeliveryCharge,
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}

	var discount *pricing.Discount
	warnings := agg.Warnings
	if agg.DiscountCode != "" {
		d, err := s.discountRepo.FindPublishedByCode(agg.DiscountCode)
		switch {
		case err == nil:
			discount = &pricing.Discount{Code: d.Code, Amount: d.Amount}
		case errors.Is(err, gorm.ErrRecordNotFound):
			warnings = append(warnings,
				fmt.Sprintf("discount code %q is no longer valid and was not applied", agg.DiscountCode))
		default:
			return nil, err
		}
	}

	return &CartSummary{
		Items:    agg.Lines,
		Quote:    pricing.Calculate(agg.Lines, ctx, discount),
		Warnings: warnings,
	}, nil
}

func (s *cartService) AddItems(owner model.Owner, additions []CartAddition) (*CartSummary, error) {
	if len(additions) == 0 {
		return nil, ErrInvalidQuantity
	}

	existing, err := s.cartRepo.FindByOwner(owner)
	if err != nil {
		return nil, err
	}

	// A coupon already on the cart carries over to the new rows.
	var coupon *string
	for _, row := range existing {
		if row.DiscountCode != nil {
			coupon = row.DiscountCode
			break
		}
	}

	counts := make(map[groupKey]int)
	for _, row := range existing {
		counts[groupKey{itemID: row.ItemID, priceID: row.PriceID}]++
	}

	userID, guestID := owner.Columns()
	var newRows []model.CartLine

	for _, add := range additions {
		if add.Quantity < 1 || add.Quantity > MaxLineQuantity {
			return nil, ErrInvalidQuantity
		}

		price, err := s.catalogRepo.FindPriceByID(add.PriceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidItemPrice
			}
			return nil, err
		}
		if price.ItemID != add.ItemID {
			return nil, ErrInvalidItemPrice
		}
		if price.Item.ID == 0 || price.Item.Status != model.ItemStatusPublished {
			return nil, ErrItemNotFound
		}

		key := groupKey{itemID: add.ItemID, priceID: add.PriceID}
		if counts[key]+add.Quantity > MaxLineQuantity {
			return nil, ErrInvalidQuantity
		}
		counts[key] += add.Quantity

		for i := 0; i < add.Quantity; i++ {
			newRows = append(newRows, model.CartLine{
				UserID:       userID,
				GuestID:      guestID,
				ItemID:       add.ItemID,
				PriceID:      add.PriceID,
				UnitPrice:    price.Price,
				DiscountCode: coupon,
			})
		}
	}

	if err := s.cartRepo.CreateLines(newRows); err != nil {
		return nil, err
	}

	logger.Info("Items added to cart", mergeFields(owner.LogFields(), map[string]interface{}{
		"groups": len(additions),
		"rows":   len(newRows),
	}))

	return s.GetCart(owner)
}

// SetQuantity adjusts a group to an exact quantity by inserting or deleting
// unit rows. Zero removes the group; a positive quantity for a group not yet
// in the cart adds it.
func (s *cartService) SetQuantity(owner model.Owner, itemID, priceID uint, quantity int) (*CartSummary, error) {
	if quantity < 0 || quantity > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}

	rows, err := s.cartRepo.FindGroupByOwner(owner, itemID, priceID)
	if err != nil {
		return nil, err
	}

	current := len(rows)
	switch {
	case quantity == 0:
		if current == 0 {
			return nil, ErrCartItemNotFound
		}
		if err := s.cartRepo.DeleteGroup(owner, itemID, priceID); err != nil {
			return nil, err
		}

	case quantity < current:
		// Drop the newest rows first.
		var ids []uint
		for _, row := range rows[quantity:] {
			ids = append(ids, row.ID)
		}
		if err := s.cartRepo.DeleteByIDs(ids); err != nil {
			return nil, err
		}

	case quantity > current:
		price, err := s.catalogRepo.FindPriceByID(priceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidItemPrice
			}
			return nil, err
		}
		if price.ItemID != itemID {
			return nil, ErrInvalidItemPrice
		}
		if price.Item.ID == 0 || price.Item.Status != model.ItemStatusPublished {
			return nil, ErrItemNotFound
		}

		coupon, err := s.cartCoupon(owner, rows)
		if err != nil {
			return nil, err
		}

		userID, guestID := owner.Columns()
		newRows := make([]model.CartLine, 0, quantity-current)
		for i := 0; i < quantity-current; i++ {
			newRows = append(newRows, model.CartLine{
				UserID:       userID,
				GuestID:      guestID,
				ItemID:       itemID,
				PriceID:      priceID,
				UnitPrice:    price.Price,
				DiscountCode: coupon,
			})
		}
		if err := s.cartRepo.CreateLines(newRows); err != nil {
			return nil, err
		}
	}

	return s.GetCart(owner)
}

// cartCoupon returns the coupon stamped on the cart, preferring the group's
// own rows over a scan of the rest of the owner's cart.
func (s *cartService) cartCoupon(owner model.Owner, group []model.CartLine) (*string, error) {
	if len(group) > 0 {
		return group[0].DiscountCode, nil
	}
	rows, err := s.cartRepo.FindByOwner(owner)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.DiscountCode != nil {
			return row.DiscountCode, nil
		}
	}
	return nil, nil
}

func (s *cartService) RemoveItem(owner model.Owner, itemID, priceID uint) (*CartSummary, error) {
	rows, err := s.cartRepo.FindGroupByOwner(owner, itemID, priceID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrCartItemNotFound
	}

	if err := s.cartRepo.DeleteGroup(owner, itemID, priceID); err != nil {
		return nil, err
	}
	return s.GetCart(owner)
}

// ApplyDiscount stamps a published coupon onto every line of the cart. The
// coupon is cart-wide; applying a new one replaces any previous one.
func (s *cartService) ApplyDiscount(owner model.Owner, code string) (*CartSummary, error) {
	rows, err := s.cartRepo.FindByOwner(owner)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyCart
	}

	discount, err := s.discountRepo.FindPublishedByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidDiscountCode
		}
		return nil, err
	}

	if err := s.cartRepo.SetDiscountCode(owner, &discount.Code); err != nil {
		return nil, err
	}

	logger.Info("Discount applied to cart", mergeFields(owner.LogFields(), map[string]interface{}{
		"code": discount.Code,
	}))

	return s.GetCart(owner)
}

func (s *cartService) RemoveDiscount(owner model.Owner) (*CartSummary, error) {
	rows, err := s.cartRepo.FindByOwner(owner)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyCart
	}

	if err := s.cartRepo.SetDiscountCode(owner, nil); err != nil {
		return nil, err
	}
	return s.GetCart(owner)
}

func (s *cartService) Clear(owner model.Owner) error {
	return s.cartRepo.DeleteByOwner(owner)
}

func mergeFields(a, b map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(a)+len(b))
	for k, v := range a {
		merged[k] = v
	}
	for k, v := range b {
		merged[k] = v
	}
	return merged
}
