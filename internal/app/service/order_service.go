package service

import (
	"errors"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/pricing"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"github.com/bellavista/bellavista-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderAccessDenied    = errors.New("order does not belong to the requester")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrAddressNotFound      = errors.New("address not found")
	ErrAddressAccessDenied  = errors.New("address does not belong to the user")
	ErrCityNotFound         = errors.New("city not found")
	ErrGuestDetailsRequired = errors.New("guest delivery details are required")
)

// GuestDetails is the inline delivery address a guest supplies at checkout.
type GuestDetails struct {
	Name   string
	Phone  string
	Email  string
	CityID uint
	Street string
	House  string
}

// PlaceOrderRequest selects the delivery address: registered users reference
// a saved address, guests provide details inline.
type PlaceOrderRequest struct {
	AddressID *uint
	Guest     *GuestDetails
}

// OrderNotifier receives order lifecycle events. Dispatch must never block
// or fail order processing.
type OrderNotifier interface {
	OrderPlaced(order *model.Order)
	OrderStatusChanged(order *model.Order)
}

// StatusBroadcaster pushes live status updates to connected clients.
type StatusBroadcaster interface {
	BroadcastOrderStatus(order *model.Order)
}

type OrderService interface {
	PlaceOrder(owner model.Owner, req PlaceOrderRequest) (*model.Order, error)
	GetOrder(id uint, requester model.Owner, isAdmin bool) (*model.Order, error)
	ListOrders(owner model.Owner) ([]model.Order, error)
	ListAllOrders(status string, limit, offset int) ([]model.Order, int64, error)
	UpdateStatus(id uint, status model.OrderStatus) (*model.Order, error)
	UpdatePaymentStatus(id uint, status model.PaymentStatus) (*model.Order, error)
}

type orderService struct {
	db             *gorm.DB
	orderRepo      repository.OrderRepository
	cartRepo       repository.CartRepository
	discountRepo   repository.DiscountRepository
	restaurantRepo repository.RestaurantRepository
	addressRepo    repository.AddressRepository
	cityRepo       repository.CityRepository
	notifier       OrderNotifier
	broadcaster    StatusBroadcaster
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	discountRepo repository.DiscountRepository,
	restaurantRepo repository.RestaurantRepository,
	addressRepo repository.AddressRepository,
	cityRepo repository.CityRepository,
	notifier OrderNotifier,
	broadcaster StatusBroadcaster,
) OrderService {
	return &orderService{
		db:             db,
		orderRepo:      orderRepo,
		cartRepo:       cartRepo,
		discountRepo:   discountRepo,
		restaurantRepo: restaurantRepo,
		addressRepo:    addressRepo,
		cityRepo:       cityRepo,
		notifier:       notifier,
		broadcaster:    broadcaster,
	}
}

// PlaceOrder turns the owner's cart into an immutable order. The cart is
// re-aggregated and re-priced against the live catalog inside a transaction;
// only the rows that were actually priced are consumed, so rows pointing at
// dead catalog entries stay behind for the cleanup job.
func (s *orderService) PlaceOrder(owner model.Owner, req PlaceOrderRequest) (*model.Order, error) {
	settings, err := s.restaurantRepo.Get()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotConfigured
		}
		return nil, err
	}

	order := &model.Order{
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusUnpaid,
	}
	order.UserID, order.GuestID = owner.Columns()

	if err := s.resolveDelivery(owner, req, order); err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var rows []model.CartLine
	query := tx.Preload("Item").Preload("Price").Order("created_at ASC, id ASC")
	if userID, ok := owner.UserID(); ok {
		query = query.Where("user_id = ? AND guest_id IS NULL", userID)
	} else {
		guestID, _ := owner.GuestID()
		query = query.Where("guest_id = ? AND user_id IS NULL", guestID)
	}
	if err := query.Find(&rows).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(rows) == 0 {
		tx.Rollback()
		return nil, ErrEmptyCart
	}

	agg := buildAggregate(rows)
	if agg.IsEmpty() {
		tx.Rollback()
		return nil, ErrNoValidItems
	}

	var discount *pricing.Discount
	if agg.DiscountCode != "" {
		d, err := s.discountRepo.FindPublishedByCode(agg.DiscountCode)
		switch {
		case err == nil:
			discount = &pricing.Discount{Code: d.Code, Amount: d.Amount}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Coupon disappeared since it was applied; price without it.
		default:
			tx.Rollback()
			return nil, err
		}
	}

	quote := pricing.Calculate(agg.Lines, pricing.Context{
		TaxPercent:     settings.TaxPercent,
		DeliveryCharge: settings.DeliveryCharge,
	}, discount)

	order.ItemsPrice = quote.ItemsPrice
	order.TaxPercent = quote.TaxPercent
	order.TaxAmount = quote.TaxAmount
	order.DeliveryCharge = quote.DeliveryCharge
	order.DiscountAmount = quote.DiscountAmount
	order.TotalAmount = quote.PayablePrice
	if quote.DiscountCode != "" {
		code := quote.DiscountCode
		order.DiscountCode = &code
	}

	for _, line := range agg.Lines {
		order.Items = append(order.Items, model.OrderItem{
			ItemID:    line.ItemID,
			PriceID:   line.PriceID,
			Title:     line.Title,
			Size:      line.Size,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, owner.LogFields())
		return nil, err
	}

	if err := tx.Where("id IN ?", agg.LineIDs).Delete(&model.CartLine{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to consume cart lines", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	logger.Info("Order placed", mergeFields(owner.LogFields(), map[string]interface{}{
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
		"items":        len(order.Items),
	}))

	if s.notifier != nil {
		go s.notifier.OrderPlaced(order)
	}

	return order, nil
}

// resolveDelivery validates and attaches the delivery address to the order.
// Registered users either reference a saved address or supply details inline,
// which are saved as a new address; guest details stay inline on the order.
func (s *orderService) resolveDelivery(owner model.Owner, req PlaceOrderRequest, order *model.Order) error {
	if userID, ok := owner.UserID(); ok {
		if req.AddressID != nil {
			address, err := s.addressRepo.FindByID(*req.AddressID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAddressNotFound
				}
				return err
			}
			if address.UserID != userID {
				return ErrAddressAccessDenied
			}
			order.AddressID = &address.ID
			return nil
		}

		g := req.Guest
		if g == nil {
			return ErrAddressNotFound
		}
		if g.Phone == "" || g.Street == "" || g.CityID == 0 {
			return ErrGuestDetailsRequired
		}
		if _, err := s.cityRepo.FindByID(g.CityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCityNotFound
			}
			return err
		}

		address := &model.Address{
			UserID: userID,
			CityID: g.CityID,
			Street: g.Street,
			House:  g.House,
			Phone:  g.Phone,
		}
		if err := s.addressRepo.Create(address); err != nil {
			return err
		}
		order.AddressID = &address.ID
		return nil
	}

	g := req.Guest
	if g == nil || g.Name == "" || g.Phone == "" || g.Street == "" || g.CityID == 0 {
		return ErrGuestDetailsRequired
	}
	if _, err := s.cityRepo.FindByID(g.CityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCityNotFound
		}
		return err
	}

	order.GuestName = g.Name
	order.GuestPhone = g.Phone
	order.GuestEmail = g.Email
	cityID := g.CityID
	order.GuestCityID = &cityID
	order.GuestStreet = g.Street
	order.GuestHouse = g.House
	return nil
}

func (s *orderService) GetOrder(id uint, requester model.Owner, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !isAdmin && !order.BelongsTo(requester) {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *orderService) ListOrders(owner model.Owner) ([]model.Order, error) {
	return s.orderRepo.FindByOwner(owner)
}

func (s *orderService) ListAllOrders(status string, limit, offset int) ([]model.Order, int64, error) {
	if status != "" && !model.ValidOrderStatus(model.OrderStatus(status)) {
		return nil, 0, ErrInvalidOrderStatus
	}
	return s.orderRepo.FindAll(status, limit, offset)
}

// UpdateStatus sets the order status. Any known status is accepted in any
// order; the kitchen is trusted to know what it is doing.
func (s *orderService) UpdateStatus(id uint, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	if s.broadcaster != nil {
		s.broadcaster.BroadcastOrderStatus(order)
	}
	if s.notifier != nil {
		go s.notifier.OrderStatusChanged(order)
	}
	return order, nil
}

func (s *orderService) UpdatePaymentStatus(id uint, status model.PaymentStatus) (*model.Order, error) {
	if !model.ValidPaymentStatus(status) {
		return nil, ErrInvalidPaymentStatus
	}

	if err := s.orderRepo.UpdatePaymentStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Order payment status updated", map[string]interface{}{
		"order_id":       id,
		"payment_status": status,
	})

	if s.broadcaster != nil {
		s.broadcaster.BroadcastOrderStatus(order)
	}
	return order, nil
}
