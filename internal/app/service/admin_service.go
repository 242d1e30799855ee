package service

import (
	"fmt"
	"time"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/pricing"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
)

// AdminCartView is one customer's cart as seen from the back office.
type AdminCartView struct {
	OwnerLabel   string             `json:"owner"`
	UserID       *uint              `json:"user_id,omitempty"`
	GuestID      *string            `json:"guest_id,omitempty"`
	Items        []pricing.LineItem `json:"items"`
	DiscountCode string             `json:"discount_code,omitempty"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type AdminService interface {
	ListUsers(limit, offset int) ([]model.User, int64, error)
	ListAllCarts() ([]AdminCartView, error)
}

type adminService struct {
	userRepo repository.UserRepository
	cartRepo repository.CartRepository
}

func NewAdminService(userRepo repository.UserRepository, cartRepo repository.CartRepository) AdminService {
	return &adminService{userRepo: userRepo, cartRepo: cartRepo}
}

func (s *adminService) ListUsers(limit, offset int) ([]model.User, int64, error) {
	return s.userRepo.FindAll(limit, offset)
}

// ListAllCarts groups every live cart line by owner. Carts appear in the
// order of their oldest line.
func (s *adminService) ListAllCarts() ([]AdminCartView, error) {
	rows, err := s.cartRepo.FindAll()
	if err != nil {
		return nil, err
	}

	type ownerKey string
	keyFor := func(row *model.CartLine) (ownerKey, string, *uint, *string) {
		if row.UserID != nil {
			return ownerKey(fmt.Sprintf("user:%d", *row.UserID)),
				fmt.Sprintf("user #%d", *row.UserID), row.UserID, nil
		}
		return ownerKey("guest:" + *row.GuestID),
			fmt.Sprintf("guest %s", *row.GuestID), nil, row.GuestID
	}

	grouped := make(map[ownerKey][]model.CartLine)
	var order []ownerKey
	labels := make(map[ownerKey]*AdminCartView)

	for _, row := range rows {
		if row.UserID == nil && row.GuestID == nil {
			continue
		}
		key, label, userID, guestID := keyFor(&row)
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
			labels[key] = &AdminCartView{
				OwnerLabel: label,
				UserID:     userID,
				GuestID:    guestID,
			}
		}
		grouped[key] = append(grouped[key], row)
	}

	views := make([]AdminCartView, 0, len(order))
	for _, key := range order {
		view := labels[key]
		agg := buildAggregate(grouped[key])
		view.Items = agg.Lines
		view.DiscountCode = agg.DiscountCode
		for _, row := range grouped[key] {
			if row.UpdatedAt.After(view.UpdatedAt) {
				view.UpdatedAt = row.UpdatedAt
			}
		}
		views = append(views, *view)
	}
	return views, nil
}
