package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"github.com/bellavista/bellavista-backend/pkg/logger"
	"github.com/bellavista/bellavista-backend/pkg/redis"
	"github.com/xuri/excelize/v2"
)

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	OrdersByStatus map[model.OrderStatus]int64 `json:"orders_by_status"`
	TotalOrders    int64                       `json:"total_orders"`
	RevenueToday   float64                     `json:"revenue_today"`
	Revenue30Days  float64                     `json:"revenue_30_days"`
	CartLines      int64                       `json:"cart_lines"`
	VisitorsToday  int64                       `json:"visitors_today"`
}

type ReportService interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	ExportOrdersXLSX(from, to time.Time) ([]byte, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
}

func NewReportService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository) ReportService {
	return &reportService{orderRepo: orderRepo, cartRepo: cartRepo}
}

func (s *reportService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	byStatus, err := s.orderRepo.CountByStatus()
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	revenueToday, err := s.orderRepo.RevenueSince(startOfDay)
	if err != nil {
		return nil, err
	}
	revenue30, err := s.orderRepo.RevenueSince(now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	cartLines, err := s.cartRepo.CountAll()
	if err != nil {
		return nil, err
	}

	visitors, err := redis.VisitCount(ctx, now)
	if err != nil {
		// Visitor counters are nice to have; the dashboard still renders.
		logger.Warn("Failed to read visitor counter", map[string]interface{}{
			"error": err.Error(),
		})
		visitors = 0
	}

	return &DashboardStats{
		OrdersByStatus: byStatus,
		TotalOrders:    total,
		RevenueToday:   revenueToday,
		Revenue30Days:  revenue30,
		CartLines:      cartLines,
		VisitorsToday:  visitors,
	}, nil
}

var exportHeader = []string{
	"Order ID", "Placed At", "Customer", "Status", "Payment",
	"Items Price", "Discount Code", "Discount", "Tax", "Delivery", "Total",
}

// ExportOrdersXLSX renders the orders placed in [from, to) as a spreadsheet.
func (s *reportService) ExportOrdersXLSX(from, to time.Time) ([]byte, error) {
	orders, err := s.orderRepo.FindBetween(from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, order := range orders {
		rowNum := i + 2
		discountCode := ""
		if order.DiscountCode != nil {
			discountCode = *order.DiscountCode
		}
		values := []interface{}{
			order.ID,
			order.CreatedAt.Format("2006-01-02 15:04"),
			customerLabel(&order),
			string(order.Status),
			string(order.PaymentStatus),
			order.ItemsPrice,
			discountCode,
			order.DiscountAmount,
			order.TaxAmount,
			order.DeliveryCharge,
			order.TotalAmount,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	logger.Info("Orders exported to XLSX", map[string]interface{}{
		"orders": len(orders),
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	})
	return buf.Bytes(), nil
}

func customerLabel(order *model.Order) string {
	if order.User != nil {
		return fmt.Sprintf("%s <%s>", order.User.Name, order.User.Email)
	}
	if order.GuestName != "" {
		return fmt.Sprintf("%s (guest)", order.GuestName)
	}
	if order.GuestID != nil {
		return fmt.Sprintf("guest %s", *order.GuestID)
	}
	return "unknown"
}
