package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"github.com/bellavista/bellavista-backend/pkg/logger"
	"github.com/lib/pq"
)

// EmailSink sends one email. Implemented by pkg/mailer.
type EmailSink interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MessageSink sends one WhatsApp message to the restaurant's configured
// number. Implemented by pkg/twilio.
type MessageSink interface {
	Enabled() bool
	SendWhatsApp(ctx context.Context, body string) error
}

const dispatchTimeout = 15 * time.Second

// NotificationService fans order events out to the configured channels.
// Every send is best effort: a failed channel is logged and recorded, never
// surfaced to the order flow.
type NotificationService interface {
	OrderNotifier
}

type renderedMessage struct {
	Subject string
	Body    string
}

type notificationService struct {
	notifRepo repository.NotificationRepository
	email     EmailSink
	messages  MessageSink
	emailTo   string

	renderers map[model.NotificationKind]func(order *model.Order) renderedMessage
}

func NewNotificationService(
	notifRepo repository.NotificationRepository,
	email EmailSink,
	messages MessageSink,
	emailTo string,
) NotificationService {
	s := &notificationService{
		notifRepo: notifRepo,
		email:     email,
		messages:  messages,
		emailTo:   emailTo,
	}
	s.renderers = map[model.NotificationKind]func(order *model.Order) renderedMessage{
		model.NotificationOrderPlaced:        renderOrderPlaced,
		model.NotificationOrderStatusChanged: renderStatusChanged,
	}
	return s
}

func (s *notificationService) OrderPlaced(order *model.Order) {
	s.dispatch(model.NotificationOrderPlaced, order)
}

func (s *notificationService) OrderStatusChanged(order *model.Order) {
	s.dispatch(model.NotificationOrderStatusChanged, order)
}

func (s *notificationService) dispatch(kind model.NotificationKind, order *model.Order) {
	render, ok := s.renderers[kind]
	if !ok {
		logger.Warn("No renderer for notification kind", map[string]interface{}{
			"kind": kind,
		})
		return
	}
	msg := render(order)

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	var channels []string
	var failures []string

	if s.email != nil && s.emailTo != "" {
		if err := s.email.Send(ctx, s.emailTo, msg.Subject, msg.Body); err != nil {
			logger.Error("Email notification failed", err, map[string]interface{}{
				"order_id": order.ID,
				"kind":     kind,
			})
			failures = append(failures, fmt.Sprintf("email: %v", err))
		} else {
			channels = append(channels, "email")
		}
	}

	if s.messages != nil && s.messages.Enabled() {
		if err := s.messages.SendWhatsApp(ctx, msg.Body); err != nil {
			logger.Error("WhatsApp notification failed", err, map[string]interface{}{
				"order_id": order.ID,
				"kind":     kind,
			})
			failures = append(failures, fmt.Sprintf("whatsapp: %v", err))
		} else {
			channels = append(channels, "whatsapp")
		}
	}

	s.record(order.ID, kind, channels, failures)

	logger.Info("Notification dispatched", map[string]interface{}{
		"order_id": order.ID,
		"kind":     kind,
		"channels": channels,
		"failed":   len(failures),
	})
}

func (s *notificationService) record(orderID uint, kind model.NotificationKind, channels, failures []string) {
	if s.notifRepo == nil {
		return
	}
	entry := &model.NotificationLog{
		OrderID:  orderID,
		Kind:     kind,
		Channels: pq.StringArray(channels),
		Error:    strings.Join(failures, "; "),
	}
	if err := s.notifRepo.Create(entry); err != nil {
		logger.Error("Failed to record notification log", err, map[string]interface{}{
			"order_id": orderID,
		})
	}
}

func renderOrderPlaced(order *model.Order) renderedMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "New order #%d\n\n", order.ID)
	for _, item := range order.Items {
		if item.Size != "" {
			fmt.Fprintf(&b, "%d x %s (%s) - %.2f\n", item.Quantity, item.Title, item.Size, item.LineTotal())
		} else {
			fmt.Fprintf(&b, "%d x %s - %.2f\n", item.Quantity, item.Title, item.LineTotal())
		}
	}
	fmt.Fprintf(&b, "\nItems: %.2f\n", order.ItemsPrice)
	if order.DiscountCode != nil {
		fmt.Fprintf(&b, "Discount (%s): -%.2f\n", *order.DiscountCode, order.DiscountAmount)
	}
	fmt.Fprintf(&b, "Tax (%.2f%%): %.2f\n", order.TaxPercent, order.TaxAmount)
	fmt.Fprintf(&b, "Delivery: %.2f\n", order.DeliveryCharge)
	fmt.Fprintf(&b, "Total: %.2f\n", order.TotalAmount)

	if order.GuestName != "" {
		fmt.Fprintf(&b, "\nCustomer: %s (%s)\n", order.GuestName, order.GuestPhone)
		fmt.Fprintf(&b, "Delivery to: %s %s\n", order.GuestStreet, order.GuestHouse)
	}

	return renderedMessage{
		Subject: fmt.Sprintf("New order #%d", order.ID),
		Body:    b.String(),
	}
}

func renderStatusChanged(order *model.Order) renderedMessage {
	body := fmt.Sprintf("Order #%d is now %s (payment: %s)",
		order.ID, order.Status, order.PaymentStatus)
	return renderedMessage{
		Subject: fmt.Sprintf("Order #%d status update", order.ID),
		Body:    body,
	}
}
