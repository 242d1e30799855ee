package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/service"
	"github.com/bellavista/bellavista-backend/internal/errors"
	"github.com/bellavista/bellavista-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

type guestDetailsRequest struct {
	Name   string `json:"name" binding:"required"`
	Phone  string `json:"phone" binding:"required"`
	Email  string `json:"email"`
	CityID uint   `json:"city_id" binding:"required"`
	Street string `json:"street" binding:"required"`
	House  string `json:"house"`
}

type placeOrderRequest struct {
	AddressID *uint                `json:"address_id"`
	Guest     *guestDetailsRequest `json:"guest"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// orderResponse renders an order in the public API shape, mirroring the cart
// summary so clients reuse their rendering.
func orderResponse(order *model.Order) gin.H {
	items := make([]gin.H, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, gin.H{
			"id":       item.ItemID,
			"title":    item.Title,
			"quantity": item.Quantity,
			"price": gin.H{
				"id":    item.PriceID,
				"price": item.UnitPrice,
				"size":  item.Size,
			},
		})
	}

	coupon := ""
	if order.DiscountCode != nil {
		coupon = *order.DiscountCode
	}

	resp := gin.H{
		"id":             order.ID,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"created_at":     order.CreatedAt,
		"items":          items,
		"items_price":    order.ItemsPrice,
		"discount": gin.H{
			"coupon": coupon,
			"amount": order.DiscountAmount,
		},
		"charges": gin.H{
			"tax":              order.TaxPercent,
			"tax_price":        order.TaxAmount,
			"delivery_charges": order.DeliveryCharge,
		},
		"payable_price": order.TotalAmount,
	}

	if order.Address != nil {
		resp["address"] = order.Address
	}
	if order.GuestName != "" {
		resp["guest"] = gin.H{
			"name":    order.GuestName,
			"phone":   order.GuestPhone,
			"email":   order.GuestEmail,
			"city_id": order.GuestCityID,
			"street":  order.GuestStreet,
			"house":   order.GuestHouse,
		}
	}
	return resp
}

// PlaceOrder materializes the owner's cart into an order.
// POST /api/v1/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid place order request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	serviceReq := service.PlaceOrderRequest{AddressID: req.AddressID}
	if req.Guest != nil {
		serviceReq.Guest = &service.GuestDetails{
			Name:   req.Guest.Name,
			Phone:  req.Guest.Phone,
			Email:  req.Guest.Email,
			CityID: req.Guest.CityID,
			Street: req.Guest.Street,
			House:  req.Guest.House,
		}
	}

	order, err := ctrl.orderService.PlaceOrder(owner, serviceReq)
	if err != nil {
		ctrl.respondOrderError(c, err, "Failed to place order")
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"order_id": order.ID,
		"total":    order.TotalAmount,
	})
	c.JSON(http.StatusCreated, orderResponse(order))
}

// GetOrder returns one order; customers only see their own.
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid order ID")
		return
	}

	owner, _ := resolveOwner(c)
	order, err := ctrl.orderService.GetOrder(uint(id), owner, middleware.IsAdmin(c))
	if err != nil {
		ctrl.respondOrderError(c, err, "Failed to fetch order")
		return
	}
	c.JSON(http.StatusOK, orderResponse(order))
}

// ListOrders returns the requester's order history, newest first.
// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.ListOrders(owner)
	if err != nil {
		errors.InternalError(c, "Failed to fetch orders")
		return
	}

	responses := make([]gin.H, 0, len(orders))
	for i := range orders {
		responses = append(responses, orderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": responses,
		"count":  len(responses),
	})
}

// ListAllOrders returns every order, optionally filtered by status.
// GET /api/v1/admin/orders
func (ctrl *OrderController) ListAllOrders(c *gin.Context) {
	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, total, err := ctrl.orderService.ListAllOrders(status, limit, offset)
	if err != nil {
		ctrl.respondOrderError(c, err, "Failed to fetch orders")
		return
	}

	responses := make([]gin.H, 0, len(orders))
	for i := range orders {
		responses = append(responses, orderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": responses,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateStatus sets the fulfilment status of an order.
// PATCH /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Status is required")
		return
	}

	order, err := ctrl.orderService.UpdateStatus(uint(id), model.OrderStatus(req.Status))
	if err != nil {
		ctrl.respondOrderError(c, err, "Failed to update order status")
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	c.JSON(http.StatusOK, orderResponse(order))
}

// UpdatePaymentStatus marks an order paid or unpaid.
// PATCH /api/v1/admin/orders/:id/payment
func (ctrl *OrderController) UpdatePaymentStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req updatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Payment status is required")
		return
	}

	order, err := ctrl.orderService.UpdatePaymentStatus(uint(id), model.PaymentStatus(req.PaymentStatus))
	if err != nil {
		ctrl.respondOrderError(c, err, "Failed to update payment status")
		return
	}
	c.JSON(http.StatusOK, orderResponse(order))
}

func (ctrl *OrderController) respondOrderError(c *gin.Context, err error, fallback string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case stderrors.Is(err, service.ErrEmptyCart):
		errors.UnprocessableEntity(c, errors.CartEmpty, "The cart is empty")
	case stderrors.Is(err, service.ErrNoValidItems):
		errors.UnprocessableEntity(c, errors.CartNoValidItems, "No cart item is still available")
	case stderrors.Is(err, service.ErrOrderNotFound):
		errors.NotFound(c, errors.OrderNotFound, "Order not found")
	case stderrors.Is(err, service.ErrOrderAccessDenied):
		errors.Forbidden(c, "This order belongs to another customer")
	case stderrors.Is(err, service.ErrInvalidOrderStatus):
		errors.BadRequest(c, errors.OrderInvalidStatus, "Unknown order status")
	case stderrors.Is(err, service.ErrInvalidPaymentStatus):
		errors.BadRequest(c, errors.OrderInvalidStatus, "Unknown payment status")
	case stderrors.Is(err, service.ErrAddressNotFound):
		errors.NotFound(c, errors.AddressNotFound, "Address not found")
	case stderrors.Is(err, service.ErrAddressAccessDenied):
		errors.Forbidden(c, "This address belongs to another user")
	case stderrors.Is(err, service.ErrCityNotFound):
		errors.NotFound(c, errors.CityNotFound, "We do not deliver to this city")
	case stderrors.Is(err, service.ErrGuestDetailsRequired):
		errors.UnprocessableEntity(c, errors.ValidationRequired, "Guest delivery details are required")
	case stderrors.Is(err, service.ErrSettingsNotConfigured):
		errors.RespondWithError(c, http.StatusServiceUnavailable, errors.ConfigMissing,
			"The restaurant is not configured yet")
	default:
		log.Error(fallback, err)
		errors.InternalError(c, fallback)
	}
}
