package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/bellavista/bellavista-backend/internal/app/service"
	"github.com/bellavista/bellavista-backend/internal/errors"
	"github.com/bellavista/bellavista-backend/internal/middleware"
	"github.com/bellavista/bellavista-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type cartAdditionRequest struct {
	ItemID  uint `json:"item_id" binding:"required"`
	PriceID uint `json:"price_id" binding:"required"`
	// Omitted or non-positive quantities fall back to 1.
	Quantity *int `json:"quantity" binding:"omitempty,lte=999"`
}

type addToCartRequest struct {
	Items []cartAdditionRequest `json:"items" binding:"required,min=1,dive"`
}

type setQuantityRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	PriceID  uint `json:"price_id" binding:"required"`
	Quantity *int `json:"quantity" binding:"required,gte=0,lte=999"`
}

type removeCartItemRequest struct {
	ItemID  uint `json:"item_id" binding:"required"`
	PriceID uint `json:"price_id" binding:"required"`
}

type applyDiscountRequest struct {
	Code string `json:"code" binding:"required"`
}

// CreateGuestSession issues a fresh guest ID for anonymous carts.
// POST /api/v1/guest
func (ctrl *CartController) CreateGuestSession(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{
		"guest_id": util.NewGuestID(),
	})
}

// GetCart returns the aggregated, priced cart.
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	summary, err := ctrl.cartService.GetCart(owner)
	if err != nil {
		ctrl.respondCartError(c, err, "Failed to fetch cart")
		return
	}

	log.Debug("Cart fetched", map[string]interface{}{
		"groups": len(summary.Items),
	})
	c.JSON(http.StatusOK, cartSummaryResponse(summary))
}

// AddItems adds one or more item groups to the cart.
// POST /api/v1/cart/items
func (ctrl *CartController) AddItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	additions := make([]service.CartAddition, 0, len(req.Items))
	for _, item := range req.Items {
		quantity := 1
		if item.Quantity != nil && *item.Quantity > 0 {
			quantity = *item.Quantity
		}
		additions = append(additions, service.CartAddition{
			ItemID:   item.ItemID,
			PriceID:  item.PriceID,
			Quantity: quantity,
		})
	}

	summary, err := ctrl.cartService.AddItems(owner, additions)
	if err != nil {
		ctrl.respondCartError(c, err, "Failed to add items to cart")
		return
	}

	log.Info("Items added to cart", map[string]interface{}{
		"groups": len(additions),
	})
	c.JSON(http.StatusOK, cartSummaryResponse(summary))
}

// SetQuantity sets one group's quantity; zero removes the group.
// PUT /api/v1/cart/items
func (ctrl *CartController) SetQuantity(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	summary, err := ctrl.cartService.SetQuantity(owner, req.ItemID, req.PriceID, *req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, cartSummaryResponse(summary))
}

// RemoveItem removes one item group from the cart.
// DELETE /api/v1/cart/items
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	var req removeCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	summary, err := ctrl.cartService.RemoveItem(owner, req.ItemID, req.PriceID)
	if err != nil {
		ctrl.respondCartError(c, err, "Failed to remove cart item")
		return
	}
	c.JSON(http.StatusOK, cartSummaryResponse(summary))
}

// ApplyDiscount stamps a coupon code onto the cart.
// POST /api/v1/cart/discount
func (ctrl *CartController) ApplyDiscount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	var req applyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Discount code is required")
		return
	}

	summary, err := ctrl.cartService.ApplyDiscount(owner, req.Code)
	if err != nil {
		ctrl.respondCartError(c, err, "Failed to apply discount")
		return
	}

	log.Info("Discount applied", map[string]interface{}{
		"code": req.Code,
	})
	c.JSON(http.StatusOK, cartSummaryResponse(summary))
}

// RemoveDiscount clears the coupon from the cart.
// DELETE /api/v1/cart/discount
func (ctrl *CartController) RemoveDiscount(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	summary, err := ctrl.cartService.RemoveDiscount(owner)
	if err != nil {
		ctrl.respondCartError(c, err, "Failed to remove discount")
		return
	}
	c.JSON(http.StatusOK, cartSummaryResponse(summary))
}

// Clear empties the cart.
// DELETE /api/v1/cart
func (ctrl *CartController) Clear(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.Clear(owner); err != nil {
		errors.InternalError(c, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, fallback string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case stderrors.Is(err, service.ErrEmptyCart):
		errors.UnprocessableEntity(c, errors.CartEmpty, "The cart is empty")
	case stderrors.Is(err, service.ErrCartItemNotFound):
		errors.NotFound(c, errors.CartItemNotFound, "The item is not in the cart")
	case stderrors.Is(err, service.ErrItemNotFound):
		errors.NotFound(c, errors.CatalogItemNotFound, "The item is not available")
	case stderrors.Is(err, service.ErrInvalidItemPrice):
		errors.BadRequest(c, errors.CatalogInvalidReference, "The price does not belong to the item")
	case stderrors.Is(err, service.ErrInvalidQuantity):
		errors.BadRequest(c, errors.ValidationInvalidRange, "Quantity must be between 1 and 999")
	case stderrors.Is(err, service.ErrInvalidDiscountCode):
		errors.UnprocessableEntity(c, errors.DiscountInvalidCode, "The discount code is invalid or expired")
	default:
		log.Error(fallback, err)
		errors.InternalError(c, fallback)
	}
}
