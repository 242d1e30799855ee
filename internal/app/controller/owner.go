package controller

import (
	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/service"
	"github.com/bellavista/bellavista-backend/internal/errors"
	"github.com/bellavista/bellavista-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// resolveOwner picks the cart/order owner for the request. An authenticated
// user always wins; anonymous requests must carry a guest_id query parameter.
func resolveOwner(c *gin.Context) (model.Owner, bool) {
	if userID, ok := middleware.GetUserID(c); ok {
		return model.RegisteredOwner(userID), true
	}
	if guestID := c.Query("guest_id"); guestID != "" {
		return model.GuestOwner(guestID), true
	}
	return model.Owner{}, false
}

// requireOwner resolves the owner or writes the error response.
func requireOwner(c *gin.Context) (model.Owner, bool) {
	owner, ok := resolveOwner(c)
	if !ok {
		errors.UnprocessableEntity(c, errors.ValidationOwnerRequired,
			"Log in or provide a guest_id")
	}
	return owner, ok
}

// cartSummaryResponse renders the aggregated cart in the public API shape.
func cartSummaryResponse(summary *service.CartSummary) gin.H {
	items := make([]gin.H, 0, len(summary.Items))
	for _, item := range summary.Items {
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

	q := summary.Quote
	return gin.H{
		"items":       items,
		"items_price": q.ItemsPrice,
		"discount": gin.H{
			"coupon": q.DiscountCode,
			"amount": q.DiscountAmount,
		},
		"charges": gin.H{
			"tax":              q.TaxPercent,
			"tax_price":        q.TaxAmount,
			"delivery_charges": q.DeliveryCharge,
		},
		"payable_price": q.PayablePrice,
		"warnings":      summary.Warnings,
	}
}
