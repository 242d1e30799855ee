package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/bellavista/bellavista-backend/internal/app/service"
	"github.com/bellavista/bellavista-backend/internal/errors"
	"github.com/bellavista/bellavista-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type RestaurantController struct {
	restaurantService service.RestaurantService
}

func NewRestaurantController(restaurantService service.RestaurantService) *RestaurantController {
	return &RestaurantController{restaurantService: restaurantService}
}

type updateSettingsRequest struct {
	Name           *string  `json:"name"`
	Phone          *string  `json:"phone"`
	Email          *string  `json:"email"`
	AddressLine    *string  `json:"address_line"`
	OpensAt        *string  `json:"opens_at"`
	ClosesAt       *string  `json:"closes_at"`
	TaxPercent     *float64 `json:"tax_percent"`
	DeliveryCharge *float64 `json:"delivery_charge"`
}

// GetSettings returns the restaurant settings.
// GET /api/v1/restaurant
func (ctrl *RestaurantController) GetSettings(c *gin.Context) {
	settings, err := ctrl.restaurantService.GetSettings()
	if err != nil {
		if stderrors.Is(err, service.ErrSettingsNotConfigured) {
			errors.RespondWithError(c, http.StatusServiceUnavailable, errors.ConfigMissing,
				"The restaurant is not configured yet")
			return
		}
		errors.InternalError(c, "Failed to fetch restaurant settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": settings})
}

// UpdateSettings edits the restaurant settings.
// PUT /api/v1/admin/restaurant
func (ctrl *RestaurantController) UpdateSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if req.TaxPercent != nil && (*req.TaxPercent < 0 || *req.TaxPercent > 100) {
		errors.BadRequest(c, errors.ValidationInvalidRange, "Tax percent must be between 0 and 100")
		return
	}
	if req.DeliveryCharge != nil && *req.DeliveryCharge < 0 {
		errors.BadRequest(c, errors.ValidationInvalidRange, "Delivery charge must not be negative")
		return
	}

	settings, err := ctrl.restaurantService.UpdateSettings(service.RestaurantSettingsUpdate{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		AddressLine:    req.AddressLine,
		OpensAt:        req.OpensAt,
		ClosesAt:       req.ClosesAt,
		TaxPercent:     req.TaxPercent,
		DeliveryCharge: req.DeliveryCharge,
	})
	if err != nil {
		log.Error("Failed to update restaurant settings", err)
		errors.InternalError(c, "Failed to update restaurant settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": settings})
}
