package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/bellavista/bellavista-backend/internal/app/service"
	"github.com/bellavista/bellavista-backend/internal/errors"
	"github.com/bellavista/bellavista-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{addressService: addressService}
}

type addressRequest struct {
	CityID uint   `json:"city_id"`
	Street string `json:"street"`
	House  string `json:"house"`
	Phone  string `json:"phone"`
	Note   string `json:"note"`
}

// List returns the user's saved addresses.
// GET /api/v1/addresses
func (ctrl *AddressController) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	addresses, err := ctrl.addressService.List(userID)
	if err != nil {
		errors.InternalError(c, "Failed to fetch addresses")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// Create saves a new address.
// POST /api/v1/addresses
func (ctrl *AddressController) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	address, err := ctrl.addressService.Create(userID, service.AddressInput{
		CityID: req.CityID,
		Street: req.Street,
		House:  req.House,
		Phone:  req.Phone,
		Note:   req.Note,
	})
	if err != nil {
		ctrl.respondAddressError(c, err, "Failed to save the address")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address": address})
}

// Update edits a saved address.
// PUT /api/v1/addresses/:id
func (ctrl *AddressController) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid address ID")
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	address, err := ctrl.addressService.Update(userID, uint(id), service.AddressInput{
		CityID: req.CityID,
		Street: req.Street,
		House:  req.House,
		Phone:  req.Phone,
		Note:   req.Note,
	})
	if err != nil {
		ctrl.respondAddressError(c, err, "Failed to update the address")
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": address})
}

// Delete removes a saved address.
// DELETE /api/v1/addresses/:id
func (ctrl *AddressController) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid address ID")
		return
	}

	if err := ctrl.addressService.Delete(userID, uint(id)); err != nil {
		ctrl.respondAddressError(c, err, "Failed to delete the address")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}

func (ctrl *AddressController) respondAddressError(c *gin.Context, err error, fallback string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case stderrors.Is(err, service.ErrAddressNotFound):
		errors.NotFound(c, errors.AddressNotFound, "Address not found")
	case stderrors.Is(err, service.ErrAddressAccessDenied):
		errors.Forbidden(c, "This address belongs to another user")
	case stderrors.Is(err, service.ErrCityNotFound):
		errors.NotFound(c, errors.CityNotFound, "We do not deliver to this city")
	case stderrors.Is(err, service.ErrInvalidAddress):
		errors.BadRequest(c, errors.ValidationRequired, "Street, phone and city are required")
	default:
		log.Error(fallback, err)
		errors.InternalError(c, fallback)
	}
}
