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

type DiscountController struct {
	discountService service.DiscountService
}

func NewDiscountController(discountService service.DiscountService) *DiscountController {
	return &DiscountController{discountService: discountService}
}

type createDiscountRequest struct {
	Code   string   `json:"code" binding:"required"`
	Amount *float64 `json:"amount" binding:"required,gte=0"`
	Status string   `json:"status"`
}

type updateDiscountRequest struct {
	Code   *string  `json:"code"`
	Amount *float64 `json:"amount"`
	Status *string  `json:"status"`
}

// List returns all discounts.
// GET /api/v1/admin/discounts
func (ctrl *DiscountController) List(c *gin.Context) {
	discounts, err := ctrl.discountService.List()
	if err != nil {
		errors.InternalError(c, "Failed to fetch discounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"discounts": discounts,
		"count":     len(discounts),
	})
}

// Create creates a discount.
// POST /api/v1/admin/discounts
func (ctrl *DiscountController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req createDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Code and a non-negative amount are required")
		return
	}

	discount, err := ctrl.discountService.Create(req.Code, *req.Amount, model.DiscountStatus(req.Status))
	if err != nil {
		ctrl.respondDiscountError(c, err, "Failed to create the discount")
		return
	}

	log.Info("Discount created", map[string]interface{}{
		"code": discount.Code,
	})
	c.JSON(http.StatusCreated, gin.H{"discount": discount})
}

// Update edits a discount.
// PUT /api/v1/admin/discounts/:id
func (ctrl *DiscountController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid discount ID")
		return
	}

	var req updateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	var status *model.DiscountStatus
	if req.Status != nil {
		s := model.DiscountStatus(*req.Status)
		status = &s
	}

	discount, err := ctrl.discountService.Update(uint(id), req.Code, req.Amount, status)
	if err != nil {
		ctrl.respondDiscountError(c, err, "Failed to update the discount")
		return
	}
	c.JSON(http.StatusOK, gin.H{"discount": discount})
}

// Delete removes a discount.
// DELETE /api/v1/admin/discounts/:id
func (ctrl *DiscountController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid discount ID")
		return
	}

	if err := ctrl.discountService.Delete(uint(id)); err != nil {
		ctrl.respondDiscountError(c, err, "Failed to delete the discount")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Discount deleted"})
}

func (ctrl *DiscountController) respondDiscountError(c *gin.Context, err error, fallback string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case stderrors.Is(err, service.ErrDiscountNotFound):
		errors.NotFound(c, errors.DiscountNotFound, "Discount not found")
	case stderrors.Is(err, service.ErrDiscountCodeExists):
		errors.Conflict(c, errors.DiscountCodeExists, "A discount with this code already exists")
	case stderrors.Is(err, service.ErrInvalidDiscount):
		errors.BadRequest(c, errors.ValidationInvalidInput, "Code and a non-negative amount are required")
	default:
		log.Error(fallback, err)
		errors.InternalError(c, fallback)
	}
}
