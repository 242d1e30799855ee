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

type CityController struct {
	cityService service.CityService
}

func NewCityController(cityService service.CityService) *CityController {
	return &CityController{cityService: cityService}
}

type cityRequest struct {
	Name string `json:"name" binding:"required"`
}

// List returns the delivery zones.
// GET /api/v1/cities
func (ctrl *CityController) List(c *gin.Context) {
	cities, err := ctrl.cityService.List()
	if err != nil {
		errors.InternalError(c, "Failed to fetch cities")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cities": cities,
		"count":  len(cities),
	})
}

// Create adds a delivery zone.
// POST /api/v1/admin/cities
func (ctrl *CityController) Create(c *gin.Context) {
	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "City name is required")
		return
	}

	city, err := ctrl.cityService.Create(req.Name)
	if err != nil {
		ctrl.respondCityError(c, err, "Failed to create the city")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"city": city})
}

// Update renames a delivery zone.
// PUT /api/v1/admin/cities/:id
func (ctrl *CityController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid city ID")
		return
	}

	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "City name is required")
		return
	}

	city, err := ctrl.cityService.Update(uint(id), req.Name)
	if err != nil {
		ctrl.respondCityError(c, err, "Failed to update the city")
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city})
}

// Delete removes a delivery zone.
// DELETE /api/v1/admin/cities/:id
func (ctrl *CityController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid city ID")
		return
	}

	if err := ctrl.cityService.Delete(uint(id)); err != nil {
		ctrl.respondCityError(c, err, "Failed to delete the city")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "City deleted"})
}

func (ctrl *CityController) respondCityError(c *gin.Context, err error, fallback string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case stderrors.Is(err, service.ErrCityNotFound):
		errors.NotFound(c, errors.CityNotFound, "City not found")
	case stderrors.Is(err, service.ErrInvalidCity):
		errors.BadRequest(c, errors.ValidationInvalidInput, "City name is required")
	default:
		info := errors.ParseError(err, fallback)
		log.Error(fallback, err)
		errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
	}
}
