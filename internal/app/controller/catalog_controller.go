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

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

type priceRequest struct {
	Size  string   `json:"size"`
	Price *float64 `json:"price" binding:"required,gte=0"`
}

type createItemRequest struct {
	Name       string         `json:"name" binding:"required"`
	Details    string         `json:"details"`
	Thumbnail  string         `json:"thumbnail"`
	CategoryID uint           `json:"category_id" binding:"required"`
	Status     string         `json:"status"`
	Prices     []priceRequest `json:"prices" binding:"required,min=1,dive"`
}

type updateItemRequest struct {
	Name       string `json:"name"`
	Details    string `json:"details"`
	Thumbnail  string `json:"thumbnail"`
	CategoryID uint   `json:"category_id"`
	Status     string `json:"status"`
}

type categoryRequest struct {
	Name      string `json:"name" binding:"required"`
	Thumbnail string `json:"thumbnail"`
}

// ListItems returns the menu, optionally filtered by category. Admins can
// pass include_unpublished=true to see hidden items.
// GET /api/v1/items
func (ctrl *CatalogController) ListItems(c *gin.Context) {
	var categoryID *uint
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			errors.BadRequest(c, errors.ValidationInvalidID, "Invalid category ID")
			return
		}
		id := uint(parsed)
		categoryID = &id
	}

	includeUnpublished := c.Query("include_unpublished") == "true" && middleware.IsAdmin(c)

	items, err := ctrl.catalogService.ListItems(categoryID, includeUnpublished)
	if err != nil {
		errors.InternalError(c, "Failed to fetch the menu")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetItem returns one menu item with its price variants.
// GET /api/v1/items/:id
func (ctrl *CatalogController) GetItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid item ID")
		return
	}

	item, err := ctrl.catalogService.GetItem(uint(id))
	if err != nil {
		ctrl.respondCatalogError(c, err, "Failed to fetch the item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreateItem creates a menu item with its price variants.
// POST /api/v1/admin/items
func (ctrl *CatalogController) CreateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Name, category and at least one price are required")
		return
	}

	prices := make([]service.PriceInput, 0, len(req.Prices))
	for _, p := range req.Prices {
		prices = append(prices, service.PriceInput{Size: p.Size, Price: *p.Price})
	}

	item, err := ctrl.catalogService.CreateItem(service.ItemInput{
		Name:       req.Name,
		Details:    req.Details,
		Thumbnail:  req.Thumbnail,
		CategoryID: req.CategoryID,
		Status:     model.ItemStatus(req.Status),
	}, prices)
	if err != nil {
		ctrl.respondCatalogError(c, err, "Failed to create the item")
		return
	}

	log.Info("Item created", map[string]interface{}{
		"item_id": item.ID,
	})
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateItem updates a menu item.
// PUT /api/v1/admin/items/:id
func (ctrl *CatalogController) UpdateItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid item ID")
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	item, err := ctrl.catalogService.UpdateItem(uint(id), service.ItemInput{
		Name:       req.Name,
		Details:    req.Details,
		Thumbnail:  req.Thumbnail,
		CategoryID: req.CategoryID,
		Status:     model.ItemStatus(req.Status),
	})
	if err != nil {
		ctrl.respondCatalogError(c, err, "Failed to update the item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem removes a menu item.
// DELETE /api/v1/admin/items/:id
func (ctrl *CatalogController) DeleteItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid item ID")
		return
	}

	if err := ctrl.catalogService.DeleteItem(uint(id)); err != nil {
		ctrl.respondCatalogError(c, err, "Failed to delete the item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// AddPrice adds a price variant to an item.
// POST /api/v1/admin/items/:id/prices
func (ctrl *CatalogController) AddPrice(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid item ID")
		return
	}

	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "A non-negative price is required")
		return
	}

	price, err := ctrl.catalogService.AddPrice(uint(itemID), service.PriceInput{Size: req.Size, Price: *req.Price})
	if err != nil {
		ctrl.respondCatalogError(c, err, "Failed to add the price")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"price": price})
}

// UpdatePrice updates a price variant.
// PUT /api/v1/admin/prices/:id
func (ctrl *CatalogController) UpdatePrice(c *gin.Context) {
	priceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid price ID")
		return
	}

	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "A non-negative price is required")
		return
	}

	price, err := ctrl.catalogService.UpdatePrice(uint(priceID), service.PriceInput{Size: req.Size, Price: *req.Price})
	if err != nil {
		ctrl.respondCatalogError(c, err, "Failed to update the price")
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": price})
}

// DeletePrice removes a price variant.
// DELETE /api/v1/admin/prices/:id
func (ctrl *CatalogController) DeletePrice(c *gin.Context) {
	priceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid price ID")
		return
	}

	if err := ctrl.catalogService.DeletePrice(uint(priceID)); err != nil {
		ctrl.respondCatalogError(c, err, "Failed to delete the price")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Price deleted"})
}

// ListCategories returns all menu categories.
// GET /api/v1/categories
func (ctrl *CatalogController) ListCategories(c *gin.Context) {
	categories, err := ctrl.catalogService.ListCategories()
	if err != nil {
		errors.InternalError(c, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory creates a menu category.
// POST /api/v1/admin/categories
func (ctrl *CatalogController) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Category name is required")
		return
	}

	category, err := ctrl.catalogService.CreateCategory(req.Name, req.Thumbnail)
	if err != nil {
		ctrl.respondCatalogError(c, err, "Failed to create the category")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory updates a menu category.
// PUT /api/v1/admin/categories/:id
func (ctrl *CatalogController) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid category ID")
		return
	}

	var req struct {
		Name      *string `json:"name"`
		Thumbnail *string `json:"thumbnail"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	category, err := ctrl.catalogService.UpdateCategory(uint(id), req.Name, req.Thumbnail)
	if err != nil {
		ctrl.respondCatalogError(c, err, "Failed to update the category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory removes a menu category.
// DELETE /api/v1/admin/categories/:id
func (ctrl *CatalogController) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid category ID")
		return
	}

	if err := ctrl.catalogService.DeleteCategory(uint(id)); err != nil {
		ctrl.respondCatalogError(c, err, "Failed to delete the category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

func (ctrl *CatalogController) respondCatalogError(c *gin.Context, err error, fallback string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case stderrors.Is(err, service.ErrCatalogItemNotFound):
		errors.NotFound(c, errors.CatalogItemNotFound, "Item not found")
	case stderrors.Is(err, service.ErrCatalogPriceNotFound):
		errors.NotFound(c, errors.CatalogPriceNotFound, "Price not found")
	case stderrors.Is(err, service.ErrCategoryNotFound):
		errors.NotFound(c, errors.CatalogCategoryNotFound, "Category not found")
	case stderrors.Is(err, service.ErrInvalidCatalogInput):
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid catalog data")
	default:
		info := errors.ParseError(err, fallback)
		log.Error(fallback, err)
		errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
	}
}
