package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"github.com/bellavista/bellavista-backend/internal/app/service"
	"github.com/bellavista/bellavista-backend/internal/db"
	"github.com/bellavista/bellavista-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*gin.Engine, *gorm.DB, *model.User, *model.Item) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	require.NoError(t, testDB.Create(&model.Restaurant{
		Name:           "Bella Vista",
		TaxPercent:     10,
		DeliveryCharge: 5,
	}).Error)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	category := &model.Category{Name: "Pizza"}
	testDB.Create(category)

	item := &model.Item{
		Name:       "Margherita",
		CategoryID: category.ID,
		Status:     model.ItemStatusPublished,
		Prices: []model.ItemPrice{
			{Size: "medium", Price: 10},
			{Size: "large", Price: 14},
		},
	}
	testDB.Create(item)

	testDB.Create(&model.Discount{Code: "WELCOME5", Amount: 5, Status: model.DiscountStatusPublished})

	cartService := service.NewCartService(
		repository.NewCartRepository(testDB),
		repository.NewCatalogRepository(testDB),
		repository.NewDiscountRepository(testDB),
		repository.NewRestaurantRepository(testDB),
	)
	controller := NewCartController(cartService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/cart", controller.GetCart)
	router.DELETE("/cart", controller.Clear)
	router.POST("/cart/items", controller.AddItems)
	router.PUT("/cart/items", controller.SetQuantity)
	router.DELETE("/cart/items", controller.RemoveItem)
	router.POST("/cart/discount", controller.ApplyDiscount)
	router.DELETE("/cart/discount", controller.RemoveDiscount)

	// Registered-owner routes.
	authed := router.Group("/me", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
	})
	authed.GET("/cart", controller.GetCart)
	authed.POST("/cart/items", controller.AddItems)

	return router, testDB, user, item
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCartController_OwnerRequired(t *testing.T) {
	router, _, _, _ := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "guest_id")
}

func TestCartController_GuestAddAndGet(t *testing.T) {
	router, _, _, item := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/cart/items?guest_id=g1", gin.H{
		"items": []gin.H{
			{"item_id": item.ID, "price_id": item.Prices[0].ID, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	items := response["items"].([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "Margherita", first["title"])
	assert.Equal(t, float64(2), first["quantity"])

	// 2*10 + 10% tax + 5 delivery
	assert.Equal(t, float64(20), response["items_price"])
	assert.Equal(t, float64(27), response["payable_price"])

	// Another guest's cart stays empty.
	w = doJSON(t, router, http.MethodGet, "/cart?guest_id=g2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response["items"])
}

func TestCartController_RegisteredUserCart(t *testing.T) {
	router, _, _, item := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/me/cart/items", gin.H{
		"items": []gin.H{
			{"item_id": item.ID, "price_id": item.Prices[1].ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/me/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	items := response["items"].([]interface{})
	require.Len(t, items, 1)
}

func TestCartController_AddItemsValidation(t *testing.T) {
	router, _, _, item := setupCartControllerTest(t)

	// Empty items list fails binding.
	w := doJSON(t, router, http.MethodPost, "/cart/items?guest_id=g1", gin.H{
		"items": []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown price.
	w = doJSON(t, router, http.MethodPost, "/cart/items?guest_id=g1", gin.H{
		"items": []gin.H{
			{"item_id": item.ID, "price_id": 9999, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CATALOG_INVALID_REFERENCE")
}

// Omitted and non-positive quantities both default to one unit.
func TestCartController_AddItemsDefaultQuantity(t *testing.T) {
	router, _, _, item := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/cart/items?guest_id=g1", gin.H{
		"items": []gin.H{
			{"item_id": item.ID, "price_id": item.Prices[0].ID},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/cart/items?guest_id=g1", gin.H{
		"items": []gin.H{
			{"item_id": item.ID, "price_id": item.Prices[0].ID, "quantity": 0},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []struct {
			Quantity int `json:"quantity"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
}

func TestCartController_SetQuantityAndRemove(t *testing.T) {
	router, _, _, item := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/cart/items?guest_id=g1", gin.H{
		"items": []gin.H{
			{"item_id": item.ID, "price_id": item.Prices[0].ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/cart/items?guest_id=g1", gin.H{
		"item_id": item.ID, "price_id": item.Prices[0].ID, "quantity": 4,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	first := response["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(4), first["quantity"])

	w = doJSON(t, router, http.MethodDelete, "/cart/items?guest_id=g1", gin.H{
		"item_id": item.ID, "price_id": item.Prices[0].ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response["items"])
}

func TestCartController_RemoveMissingItem(t *testing.T) {
	router, _, _, item := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodDelete, "/cart/items?guest_id=g1", gin.H{
		"item_id": item.ID, "price_id": item.Prices[0].ID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CART_ITEM_NOT_FOUND")
}

func TestCartController_DiscountFlow(t *testing.T) {
	router, _, _, item := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/cart/items?guest_id=g1", gin.H{
		"items": []gin.H{
			{"item_id": item.ID, "price_id": item.Prices[0].ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/cart/discount?guest_id=g1", gin.H{"code": "WELCOME5"})
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	discount := response["discount"].(map[string]interface{})
	assert.Equal(t, "WELCOME5", discount["coupon"])
	assert.Equal(t, float64(5), discount["amount"])

	// Unknown code.
	w = doJSON(t, router, http.MethodPost, "/cart/discount?guest_id=g1", gin.H{"code": "NOPE"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "DISCOUNT_INVALID_CODE")

	w = doJSON(t, router, http.MethodDelete, "/cart/discount?guest_id=g1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	discount = response["discount"].(map[string]interface{})
	assert.Equal(t, "", discount["coupon"])
}

func TestCartController_CreateGuestSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/guest", NewCartController(nil).CreateGuestSession)

	w := doJSON(t, router, http.MethodPost, "/guest", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response["guest_id"])
}
