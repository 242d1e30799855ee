package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bellavista/bellavista-backend/config"
	"github.com/bellavista/bellavista-backend/internal/app/controller"
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

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	catalogRepo := repository.NewCatalogRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	discountRepo := repository.NewDiscountRepository(testDB)
	restaurantRepo := repository.NewRestaurantRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	cityRepo := repository.NewCityRepository(testDB)

	jwtCfg := &config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: 15 * time.Minute}
	authService := service.NewAuthService(userRepo, jwtCfg)
	catalogService := service.NewCatalogService(catalogRepo, categoryRepo)
	cartService := service.NewCartService(cartRepo, catalogRepo, discountRepo, restaurantRepo)
	orderService := service.NewOrderService(
		testDB, orderRepo, cartRepo, discountRepo, restaurantRepo,
		addressRepo, cityRepo, nil, nil)

	authController := controller.NewAuthController(authService)
	catalogController := controller.NewCatalogController(catalogService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)

	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()
	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.GetProfile)
	}

	api.POST("/guest", cartController.CreateGuestSession)
	api.GET("/items", catalogController.ListItems)

	cart := api.Group("/cart", authMiddleware.OptionalAuthenticate())
	{
		cart.GET("", cartController.GetCart)
		cart.POST("/items", cartController.AddItems)
		cart.POST("/discount", cartController.ApplyDiscount)
	}

	orders := api.Group("/orders", authMiddleware.OptionalAuthenticate())
	{
		orders.POST("", orderController.PlaceOrder)
		orders.GET("", orderController.ListOrders)
		orders.GET("/:id", orderController.GetOrder)
	}

	admin := api.Group("/admin", authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"))
	{
		admin.GET("/orders", orderController.ListAllOrders)
		admin.PATCH("/orders/:id/status", orderController.UpdateStatus)
	}

	// Seed the restaurant, menu and a coupon.
	require.NoError(t, testDB.Create(&model.Restaurant{
		Name:           "Bella Vista",
		TaxPercent:     10,
		DeliveryCharge: 5,
	}).Error)

	city := &model.City{Name: "Springfield"}
	require.NoError(t, testDB.Create(city).Error)

	category := &model.Category{Name: "Pizza"}
	require.NoError(t, testDB.Create(category).Error)
	require.NoError(t, testDB.Create(&model.Item{
		Name:       "Margherita",
		CategoryID: category.ID,
		Status:     model.ItemStatusPublished,
		Prices: []model.ItemPrice{
			{Size: "medium", Price: 10},
			{Size: "large", Price: 14},
		},
	}).Error)
	require.NoError(t, testDB.Create(&model.Discount{
		Code: "WELCOME5", Amount: 5, Status: model.DiscountStatusPublished,
	}).Error)

	return &TestServer{Router: router, DB: testDB}
}

func (ts *TestServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

// Guest journey: session, browse, fill a cart, apply a coupon, check out.
func TestGuestOrderFlow(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.request(t, http.MethodPost, "/api/v1/guest", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	guestID := decode(t, w)["guest_id"].(string)
	require.NotEmpty(t, guestID)

	w = ts.request(t, http.MethodGet, "/api/v1/items", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	itemID := uint(item["id"].(float64))
	prices := item["prices"].([]interface{})
	priceID := uint(prices[0].(map[string]interface{})["id"].(float64))

	w = ts.request(t, http.MethodPost, "/api/v1/cart/items?guest_id="+guestID, "", gin.H{
		"items": []gin.H{{"item_id": itemID, "price_id": priceID, "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, http.MethodPost, "/api/v1/cart/discount?guest_id="+guestID, "", gin.H{
		"code": "WELCOME5",
	})
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode(t, w)
	// 2*10 + 2 tax + 5 delivery - 5 coupon
	assert.Equal(t, float64(22), cart["payable_price"])

	var city model.City
	require.NoError(t, ts.DB.First(&city).Error)

	w = ts.request(t, http.MethodPost, "/api/v1/orders?guest_id="+guestID, "", gin.H{
		"guest": gin.H{
			"name":    "Walk In",
			"phone":   "555-0202",
			"city_id": city.ID,
			"street":  "Main St",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	order := decode(t, w)
	assert.Equal(t, float64(22), order["payable_price"])
	assert.Equal(t, "pending", order["status"])

	// Cart is consumed.
	w = ts.request(t, http.MethodGet, "/api/v1/cart?guest_id="+guestID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["items"])
}

// Registered journey: register, fill a cart as the user, check out to a saved
// address, then an admin advances the order.
func TestRegisteredOrderFlow(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "diner@example.com",
		"password": "password123",
		"name":     "Diner",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	registered := decode(t, w)
	token := registered["token"].(string)
	userID := uint(registered["user"].(map[string]interface{})["id"].(float64))

	var city model.City
	require.NoError(t, ts.DB.First(&city).Error)
	address := &model.Address{
		UserID: userID,
		CityID: city.ID,
		Street: "Evergreen Terrace",
		House:  "742",
		Phone:  "555-0101",
	}
	require.NoError(t, ts.DB.Create(address).Error)

	var price model.ItemPrice
	require.NoError(t, ts.DB.First(&price).Error)

	w = ts.request(t, http.MethodPost, "/api/v1/cart/items", token, gin.H{
		"items": []gin.H{{"item_id": price.ItemID, "price_id": price.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, http.MethodPost, "/api/v1/orders", token, gin.H{
		"address_id": address.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := int(decode(t, w)["id"].(float64))

	w = ts.request(t, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	// A plain user cannot touch admin routes.
	w = ts.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/orders/%d/status", orderID), token, gin.H{
		"status": "cooking",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Promote to admin and retry with a fresh token.
	require.NoError(t, ts.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("role", model.RoleAdmin).Error)
	w = ts.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "diner@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	adminToken := decode(t, w)["token"].(string)

	w = ts.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/orders/%d/status", orderID), adminToken, gin.H{
		"status": "cooking",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cooking", decode(t, w)["status"])
}
