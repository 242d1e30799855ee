package service

import (
	"testing"

	"github.com/bellavista/bellavista-backend/internal/app/model"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"github.com/bellavista/bellavista-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type cartTestEnv struct {
	db       *gorm.DB
	service  CartService
	owner    model.Owner
	pizza    *model.Item
	salad    *model.Item
	hidden   *model.Item
	discount *model.Discount
}

// Fixtures: tax 10%, delivery 5. Pizza has medium (10) and large (14)
// variants, salad a single one (6), hidden is unpublished.
func setupCartServiceTest(t *testing.T) *cartTestEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	require.NoError(t, testDB.Create(&model.Restaurant{
		Name:           "Bella Vista",
		TaxPercent:     10,
		DeliveryCharge: 5,
	}).Error)

	category := &model.Category{Name: "Mains"}
	require.NoError(t, testDB.Create(category).Error)

	pizza := &model.Item{
		Name:       "Margherita",
		CategoryID: category.ID,
		Status:     model.ItemStatusPublished,
		Prices: []model.ItemPrice{
			{Size: "medium", Price: 10},
			{Size: "large", Price: 14},
		},
	}
	require.NoError(t, testDB.Create(pizza).Error)

	salad := &model.Item{
		Name:       "Caesar Salad",
		CategoryID: category.ID,
		Status:     model.ItemStatusPublished,
		Prices:     []model.ItemPrice{{Size: "regular", Price: 6}},
	}
	require.NoError(t, testDB.Create(salad).Error)

	hidden := &model.Item{
		Name:       "Secret Special",
		CategoryID: category.ID,
		Status:     model.ItemStatusUnpublished,
		Prices:     []model.ItemPrice{{Size: "regular", Price: 20}},
	}
	require.NoError(t, testDB.Create(hidden).Error)

	discount := &model.Discount{Code: "WELCOME5", Amount: 5, Status: model.DiscountStatusPublished}
	require.NoError(t, testDB.Create(discount).Error)

	svc := NewCartService(
		repository.NewCartRepository(testDB),
		repository.NewCatalogRepository(testDB),
		repository.NewDiscountRepository(testDB),
		repository.NewRestaurantRepository(testDB),
	)

	return &cartTestEnv{
		db:       testDB,
		service:  svc,
		owner:    model.GuestOwner("guest-test"),
		pizza:    pizza,
		salad:    salad,
		hidden:   hidden,
		discount: discount,
	}
}

func TestCartService_AddItemsGroupsByVariant(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	summary, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 2},
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[1].ID, Quantity: 1},
		{ItemID: env.salad.ID, PriceID: env.salad.Prices[0].ID, Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, summary.Items, 3)
	assert.Equal(t, "Margherita", summary.Items[0].Title)
	assert.Equal(t, "medium", summary.Items[0].Size)
	assert.Equal(t, 2, summary.Items[0].Quantity)
	assert.Equal(t, 1, summary.Items[1].Quantity)
	assert.Equal(t, "Caesar Salad", summary.Items[2].Title)

	// 2*10 + 14 + 6 = 40; tax 10% on items only; delivery 5.
	assert.Equal(t, 40.0, summary.Quote.ItemsPrice)
	assert.Equal(t, 4.0, summary.Quote.TaxAmount)
	assert.Equal(t, 49.0, summary.Quote.PayablePrice)
	assert.Empty(t, summary.Warnings)
}

func TestCartService_AddItemsMergesIntoExistingGroup(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 1},
	})
	require.NoError(t, err)

	summary, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 2},
	})
	require.NoError(t, err)

	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.Items[0].Quantity)
}

func TestCartService_AddItemsRejectsUnpublishedItem(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.hidden.ID, PriceID: env.hidden.Prices[0].ID, Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCartService_AddItemsRejectsMismatchedPrice(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.salad.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrInvalidItemPrice)
}

func TestCartService_AddItemsRejectsExcessiveQuantity(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: MaxLineQuantity + 1},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_SetQuantity(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 3},
	})
	require.NoError(t, err)

	summary, err := env.service.SetQuantity(env.owner, env.pizza.ID, env.pizza.Prices[0].ID, 1)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 1, summary.Items[0].Quantity)

	summary, err = env.service.SetQuantity(env.owner, env.pizza.ID, env.pizza.Prices[0].ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Items[0].Quantity)

	summary, err = env.service.SetQuantity(env.owner, env.pizza.ID, env.pizza.Prices[0].ID, 0)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}

// Setting a positive quantity for a group not yet in the cart adds it.
func TestCartService_SetQuantityAddsMissingGroup(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	summary, err := env.service.SetQuantity(env.owner, env.pizza.ID, env.pizza.Prices[0].ID, 2)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 2, summary.Items[0].Quantity)
	// 2*10 + 2 tax + 5 delivery
	assert.Equal(t, 27.0, summary.Quote.PayablePrice)
}

func TestCartService_SetQuantityZeroUnknownGroup(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.SetQuantity(env.owner, env.pizza.ID, env.pizza.Prices[0].ID, 0)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_SetQuantityRejectsMismatchedPrice(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.SetQuantity(env.owner, env.salad.ID, env.pizza.Prices[0].ID, 2)
	assert.ErrorIs(t, err, ErrInvalidItemPrice)
}

func TestCartService_SetQuantityCarriesCartCoupon(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.salad.ID, PriceID: env.salad.Prices[0].ID, Quantity: 1},
	})
	require.NoError(t, err)
	_, err = env.service.ApplyDiscount(env.owner, "WELCOME5")
	require.NoError(t, err)

	summary, err := env.service.SetQuantity(env.owner, env.pizza.ID, env.pizza.Prices[0].ID, 1)
	require.NoError(t, err)
	require.Len(t, summary.Items, 2)
	assert.Equal(t, "WELCOME5", summary.Quote.DiscountCode)
}

func TestCartService_RemoveItem(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 2},
		{ItemID: env.salad.ID, PriceID: env.salad.Prices[0].ID, Quantity: 1},
	})
	require.NoError(t, err)

	summary, err := env.service.RemoveItem(env.owner, env.pizza.ID, env.pizza.Prices[0].ID)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "Caesar Salad", summary.Items[0].Title)
}

func TestCartService_ApplyAndRemoveDiscount(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 1},
	})
	require.NoError(t, err)

	summary, err := env.service.ApplyDiscount(env.owner, "WELCOME5")
	require.NoError(t, err)
	assert.Equal(t, "WELCOME5", summary.Quote.DiscountCode)
	assert.Equal(t, 5.0, summary.Quote.DiscountAmount)
	// 10 + 1 tax + 5 delivery - 5 discount
	assert.Equal(t, 11.0, summary.Quote.PayablePrice)

	summary, err = env.service.RemoveDiscount(env.owner)
	require.NoError(t, err)
	assert.Empty(t, summary.Quote.DiscountCode)
	assert.Equal(t, 16.0, summary.Quote.PayablePrice)
}

func TestCartService_ApplyDiscountEmptyCart(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.ApplyDiscount(env.owner, "WELCOME5")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCartService_RemoveDiscountEmptyCart(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.RemoveDiscount(env.owner)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCartService_ApplyDiscountUnpublishedCode(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	require.NoError(t, env.db.Create(&model.Discount{
		Code: "RETIRED", Amount: 3, Status: model.DiscountStatusUnpublished,
	}).Error)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 1},
	})
	require.NoError(t, err)

	_, err = env.service.ApplyDiscount(env.owner, "RETIRED")
	assert.ErrorIs(t, err, ErrInvalidDiscountCode)
}

func TestCartService_DiscountCarriesOverToNewRows(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 1},
	})
	require.NoError(t, err)

	_, err = env.service.ApplyDiscount(env.owner, "WELCOME5")
	require.NoError(t, err)

	summary, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.salad.ID, PriceID: env.salad.Prices[0].ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME5", summary.Quote.DiscountCode)
}

func TestCartService_StaleCouponPricedWithoutIt(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 1},
	})
	require.NoError(t, err)

	_, err = env.service.ApplyDiscount(env.owner, "WELCOME5")
	require.NoError(t, err)

	// Coupon retired after being stamped onto the cart.
	require.NoError(t, env.db.Model(&model.Discount{}).
		Where("code = ?", "WELCOME5").
		Update("status", model.DiscountStatusUnpublished).Error)

	summary, err := env.service.GetCart(env.owner)
	require.NoError(t, err)
	assert.Empty(t, summary.Quote.DiscountCode)
	assert.Equal(t, 16.0, summary.Quote.PayablePrice)
	require.Len(t, summary.Warnings, 1)
	assert.Contains(t, summary.Warnings[0], "WELCOME5")
}

func TestCartService_UnpublishedItemSkippedWithWarning(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 1},
		{ItemID: env.salad.ID, PriceID: env.salad.Prices[0].ID, Quantity: 2},
	})
	require.NoError(t, err)

	// Salad pulled from the menu while sitting in the cart.
	require.NoError(t, env.db.Model(&model.Item{}).
		Where("id = ?", env.salad.ID).
		Update("status", model.ItemStatusUnpublished).Error)

	summary, err := env.service.GetCart(env.owner)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "Margherita", summary.Items[0].Title)
	assert.Equal(t, 16.0, summary.Quote.PayablePrice)
	require.Len(t, summary.Warnings, 1)
}

func TestCartService_LivePriceWinsOverCapturedPrice(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 1},
	})
	require.NoError(t, err)

	// Price raised after the row was captured.
	require.NoError(t, env.db.Model(&model.ItemPrice{}).
		Where("id = ?", env.pizza.Prices[0].ID).
		Update("price", 12).Error)

	summary, err := env.service.GetCart(env.owner)
	require.NoError(t, err)
	assert.Equal(t, 12.0, summary.Items[0].UnitPrice)
	assert.Equal(t, 12.0, summary.Quote.ItemsPrice)
}

// A cart must stay viewable before the restaurant settings row exists; tax
// and delivery price as zero until then.
func TestCartService_MissingSettingsPriceAsZero(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	require.NoError(t, env.db.Unscoped().
		Where("1 = 1").Delete(&model.Restaurant{}).Error)

	summary, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, summary.Quote.ItemsPrice)
	assert.Equal(t, 0.0, summary.Quote.TaxAmount)
	assert.Equal(t, 0.0, summary.Quote.DeliveryCharge)
	assert.Equal(t, 20.0, summary.Quote.PayablePrice)
}

func TestCartService_Clear(t *testing.T) {
	env := setupCartServiceTest(t)
	defer db.CleanupTestDB(env.db)

	_, err := env.service.AddItems(env.owner, []CartAddition{
		{ItemID: env.pizza.ID, PriceID: env.pizza.Prices[0].ID, Quantity: 2},
	})
	require.NoError(t, err)

	require.NoError(t, env.service.Clear(env.owner))

	summary, err := env.service.GetCart(env.owner)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.Equal(t, 0.0, summary.Quote.ItemsPrice)
}
