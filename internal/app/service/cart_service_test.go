package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/internal/db"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Name:          "Basic Tee",
		Price:         25,
		Category:      model.CategoryTShirts,
		Gender:        model.GenderUnisex,
		Sizes:         []string{"S", "M", "L"},
		Colors:        []string{"black", "white"},
		StockQuantity: 10,
		IsActive:      true,
	}
	require.NoError(t, testDB.Create(product).Error)

	return cartService, testDB, user, product
}

func TestCartService_AddToCart_Success(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, "M", "black", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 25.0, item.PriceSnapshot)
}

func TestCartService_AddToCart_MergesSameLine(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, "M", "black", 2)
	require.NoError(t, err)

	item, err := cartService.AddToCart(user.ID, product.ID, "M", "black", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	summary, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 1)
}

func TestCartService_AddToCart_DifferentVariantNewLine(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, "M", "black", 1)
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, product.ID, "L", "black", 1)
	require.NoError(t, err)

	summary, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 2)
}

func TestCartService_AddToCart_ProductNotFound(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, 9999, "M", "black", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddToCart_InactiveProduct(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	require.NoError(t, testDB.Model(product).Update("is_active", false).Error)

	_, err := cartService.AddToCart(user.ID, product.ID, "M", "black", 1)
	assert.ErrorIs(t, err, ErrProductInactive)
}

func TestCartService_AddToCart_UnknownVariant(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, "XXL", "black", 1)
	assert.ErrorIs(t, err, ErrInvalidVariant)

	_, err = cartService.AddToCart(user.ID, product.ID, "M", "purple", 1)
	assert.ErrorIs(t, err, ErrInvalidVariant)
}

func TestCartService_AddToCart_InvalidQuantity(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, "M", "black", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_GetCart_Totals(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, "M", "black", 2)
	require.NoError(t, err)

	summary, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, summary.Subtotal)
	assert.Equal(t, FlatShippingFee, summary.Shipping)
	assert.Equal(t, 60.0, summary.Total)
}

func TestCartService_GetCart_FreeShippingOverThreshold(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, "M", "black", 3)
	require.NoError(t, err)

	summary, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, summary.Subtotal)
	assert.Equal(t, 0.0, summary.Shipping)
	assert.Equal(t, 75.0, summary.Total)
}

func TestCartService_GetCart_EmptyHasNoShipping(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	summary, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 0)
	assert.Equal(t, 0.0, summary.Shipping)
	assert.Equal(t, 0.0, summary.Total)
}

func TestCartService_GetCart_UsesPriceSnapshot(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, "M", "black", 2)
	require.NoError(t, err)

	// A later price change does not affect lines already in the cart
	require.NoError(t, testDB.Model(product).Update("price", 40).Error)

	summary, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, summary.Subtotal)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, "M", "black", 2)
	require.NoError(t, err)

	summary, err := cartService.UpdateQuantity(user.ID, item.ID, 4)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 4, summary.Items[0].Quantity)
}

func TestCartService_UpdateQuantity_ZeroRemovesLine(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, "M", "black", 2)
	require.NoError(t, err)

	summary, err := cartService.UpdateQuantity(user.ID, item.ID, 0)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 0)
}

func TestCartService_UpdateQuantity_OtherUsersItem(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, "M", "black", 2)
	require.NoError(t, err)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	require.NoError(t, testDB.Create(other).Error)

	_, err = cartService.UpdateQuantity(other.ID, item.ID, 4)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, "M", "black", 2)
	require.NoError(t, err)

	require.NoError(t, cartService.RemoveItem(user.ID, item.ID))

	summary, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 0)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, "S", "black", 1)
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, product.ID, "M", "black", 1)
	require.NoError(t, err)

	require.NoError(t, cartService.ClearCart(user.ID))

	summary, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 0)
}
