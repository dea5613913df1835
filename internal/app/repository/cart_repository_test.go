package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/db"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := NewCartRepository(testDB)

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
		Colors:        []string{"black"},
		StockQuantity: 10,
		IsActive:      true,
	}
	require.NoError(t, testDB.Create(product).Error)

	return testDB, repo, user, product
}

func TestCartRepository_Create(t *testing.T) {
	_, repo, user, product := setupCartTest(t)

	item := &model.CartItem{
		UserID:        user.ID,
		ProductID:     product.ID,
		Size:          "M",
		Color:         "black",
		Quantity:      2,
		PriceSnapshot: product.Price,
	}

	err := repo.Create(item)
	assert.NoError(t, err)
	assert.NotZero(t, item.ID)
}

func TestCartRepository_FindByUser(t *testing.T) {
	_, repo, user, product := setupCartTest(t)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Size: "S", Color: "black", Quantity: 2, PriceSnapshot: 25}))
	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Size: "M", Color: "black", Quantity: 1, PriceSnapshot: 25}))

	items, err := repo.FindByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Basic Tee", items[0].Product.Name)
}

func TestCartRepository_FindLine(t *testing.T) {
	_, repo, user, product := setupCartTest(t)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Size: "M", Color: "black", Quantity: 2, PriceSnapshot: 25}))

	found, err := repo.FindLine(user.ID, product.ID, "M", "black")
	require.NoError(t, err)
	assert.Equal(t, 2, found.Quantity)

	// A different variant is a different line
	_, err = repo.FindLine(user.ID, product.ID, "L", "black")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_Update(t *testing.T) {
	_, repo, user, product := setupCartTest(t)

	item := &model.CartItem{UserID: user.ID, ProductID: product.ID, Size: "M", Color: "black", Quantity: 2, PriceSnapshot: 25}
	require.NoError(t, repo.Create(item))

	item.Quantity = 5
	require.NoError(t, repo.Update(item))

	found, err := repo.FindByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)
}

func TestCartRepository_Delete(t *testing.T) {
	_, repo, user, product := setupCartTest(t)

	item := &model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1, PriceSnapshot: 25}
	require.NoError(t, repo.Create(item))

	require.NoError(t, repo.Delete(item.ID))

	_, err := repo.FindByID(item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_DeleteByUser(t *testing.T) {
	_, repo, user, product := setupCartTest(t)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Size: "S", Quantity: 1, PriceSnapshot: 25}))
	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Size: "M", Quantity: 1, PriceSnapshot: 25}))

	require.NoError(t, repo.DeleteByUser(user.ID))

	items, err := repo.FindByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}
