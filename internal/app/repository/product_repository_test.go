package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/db"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return testDB, NewProductRepository(testDB)
}

func seedProduct(t *testing.T, testDB *gorm.DB, name string, price float64, mods ...func(*model.Product)) *model.Product {
	product := &model.Product{
		Name:          name,
		Price:         price,
		Category:      model.CategoryTShirts,
		Gender:        model.GenderUnisex,
		StockQuantity: 10,
		IsActive:      true,
	}
	for _, mod := range mods {
		mod(product)
	}
	// GORM omits zero-value fields with a default tag on insert (the column's
	// default:true wins) and writes the stored value back into the struct, so
	// capture the declared state first and persist it explicitly if needed.
	wantActive := product.IsActive
	require.NoError(t, testDB.Create(product).Error)
	if !wantActive {
		require.NoError(t, testDB.Model(product).Update("is_active", false).Error)
		product.IsActive = false
	}
	return product
}

func TestProductRepository_Create(t *testing.T) {
	_, repo := setupProductTest(t)

	product := &model.Product{
		Name:          "Basic Tee",
		Price:         25,
		Category:      model.CategoryTShirts,
		Gender:        model.GenderMen,
		Sizes:         []string{"S", "M", "L"},
		Colors:        []string{"black", "white"},
		StockQuantity: 50,
		IsActive:      true,
	}

	err := repo.Create(product)
	assert.NoError(t, err)
	assert.NotZero(t, product.ID)
}

func TestProductRepository_FindByID(t *testing.T) {
	testDB, repo := setupProductTest(t)
	product := seedProduct(t, testDB, "Basic Tee", 25)

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
	assert.Equal(t, "Basic Tee", found.Name)
}

func TestProductRepository_FindByID_NotFound(t *testing.T) {
	_, repo := setupProductTest(t)

	_, err := repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_FindWithFilter_Category(t *testing.T) {
	testDB, repo := setupProductTest(t)
	seedProduct(t, testDB, "Tee", 25)
	seedProduct(t, testDB, "Sneaker", 90, func(p *model.Product) { p.Category = model.CategoryShoes })

	shoes := model.CategoryShoes
	products, total, err := repo.FindWithFilter(ProductFilter{Category: &shoes, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Sneaker", products[0].Name)
}

func TestProductRepository_FindWithFilter_PriceRange(t *testing.T) {
	testDB, repo := setupProductTest(t)
	seedProduct(t, testDB, "Cheap", 10)
	seedProduct(t, testDB, "Mid", 50)
	seedProduct(t, testDB, "Expensive", 200)

	min := 20.0
	max := 100.0
	products, total, err := repo.FindWithFilter(ProductFilter{MinPrice: &min, MaxPrice: &max, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Mid", products[0].Name)
}

func TestProductRepository_FindWithFilter_Search(t *testing.T) {
	testDB, repo := setupProductTest(t)
	seedProduct(t, testDB, "Denim Jacket", 120)
	seedProduct(t, testDB, "Wool Coat", 200)

	products, total, err := repo.FindWithFilter(ProductFilter{Search: "denim", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Denim Jacket", products[0].Name)
}

func TestProductRepository_FindWithFilter_HidesInactive(t *testing.T) {
	testDB, repo := setupProductTest(t)
	seedProduct(t, testDB, "Visible", 25)
	seedProduct(t, testDB, "Hidden", 25, func(p *model.Product) { p.IsActive = false })

	products, total, err := repo.FindWithFilter(ProductFilter{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Visible", products[0].Name)

	// Admin view includes hidden products
	_, total, err = repo.FindWithFilter(ProductFilter{IncludeHidden: true, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestProductRepository_FindWithFilter_Pagination(t *testing.T) {
	testDB, repo := setupProductTest(t)
	for i := 0; i < 5; i++ {
		seedProduct(t, testDB, "Tee", 25)
	}

	products, total, err := repo.FindWithFilter(ProductFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, products, 1)
}

func TestProductRepository_FindWithFilter_SortByPrice(t *testing.T) {
	testDB, repo := setupProductTest(t)
	seedProduct(t, testDB, "Mid", 50)
	seedProduct(t, testDB, "Cheap", 10)
	seedProduct(t, testDB, "Expensive", 200)

	products, _, err := repo.FindWithFilter(ProductFilter{SortBy: ProductSortPrice, SortAscending: true, Limit: 20})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Cheap", products[0].Name)
	assert.Equal(t, "Expensive", products[2].Name)
}

func TestProductRepository_FindFeatured(t *testing.T) {
	testDB, repo := setupProductTest(t)
	seedProduct(t, testDB, "Plain", 25)
	seedProduct(t, testDB, "Star", 25, func(p *model.Product) { p.IsFeatured = true })
	seedProduct(t, testDB, "Hidden Star", 25, func(p *model.Product) {
		p.IsFeatured = true
		p.IsActive = false
	})

	products, err := repo.FindFeatured(10)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Star", products[0].Name)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB, repo := setupProductTest(t)
	product := seedProduct(t, testDB, "Tee", 25)

	err := repo.Delete(product.ID)
	require.NoError(t, err)

	_, err = repo.FindByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_RecomputePopularity(t *testing.T) {
	testDB, repo := setupProductTest(t)
	popular := seedProduct(t, testDB, "Popular", 25)
	quiet := seedProduct(t, testDB, "Quiet", 25)

	user := &model.User{Email: "test@example.com", PasswordHash: "hash", Name: "Test User", Role: model.RoleUser}
	require.NoError(t, testDB.Create(user).Error)

	// One save and one order line for the popular product
	require.NoError(t, testDB.Create(&model.SavedProduct{UserID: user.ID, ProductID: popular.ID}).Error)
	order := &model.Order{OrderNumber: "VST-20250101-TESTTEST", UserID: user.ID, Status: model.OrderStatusDelivered, Subtotal: 25, Shipping: 10, Total: 35}
	require.NoError(t, testDB.Create(order).Error)
	require.NoError(t, testDB.Create(&model.OrderItem{OrderID: order.ID, ProductID: popular.ID, ProductName: "Popular", Price: 25, Quantity: 1}).Error)

	affected, err := repo.RecomputePopularity()
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	found, err := repo.FindByID(popular.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, found.Popularity) // 1 save + 2*1 order

	found, err = repo.FindByID(quiet.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.Popularity)
}

func TestProductRepository_BulkCreate(t *testing.T) {
	_, repo := setupProductTest(t)

	products := []model.Product{
		{Name: "One", Price: 10, Category: model.CategoryTShirts, Gender: model.GenderMen, IsActive: true},
		{Name: "Two", Price: 20, Category: model.CategoryShirts, Gender: model.GenderWomen, IsActive: true},
		{Name: "Three", Price: 30, Category: model.CategoryJeans, Gender: model.GenderUnisex, IsActive: true},
	}

	err := repo.BulkCreate(products, 2)
	require.NoError(t, err)

	_, total, err := repo.FindWithFilter(ProductFilter{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}
