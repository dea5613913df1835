package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/internal/app/service"
	"github.com/vestra/vestra-backend/internal/db"
	"github.com/vestra/vestra-backend/internal/middleware"
	"gorm.io/gorm"
)

func setupProductControllerTest(t *testing.T) (*ProductController, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	productService := service.NewProductService(productRepo)
	reviewService := service.NewReviewService(reviewRepo, orderRepo, productRepo)
	productController := NewProductController(productService, reviewService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return productController, router, testDB
}

func asAdmin(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uint(1))
		c.Set(middleware.UserRoleKey, model.RoleAdmin)
		handler(c)
	}
}

func createTestProduct(t *testing.T, testDB *gorm.DB, name string, mods ...func(*model.Product)) *model.Product {
	product := &model.Product{
		Name:          name,
		Price:         25,
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

func TestProductController_ListProducts(t *testing.T) {
	controller, router, testDB := setupProductControllerTest(t)

	createTestProduct(t, testDB, "Visible")
	createTestProduct(t, testDB, "Hidden", func(p *model.Product) { p.IsActive = false })

	router.GET("/products", controller.ListProducts)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var page service.ProductPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Visible", page.Products[0].Name)
}

func TestProductController_ListProducts_AdminSeesHidden(t *testing.T) {
	controller, router, testDB := setupProductControllerTest(t)

	createTestProduct(t, testDB, "Visible")
	createTestProduct(t, testDB, "Hidden", func(p *model.Product) { p.IsActive = false })

	router.GET("/products", asAdmin(controller.ListProducts))

	req := httptest.NewRequest(http.MethodGet, "/products?include_hidden=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var page service.ProductPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Total)
}

func TestProductController_ListProducts_Filters(t *testing.T) {
	controller, router, testDB := setupProductControllerTest(t)

	createTestProduct(t, testDB, "Tee")
	createTestProduct(t, testDB, "Sneaker", func(p *model.Product) {
		p.Category = model.CategoryShoes
		p.Price = 90
	})

	router.GET("/products", controller.ListProducts)

	req := httptest.NewRequest(http.MethodGet, "/products?category=shoes&min_price=50", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var page service.ProductPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Sneaker", page.Products[0].Name)
}

func TestProductController_GetProduct_WithReviews(t *testing.T) {
	controller, router, testDB := setupProductControllerTest(t)

	product := createTestProduct(t, testDB, "Basic Tee")

	router.GET("/products/:id", controller.GetProduct)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d", product.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Product model.Product          `json:"product"`
		Reviews service.ProductReviews `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Basic Tee", resp.Product.Name)
	assert.Equal(t, int64(0), resp.Reviews.Summary.Count)
}

func TestProductController_GetProduct_HiddenFromCustomers(t *testing.T) {
	controller, router, testDB := setupProductControllerTest(t)

	product := createTestProduct(t, testDB, "Hidden", func(p *model.Product) { p.IsActive = false })

	router.GET("/products/:id", controller.GetProduct)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d", product.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_GetProduct_BadID(t *testing.T) {
	controller, router, _ := setupProductControllerTest(t)

	router.GET("/products/:id", controller.GetProduct)

	req := httptest.NewRequest(http.MethodGet, "/products/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_GetFeatured(t *testing.T) {
	controller, router, testDB := setupProductControllerTest(t)

	createTestProduct(t, testDB, "Plain")
	createTestProduct(t, testDB, "Star", func(p *model.Product) { p.IsFeatured = true })

	router.GET("/products/featured", controller.GetFeatured)

	req := httptest.NewRequest(http.MethodGet, "/products/featured", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []model.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Star", resp.Products[0].Name)
}

func TestProductController_CreateProduct(t *testing.T) {
	controller, router, _ := setupProductControllerTest(t)

	router.POST("/admin/products", asAdmin(controller.CreateProduct))

	stock := 10
	body, _ := json.Marshal(ProductRequest{
		Name:          "New Tee",
		Price:         25,
		Category:      "tshirts",
		Gender:        "unisex",
		Sizes:         []string{"S", "M"},
		StockQuantity: &stock,
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Product model.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotZero(t, resp.Product.ID)
	assert.True(t, resp.Product.IsActive)
}

func TestProductController_CreateProduct_MissingName(t *testing.T) {
	controller, router, _ := setupProductControllerTest(t)

	router.POST("/admin/products", asAdmin(controller.CreateProduct))

	body, _ := json.Marshal(map[string]interface{}{"price": 25, "category": "tshirts", "gender": "unisex"})
	req := httptest.NewRequest(http.MethodPost, "/admin/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_DeleteProduct(t *testing.T) {
	controller, router, testDB := setupProductControllerTest(t)

	product := createTestProduct(t, testDB, "Doomed")

	router.DELETE("/admin/products/:id", asAdmin(controller.DeleteProduct))

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/products/%d", product.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, testDB.Model(&model.Product{}).Where("id = ?", product.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
