package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/internal/app/service"
	apperrors "github.com/vestra/vestra-backend/internal/errors"
	"github.com/vestra/vestra-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
	reviewService  service.ReviewService
}

func NewProductController(productService service.ProductService, reviewService service.ReviewService) *ProductController {
	return &ProductController{
		productService: productService,
		reviewService:  reviewService,
	}
}

type ProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	OriginalPrice *float64 `json:"original_price"`
	Images        []string `json:"images"`
	Category      string   `json:"category" binding:"required"`
	Gender        string   `json:"gender" binding:"required"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	StockQuantity *int     `json:"stock_quantity"`
	IsFeatured    *bool    `json:"is_featured"`
	IsActive      *bool    `json:"is_active"`
}

func parseProductFilter(c *gin.Context) repository.ProductFilter {
	filter := repository.ProductFilter{
		Search: c.Query("search"),
		SortBy: repository.ProductSort(c.DefaultQuery("sort", string(repository.ProductSortPopularity))),
	}

	if category := c.Query("category"); category != "" {
		cat := model.ProductCategory(category)
		filter.Category = &cat
	}
	if gender := c.Query("gender"); gender != "" {
		g := model.ProductGender(gender)
		filter.Gender = &g
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			filter.MaxPrice = &v
		}
	}
	if featured := c.Query("featured"); featured != "" {
		f := featured == "true"
		filter.Featured = &f
	}

	filter.SortAscending = c.Query("order") == "asc"
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	return filter
}

// ListProducts returns the filtered catalog page
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := parseProductFilter(c)
	// Only admins may see inactive products.
	filter.IncludeHidden = middleware.IsAdmin(c) && c.Query("include_hidden") == "true"

	page, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		apperrors.ParseAndRespond(c, err, "fetch products")
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetFeatured returns the featured products strip
// GET /api/v1/products/featured
func (ctrl *ProductController) GetFeatured(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	products, err := ctrl.productService.GetFeatured(c.Request.Context(), limit)
	if err != nil {
		log.Error("Failed to fetch featured products", err, nil)
		apperrors.ParseAndRespond(c, err, "fetch featured products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

// GetProduct returns one product with its reviews
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	product, err := ctrl.productService.GetProduct(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, err, "fetch product")
		return
	}

	if !product.IsActive && !middleware.IsAdmin(c) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	reviews, err := ctrl.reviewService.GetProductReviews(uint(id))
	if err != nil {
		log.Error("Failed to fetch product reviews", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, err, "fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"reviews": reviews,
	})
}

func (req *ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Images:        req.Images,
		Category:      model.ProductCategory(req.Category),
		Gender:        model.ProductGender(req.Gender),
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		StockQuantity: req.StockQuantity,
		IsFeatured:    req.IsFeatured,
		IsActive:      req.IsActive,
	}
}

// CreateProduct creates a product (admin)
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := ctrl.productService.CreateProduct(c.Request.Context(), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrInvalidPrice) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Price must be positive",
			})
			return
		}
		log.Error("Failed to create product", err, nil)
		apperrors.ParseAndRespond(c, err, "create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct updates a product (admin)
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := ctrl.productService.UpdateProduct(c.Request.Context(), uint(id), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct removes a product (admin)
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	if err := ctrl.productService.DeleteProduct(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted",
	})
}
