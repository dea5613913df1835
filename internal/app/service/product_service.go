package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/pkg/logger"
	"github.com/vestra/vestra-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is not available")
	ErrInvalidPrice      = errors.New("invalid product price")
	ErrInsufficientStock = errors.New("insufficient stock")
)

const (
	productCacheTTL     = 5 * time.Minute
	featuredCacheKey    = "products:featured"
	productCacheKeyBase = "product:%d"
)

type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	OriginalPrice *float64
	Images        []string
	Category      model.ProductCategory
	Gender        model.ProductGender
	Sizes         []string
	Colors        []string
	StockQuantity *int
	IsFeatured    *bool
	IsActive      *bool
}

type ProductPage struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter) (*ProductPage, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	GetFeatured(ctx context.Context, limit int) ([]model.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func productCacheKey(id uint) string {
	return fmt.Sprintf(productCacheKeyBase, id)
}

func (s *productService) ListProducts(filter repository.ProductFilter) (*ProductPage, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"category": filter.Category,
		"gender":   filter.Gender,
		"search":   filter.Search,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err, nil)
		return nil, err
	}

	return &ProductPage{
		Products: products,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}, nil
}

func (s *productService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	if redis.Available() {
		var cached model.Product
		hit, err := redis.CacheGet(ctx, productCacheKey(id), &cached)
		if err != nil {
			logger.Warn("Product cache read failed", map[string]interface{}{
				"product_id": id,
				"error":      err.Error(),
			})
		} else if hit {
			logger.Debug("Product cache hit", map[string]interface{}{
				"product_id": id,
			})
			return &cached, nil
		}
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	if redis.Available() {
		if err := redis.CacheSet(ctx, productCacheKey(id), product, productCacheTTL); err != nil {
			logger.Warn("Product cache write failed", map[string]interface{}{
				"product_id": id,
				"error":      err.Error(),
			})
		}
	}

	return product, nil
}

func (s *productService) GetFeatured(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 12
	}

	if redis.Available() {
		var cached []model.Product
		hit, err := redis.CacheGet(ctx, featuredCacheKey, &cached)
		if err == nil && hit && len(cached) >= limit {
			return cached[:limit], nil
		}
	}

	products, err := s.productRepo.FindFeatured(limit)
	if err != nil {
		logger.Error("Failed to fetch featured products", err, nil)
		return nil, err
	}

	if redis.Available() {
		if err := redis.CacheSet(ctx, featuredCacheKey, products, productCacheTTL); err != nil {
			logger.Warn("Featured products cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return products, nil
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":     input.Name,
		"category": input.Category,
		"price":    input.Price,
	})

	if input.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	stock := 0
	if input.StockQuantity != nil {
		stock = *input.StockQuantity
	}
	featured := false
	if input.IsFeatured != nil {
		featured = *input.IsFeatured
	}

	product := &model.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Images:        input.Images,
		Category:      input.Category,
		Gender:        input.Gender,
		Sizes:         input.Sizes,
		Colors:        input.Colors,
		StockQuantity: stock,
		IsFeatured:    featured,
		IsActive:      isActive,
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	s.invalidateCache(ctx, product.ID)

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.OriginalPrice != nil {
		product.OriginalPrice = input.OriginalPrice
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.Gender != "" {
		product.Gender = input.Gender
	}
	if input.Sizes != nil {
		product.Sizes = input.Sizes
	}
	if input.Colors != nil {
		product.Colors = input.Colors
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	s.invalidateCache(ctx, id)

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	s.invalidateCache(ctx, id)
	return nil
}

func (s *productService) invalidateCache(ctx context.Context, id uint) {
	if !redis.Available() {
		return
	}
	if err := redis.CacheDel(ctx, productCacheKey(id), featuredCacheKey); err != nil {
		logger.Warn("Product cache invalidation failed", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
	}
}
