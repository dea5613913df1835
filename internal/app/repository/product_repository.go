package repository

import (
	"fmt"

	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortPopularity ProductSort = "popularity"
	ProductSortPrice      ProductSort = "price"
	ProductSortCreatedAt  ProductSort = "created_at"
)

type ProductFilter struct {
	Category      *model.ProductCategory
	Gender        *model.ProductGender
	Search        string
	MinPrice      *float64
	MaxPrice      *float64
	Featured      *bool
	IncludeHidden bool
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product, batchSize int) error
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindByIDs(ids []uint) ([]model.Product, error)
	FindFeatured(limit int) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	RecomputePopularity() (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":     product.Name,
		"category": product.Category,
		"gender":   product.Gender,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":     product.Name,
			"category": product.Category,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	logger.Debug("Bulk creating products", map[string]interface{}{
		"count":      len(products),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}
	return nil
}

func (r *productRepository) applyFilter(filter ProductFilter) *gorm.DB {
	query := r.db.Model(&model.Product{})

	if !filter.IncludeHidden {
		query = query.Where("products.is_active = ?", true)
	}

	if filter.Category != nil {
		query = query.Where("products.category = ?", *filter.Category)
	}

	if filter.Gender != nil {
		query = query.Where("products.gender = ?", *filter.Gender)
	}

	if filter.Featured != nil {
		query = query.Where("products.is_featured = ?", *filter.Featured)
	}

	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}

	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.name LIKE ? OR products.description LIKE ?", like, like)
	}

	return query
}

// FindWithFilter returns one page of products plus the total count matching
// the filter before Limit/Offset were applied.
func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category":  filter.Category,
		"gender":    filter.Gender,
		"search":    filter.Search,
		"sort_by":   filter.SortBy,
		"ascending": filter.SortAscending,
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})

	query := r.applyFilter(filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}

	switch filter.SortBy {
	case ProductSortPrice:
		query = query.Order("products.price " + direction)
	case ProductSortCreatedAt:
		query = query.Order("products.created_at " + direction)
	case ProductSortPopularity:
		fallthrough
	default:
		query = query.Order("products.popularity " + direction)
		query = query.Order("products.created_at DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		logger.Debug("Product not found by ID", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIDs(ids []uint) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var products []model.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		logger.Error("Failed to find products by IDs", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindFeatured(limit int) ([]model.Product, error) {
	logger.Debug("Finding featured products", map[string]interface{}{
		"limit": limit,
	})

	query := r.db.Where("is_featured = ? AND is_active = ?", true, true).
		Order("popularity DESC").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find featured products", err, nil)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

// RecomputePopularity rewrites every product's popularity as saved count plus
// twice its ordered-line count. Run nightly by the scheduler.
func (r *productRepository) RecomputePopularity() (int64, error) {
	logger.Debug("Recomputing product popularity", nil)

	savedCounts := r.db.Table("saved_products").
		Select("COUNT(*)").
		Where("saved_products.product_id = products.id")

	orderCounts := r.db.Table("order_items").
		Select("COUNT(*)").
		Where("order_items.product_id = products.id").
		Where("order_items.deleted_at IS NULL")

	result := r.db.Model(&model.Product{}).
		Where("1 = 1").
		UpdateColumn("popularity", gorm.Expr("(?) + 2 * (?)", savedCounts, orderCounts))
	if result.Error != nil {
		logger.Error("Failed to recompute product popularity", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Product popularity recomputed", map[string]interface{}{
		"rows": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
