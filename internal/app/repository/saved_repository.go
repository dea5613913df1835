package repository

import (
	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/pkg/logger"
	"gorm.io/gorm"
)

type SavedRepository interface {
	Create(saved *model.SavedProduct) error
	Find(userID, productID uint) (*model.SavedProduct, error)
	FindByUser(userID uint) ([]model.SavedProduct, error)
	Delete(userID, productID uint) error
	CountByProduct(productID uint) (int64, error)
}

type savedRepository struct {
	db *gorm.DB
}

func NewSavedRepository(db *gorm.DB) SavedRepository {
	return &savedRepository{db: db}
}

func (r *savedRepository) Create(saved *model.SavedProduct) error {
	logger.Debug("Saving product for user", map[string]interface{}{
		"user_id":    saved.UserID,
		"product_id": saved.ProductID,
	})

	if err := r.db.Create(saved).Error; err != nil {
		logger.Error("Failed to save product for user", err, map[string]interface{}{
			"user_id":    saved.UserID,
			"product_id": saved.ProductID,
		})
		return err
	}
	return nil
}

func (r *savedRepository) Find(userID, productID uint) (*model.SavedProduct, error) {
	var saved model.SavedProduct
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *savedRepository) FindByUser(userID uint) ([]model.SavedProduct, error) {
	logger.Debug("Finding saved products by user", map[string]interface{}{
		"user_id": userID,
	})

	var saved []model.SavedProduct
	err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&saved).Error
	if err != nil {
		logger.Error("Failed to find saved products by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Saved products found", map[string]interface{}{
		"user_id": userID,
		"count":   len(saved),
	})
	return saved, nil
}

// Delete hard-deletes the membership row so a later re-save can recreate it
// under the unique index.
func (r *savedRepository) Delete(userID, productID uint) error {
	logger.Debug("Removing saved product for user", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.SavedProduct{}).Error
	if err != nil {
		logger.Error("Failed to remove saved product for user", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}
	return nil
}

func (r *savedRepository) CountByProduct(productID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.SavedProduct{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count saved products", err, map[string]interface{}{
			"product_id": productID,
		})
		return 0, err
	}
	return count, nil
}
