package service

import (
	"errors"

	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/pkg/logger"
	"gorm.io/gorm"
)

// ToggleResult reports the state after a toggle.
type ToggleResult struct {
	ProductID uint `json:"product_id"`
	Saved     bool `json:"saved"`
}

type SavedService interface {
	Toggle(userID, productID uint) (*ToggleResult, error)
	GetSavedProducts(userID uint) ([]model.SavedProduct, error)
	IsSaved(userID, productID uint) (bool, error)
}

type savedService struct {
	savedRepo   repository.SavedRepository
	productRepo repository.ProductRepository
}

func NewSavedService(savedRepo repository.SavedRepository, productRepo repository.ProductRepository) SavedService {
	return &savedService{
		savedRepo:   savedRepo,
		productRepo: productRepo,
	}
}

// Toggle flips the saved state of a product for a user. A concurrent double
// toggle can race the existence check into a duplicate insert; the unique
// index turns that into an error we fold into the already-saved outcome.
func (s *savedService) Toggle(userID, productID uint) (*ToggleResult, error) {
	logger.Info("Toggling saved product", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	existing, err := s.savedRepo.Find(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up saved product", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	if existing != nil {
		if err := s.savedRepo.Delete(userID, productID); err != nil {
			return nil, err
		}
		logger.Info("Product unsaved", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return &ToggleResult{ProductID: productID, Saved: false}, nil
	}

	saved := &model.SavedProduct{UserID: userID, ProductID: productID}
	if err := s.savedRepo.Create(saved); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ToggleResult{ProductID: productID, Saved: true}, nil
		}
		return nil, err
	}

	logger.Info("Product saved", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return &ToggleResult{ProductID: productID, Saved: true}, nil
}

func (s *savedService) GetSavedProducts(userID uint) ([]model.SavedProduct, error) {
	logger.Debug("Fetching saved products", map[string]interface{}{
		"user_id": userID,
	})
	return s.savedRepo.FindByUser(userID)
}

func (s *savedService) IsSaved(userID, productID uint) (bool, error) {
	_, err := s.savedRepo.Find(userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
