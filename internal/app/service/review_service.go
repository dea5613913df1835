package service

import (
	"errors"
	"strings"

	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound    = errors.New("review not found")
	ErrReviewNotEligible = errors.New("reviews require a purchase of the product")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidComment    = errors.New("comment must be between 3 and 1000 characters")
)

// ProductReviews bundles a product's reviews with their aggregate.
type ProductReviews struct {
	Reviews []model.Review           `json:"reviews"`
	Summary repository.ReviewSummary `json:"summary"`
}

type ReviewService interface {
	SubmitReview(userID, productID uint, rating int, comment string) (*model.Review, error)
	GetProductReviews(productID uint) (*ProductReviews, error)
	DeleteReview(reviewID uint) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// SubmitReview upserts the user's review of a product. Only buyers with a
// non-cancelled order containing the product may review it; a resubmission
// overwrites the previous rating and comment.
func (s *reviewService) SubmitReview(userID, productID uint, rating int, comment string) (*model.Review, error) {
	logger.Info("Submitting review", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"rating":     rating,
	})

	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	comment = strings.TrimSpace(comment)
	if len(comment) < 3 || len(comment) > 1000 {
		return nil, ErrInvalidComment
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	purchases, err := s.orderRepo.CountPurchasesByUserAndProduct(userID, productID)
	if err != nil {
		logger.Error("Failed to check review eligibility", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}
	if purchases == 0 {
		logger.Warn("Review rejected: no purchase of this product", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, ErrReviewNotEligible
	}

	existing, err := s.reviewRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up existing review", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	if existing != nil {
		existing.Rating = rating
		existing.Comment = comment
		if err := s.reviewRepo.Update(existing); err != nil {
			return nil, err
		}
		logger.Info("Review updated", map[string]interface{}{
			"review_id":  existing.ID,
			"user_id":    userID,
			"product_id": productID,
		})
		return existing, nil
	}

	review := &model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":  review.ID,
		"user_id":    userID,
		"product_id": productID,
	})
	return review, nil
}

func (s *reviewService) GetProductReviews(productID uint) (*ProductReviews, error) {
	logger.Debug("Fetching product reviews", map[string]interface{}{
		"product_id": productID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.FindByProduct(productID)
	if err != nil {
		return nil, err
	}

	summary, err := s.reviewRepo.SummaryByProduct(productID)
	if err != nil {
		return nil, err
	}

	return &ProductReviews{Reviews: reviews, Summary: summary}, nil
}

func (s *reviewService) DeleteReview(reviewID uint) error {
	logger.Info("Deleting review", map[string]interface{}{
		"review_id": reviewID,
	})

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}
