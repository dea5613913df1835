package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/internal/db"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (ReviewService, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	reviewRepo := repository.NewReviewRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	reviewService := NewReviewService(reviewRepo, orderRepo, productRepo)

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
		StockQuantity: 10,
		IsActive:      true,
	}
	require.NoError(t, testDB.Create(product).Error)

	return reviewService, testDB, user, product
}

// deliverOrder records a delivered purchase so the user passes the
// verified-purchase gate.
func deliverOrder(t *testing.T, testDB *gorm.DB, user *model.User, product *model.Product) {
	recordPurchase(t, testDB, user, product, "VST-20250101-REVIEW01", model.OrderStatusDelivered)
}

func recordPurchase(t *testing.T, testDB *gorm.DB, user *model.User, product *model.Product, number string, status model.OrderStatus) {
	order := &model.Order{
		OrderNumber: number,
		UserID:      user.ID,
		Status:      status,
		Subtotal:    25,
		Shipping:    10,
		Total:       35,
		OrderItems: []model.OrderItem{
			{ProductID: product.ID, ProductName: product.Name, Price: 25, Quantity: 1},
		},
	}
	require.NoError(t, testDB.Create(order).Error)
}

func TestReviewService_SubmitReview_Success(t *testing.T) {
	reviewService, testDB, user, product := setupReviewServiceTest(t)
	deliverOrder(t, testDB, user, product)

	review, err := reviewService.SubmitReview(user.ID, product.ID, 5, "Great quality for the price")
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, 5, review.Rating)
}

func TestReviewService_SubmitReview_NotEligibleWithoutPurchase(t *testing.T) {
	reviewService, _, user, product := setupReviewServiceTest(t)

	_, err := reviewService.SubmitReview(user.ID, product.ID, 5, "Great quality for the price")
	assert.ErrorIs(t, err, ErrReviewNotEligible)
}

func TestReviewService_SubmitReview_CancelledOrderNotEligible(t *testing.T) {
	reviewService, testDB, user, product := setupReviewServiceTest(t)
	recordPurchase(t, testDB, user, product, "VST-20250101-REVIEW02", model.OrderStatusCancelled)

	_, err := reviewService.SubmitReview(user.ID, product.ID, 5, "Great quality for the price")
	assert.ErrorIs(t, err, ErrReviewNotEligible)
}

func TestReviewService_SubmitReview_PendingOrderEligible(t *testing.T) {
	reviewService, testDB, user, product := setupReviewServiceTest(t)
	recordPurchase(t, testDB, user, product, "VST-20250101-REVIEW04", model.OrderStatusPending)

	review, err := reviewService.SubmitReview(user.ID, product.ID, 4, "Great quality for the price")
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
}

func TestReviewService_SubmitReview_UpsertsExisting(t *testing.T) {
	reviewService, testDB, user, product := setupReviewServiceTest(t)
	deliverOrder(t, testDB, user, product)

	first, err := reviewService.SubmitReview(user.ID, product.ID, 5, "Great quality")
	require.NoError(t, err)

	second, err := reviewService.SubmitReview(user.ID, product.ID, 2, "Fell apart after a wash")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	reviews, err := reviewService.GetProductReviews(product.ID)
	require.NoError(t, err)
	require.Len(t, reviews.Reviews, 1)
	assert.Equal(t, 2, reviews.Reviews[0].Rating)
}

func TestReviewService_SubmitReview_InvalidRating(t *testing.T) {
	reviewService, testDB, user, product := setupReviewServiceTest(t)
	deliverOrder(t, testDB, user, product)

	_, err := reviewService.SubmitReview(user.ID, product.ID, 0, "Great quality")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = reviewService.SubmitReview(user.ID, product.ID, 6, "Great quality")
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestReviewService_SubmitReview_CommentBounds(t *testing.T) {
	reviewService, testDB, user, product := setupReviewServiceTest(t)
	deliverOrder(t, testDB, user, product)

	_, err := reviewService.SubmitReview(user.ID, product.ID, 4, "ok")
	assert.ErrorIs(t, err, ErrInvalidComment)

	_, err = reviewService.SubmitReview(user.ID, product.ID, 4, "   ")
	assert.ErrorIs(t, err, ErrInvalidComment)

	_, err = reviewService.SubmitReview(user.ID, product.ID, 4, strings.Repeat("a", 1001))
	assert.ErrorIs(t, err, ErrInvalidComment)
}

func TestReviewService_SubmitReview_UnknownProduct(t *testing.T) {
	reviewService, _, user, _ := setupReviewServiceTest(t)

	_, err := reviewService.SubmitReview(user.ID, 9999, 4, "Great quality")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReviewService_GetProductReviews_Summary(t *testing.T) {
	reviewService, testDB, user, product := setupReviewServiceTest(t)
	deliverOrder(t, testDB, user, product)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	require.NoError(t, testDB.Create(other).Error)
	deliverOrderFor(t, testDB, other, product, "VST-20250101-REVIEW03")

	_, err := reviewService.SubmitReview(user.ID, product.ID, 5, "Great quality")
	require.NoError(t, err)
	_, err = reviewService.SubmitReview(other.ID, product.ID, 3, "Just fine")
	require.NoError(t, err)

	reviews, err := reviewService.GetProductReviews(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), reviews.Summary.Count)
	assert.InDelta(t, 4.0, reviews.Summary.AverageRating, 0.001)
}

func deliverOrderFor(t *testing.T, testDB *gorm.DB, user *model.User, product *model.Product, number string) {
	recordPurchase(t, testDB, user, product, number, model.OrderStatusDelivered)
}

func TestReviewService_DeleteReview(t *testing.T) {
	reviewService, testDB, user, product := setupReviewServiceTest(t)
	deliverOrder(t, testDB, user, product)

	review, err := reviewService.SubmitReview(user.ID, product.ID, 1, "Spam content here")
	require.NoError(t, err)

	require.NoError(t, reviewService.DeleteReview(review.ID))

	reviews, err := reviewService.GetProductReviews(product.ID)
	require.NoError(t, err)
	assert.Len(t, reviews.Reviews, 0)
}

func TestReviewService_DeleteReview_NotFound(t *testing.T) {
	reviewService, _, _, _ := setupReviewServiceTest(t)

	err := reviewService.DeleteReview(9999)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
