package service

import (
	"errors"

	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrInvalidVariant   = errors.New("size or color not offered for this product")
)

// CartSummary is the cart page payload: the lines plus totals computed from
// the snapshotted unit prices.
type CartSummary struct {
	Items    []model.CartItem `json:"items"`
	Subtotal float64          `json:"subtotal"`
	Shipping float64          `json:"shipping"`
	Total    float64          `json:"total"`
}

type CartService interface {
	AddToCart(userID, productID uint, size, color string, quantity int) (*model.CartItem, error)
	GetCart(userID uint) (*CartSummary, error)
	UpdateQuantity(userID, itemID uint, quantity int) (*CartSummary, error)
	RemoveItem(userID, itemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func containsVariant(offered []string, value string) bool {
	if value == "" {
		return len(offered) == 0
	}
	for _, v := range offered {
		if v == value {
			return true
		}
	}
	return false
}

// AddToCart merges into an existing (product, size, color) line when one
// exists; otherwise it creates a new line with the current price snapshotted.
func (s *cartService) AddToCart(userID, productID uint, size, color string, quantity int) (*model.CartItem, error) {
	logger.Info("Adding product to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"size":       size,
		"color":      color,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if !product.IsActive {
		logger.Warn("Cannot add to cart: product inactive", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, ErrProductInactive
	}

	if !containsVariant(product.Sizes, size) || !containsVariant(product.Colors, color) {
		logger.Warn("Cannot add to cart: variant not offered", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"size":       size,
			"color":      color,
		})
		return nil, ErrInvalidVariant
	}

	existing, err := s.cartRepo.FindLine(userID, productID, size, color)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up existing cart line", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	if existing != nil {
		existing.Quantity += quantity
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		logger.Info("Cart line merged", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": existing.ID,
			"quantity":     existing.Quantity,
		})
		return existing, nil
	}

	item := &model.CartItem{
		UserID:        userID,
		ProductID:     productID,
		Size:          size,
		Color:         color,
		Quantity:      quantity,
		PriceSnapshot: product.Price,
	}
	if err := s.cartRepo.Create(item); err != nil {
		return nil, err
	}

	logger.Info("Cart line created", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})
	return item, nil
}

func (s *cartService) GetCart(userID uint) (*CartSummary, error) {
	logger.Debug("Fetching cart", map[string]interface{}{
		"user_id": userID,
	})

	items, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return s.summarize(items), nil
}

func (s *cartService) summarize(items []model.CartItem) *CartSummary {
	summary := &CartSummary{Items: items}
	for i := range items {
		summary.Subtotal += items[i].Subtotal()
	}
	if len(items) > 0 {
		summary.Shipping = CalculateShipping(summary.Subtotal)
	}
	summary.Total = summary.Subtotal + summary.Shipping
	return summary
}

// UpdateQuantity sets a line's quantity; zero or negative removes the line.
func (s *cartService) UpdateQuantity(userID, itemID uint, quantity int) (*CartSummary, error) {
	logger.Info("Updating cart quantity", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	item, err := s.cartRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	if item.UserID != userID {
		logger.Warn("Cart item access denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": itemID,
			"owner_id":     item.UserID,
		})
		return nil, ErrCartItemNotFound
	}

	if quantity <= 0 {
		if err := s.cartRepo.Delete(itemID); err != nil {
			return nil, err
		}
	} else {
		item.Quantity = quantity
		if err := s.cartRepo.Update(item); err != nil {
			return nil, err
		}
	}

	return s.GetCart(userID)
}

func (s *cartService) RemoveItem(userID, itemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
	})

	item, err := s.cartRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}

	if item.UserID != userID {
		return ErrCartItemNotFound
	}

	return s.cartRepo.Delete(itemID)
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id": userID,
	})
	return s.cartRepo.DeleteByUser(userID)
}
