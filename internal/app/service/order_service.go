package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/pkg/logger"
	"github.com/vestra/vestra-backend/pkg/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidAddress    = errors.New("shipping address is incomplete")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrIllegalTransition = errors.New("illegal order status transition")
)

type OrderService interface {
	CreateOrderFromCart(userID uint, address model.Address) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	CancelOrder(userID, orderID uint) (*model.Order, error)
	ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	db        *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		db:        db,
	}
}

func validateAddress(address model.Address) bool {
	return address.FullName != "" &&
		address.Line1 != "" &&
		address.City != "" &&
		address.PostalCode != "" &&
		address.Country != ""
}

// CreateOrderFromCart turns the user's cart into an order inside one
// transaction. Each product row is locked, stock re-checked at the live
// quantity and decremented, and order lines snapshot the live price. The
// cart is cleared only when the transaction commits, so a failed checkout
// leaves it untouched.
func (s *orderService) CreateOrderFromCart(userID uint, address model.Address) (*model.Order, error) {
	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id": userID,
	})

	if !validateAddress(address) {
		logger.Warn("Order creation failed: incomplete address", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrInvalidAddress
	}

	cartItems, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		logger.Error("Failed to fetch cart items", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cartItems) == 0 {
		logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var (
		subtotal   float64
		orderItems []model.OrderItem
	)

	for _, cartItem := range cartItems {
		var product model.Product
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, cartItem.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product not found during order creation", map[string]interface{}{
					"user_id":    userID,
					"product_id": cartItem.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product during order creation", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": cartItem.ProductID,
			})
			return nil, err
		}

		if !product.IsActive {
			tx.Rollback()
			logger.Warn("Order creation failed: product no longer available", map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
			})
			return nil, ErrProductInactive
		}

		if product.StockQuantity < cartItem.Quantity {
			tx.Rollback()
			logger.Warn("Order creation failed: insufficient stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
				"requested":  cartItem.Quantity,
				"available":  product.StockQuantity,
			})
			return nil, ErrInsufficientStock
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Size:        cartItem.Size,
			Color:       cartItem.Color,
			Quantity:    cartItem.Quantity,
		})
		subtotal += product.Price * float64(cartItem.Quantity)

		if err := tx.Model(&model.Product{}).
			Where("id = ?", product.ID).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", cartItem.Quantity)).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to decrement product stock", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
			})
			return nil, err
		}
	}

	shipping := CalculateShipping(subtotal)
	order := &model.Order{
		OrderNumber: util.GenerateOrderNumber(time.Now()),
		UserID:      userID,
		Status:      model.OrderStatusPending,
		Subtotal:    subtotal,
		Shipping:    shipping,
		Total:       subtotal + shipping,
		Address:     address,
		OrderItems:  orderItems,
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
			"total":   order.Total,
		})
		return nil, err
	}

	if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart after order creation", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"subtotal":     subtotal,
		"shipping":     shipping,
		"total":        order.Total,
		"item_count":   len(orderItems),
	})

	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CancelOrder lets the owner cancel a not-yet-terminal order and restocks
// its lines.
func (s *orderService) CancelOrder(userID, orderID uint) (*model.Order, error) {
	logger.Info("Cancelling order", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.GetOrderByID(userID, orderID)
	if err != nil {
		return nil, err
	}

	return s.transition(order, model.OrderStatusCancelled)
}

func (s *orderService) ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, ErrInvalidStatus
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.orderRepo.FindWithFilter(filter)
}

// UpdateOrderStatus is the admin transition entry point. Moves are checked
// against the status allow-list before anything is written.
func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	return s.transition(order, status)
}

func (s *orderService) transition(order *model.Order, next model.OrderStatus) (*model.Order, error) {
	if !order.Status.CanTransitionTo(next) {
		logger.Warn("Illegal order status transition rejected", map[string]interface{}{
			"order_id": order.ID,
			"from":     order.Status,
			"to":       next,
		})
		return nil, ErrIllegalTransition
	}

	// Restock and status write commit together; a failed cancellation must
	// not leave inflated stock behind an order that is still active.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if next == model.OrderStatusCancelled {
			for _, item := range order.OrderItems {
				if err := tx.Model(&model.Product{}).
					Where("id = ?", item.ProductID).
					Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error; err != nil {
					logger.Error("Failed to restock cancelled order line", err, map[string]interface{}{
						"order_id":   order.ID,
						"product_id": item.ProductID,
					})
					return err
				}
			}
		}

		return tx.Model(&model.Order{}).
			Where("id = ?", order.ID).
			Update("status", next).Error
	})
	if err != nil {
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": order.ID,
			"status":   next,
		})
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": order.ID,
		"from":     order.Status,
		"to":       next,
	})

	return s.orderRepo.FindByID(order.ID)
}
