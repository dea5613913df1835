package model

import (
	"time"
)

// SavedProduct is a wishlist membership row, unique per (user, product).
// It is only ever created or hard-deleted by the toggle operation.
type SavedProduct struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_saved_user_product,unique" json:"user_id"`
	ProductID uint      `gorm:"not null;index:idx_saved_user_product,unique" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (SavedProduct) TableName() string {
	return "saved_products"
}
