package model

import (
	"time"

	"gorm.io/gorm"
)

// CartItem is one line of a user's cart, keyed by (user, product, size,
// color). Adding the same combination again increments Quantity instead of
// creating a second row. PriceSnapshot is the unit price captured when the
// line was first added; cart totals use it rather than the live product price.
type CartItem struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	UserID        uint           `gorm:"not null;index:idx_cart_line,priority:1" json:"user_id"`
	ProductID     uint           `gorm:"not null;index:idx_cart_line,priority:2" json:"product_id"`
	Size          string         `gorm:"type:varchar(20)" json:"size"`
	Color         string         `gorm:"type:varchar(50)" json:"color"`
	Quantity      int            `gorm:"not null;default:1" json:"quantity"`
	PriceSnapshot float64        `gorm:"not null" json:"price_snapshot"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal is the line total at the snapshotted unit price.
func (ci *CartItem) Subtotal() float64 {
	return ci.PriceSnapshot * float64(ci.Quantity)
}
