package model

import (
	"time"

	"gorm.io/gorm"
)

// Review is a verified-purchase product review. One row per (user, product);
// resubmission overwrites rating and comment in place.
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;index:idx_review_user_product,unique" json:"user_id"`
	ProductID uint           `gorm:"not null;index:idx_review_user_product,unique" json:"product_id"`
	Rating    int            `gorm:"not null" json:"rating"` // 1-5
	Comment   string         `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"`

	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
