package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryTShirts     ProductCategory = "tshirts"
	CategoryShirts      ProductCategory = "shirts"
	CategoryJeans       ProductCategory = "jeans"
	CategoryShoes       ProductCategory = "shoes"
	CategoryJackets     ProductCategory = "jackets"
	CategoryAccessories ProductCategory = "accessories"
)

type ProductGender string

const (
	GenderMen    ProductGender = "men"
	GenderWomen  ProductGender = "women"
	GenderUnisex ProductGender = "unisex"
)

type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         float64         `gorm:"not null" json:"price"`
	OriginalPrice *float64        `json:"original_price,omitempty"` // strike-through price, nil when not discounted
	Images        pq.StringArray  `gorm:"type:text[]" json:"images"`
	Category      ProductCategory `gorm:"type:varchar(50);index" json:"category"`
	Gender        ProductGender   `gorm:"type:varchar(20);index" json:"gender"`
	Sizes         pq.StringArray  `gorm:"type:text[]" json:"sizes"`
	Colors        pq.StringArray  `gorm:"type:text[]" json:"colors"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	IsFeatured    bool            `gorm:"default:false;index" json:"is_featured"`
	IsActive      bool            `gorm:"default:true;index" json:"is_active"`
	Popularity    int             `gorm:"default:0" json:"popularity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
	Reviews    []Review    `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
