package inventory

import (
	"time"
)

// LowStockThreshold is the stock level at or below which a product counts as
// low stock.
const LowStockThreshold = 10

// Product is a tenant-scoped inventory item. SKU is unique within a company,
// not globally: two companies may both sell "SKU-001".
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CompanyID   string    `json:"company_id" gorm:"column:company_id;type:varchar(36);uniqueIndex:idx_company_sku;not null"`
	SKU         string    `json:"sku" gorm:"column:sku;uniqueIndex:idx_company_sku;not null"`
	Name        string    `json:"name" gorm:"column:name;not null"`
	Description string    `json:"description" gorm:"column:description"`
	Category    string    `json:"category" gorm:"column:category;index"`
	Price       float64   `json:"price" gorm:"column:price;not null"`
	Stock       int       `json:"stock" gorm:"column:stock;not null;default:0"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) IsLowStock() bool {
	return p.Stock <= LowStockThreshold
}

// Stats summarizes one company's inventory. AveragePrice is zero when the
// company has no products.
type Stats struct {
	CompanyID        string  `json:"company_id"`
	TotalProducts    int64   `json:"total_products"`
	TotalStock       int64   `json:"total_stock"`
	AveragePrice     float64 `json:"average_price"`
	LowStockProducts int64   `json:"low_stock_products"`
}
