package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
// Rate is the unit price; Quantity is the on-hand stock count.
type Product struct {
	ID              uint            `gorm:"primaryKey"`
	Name            string          `gorm:"not null"`
	ManufactureDate time.Time
	ExpiryDate      time.Time
	Rate            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity        int             `gorm:"not null"`
	CategoryID      uint
	Category        Category `gorm:"foreignKey:CategoryID"`
}

func (p *Product) TableName() string {
	return "products"
}
