package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryBeverages   Category = "Beverages"
	CategoryFood        Category = "Food"
	CategoryDessert     Category = "Dessert"
	CategoryMerchandise Category = "Merchandise"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryBeverages, CategoryFood, CategoryDessert, CategoryMerchandise:
		return true
	default:
		return false
	}
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

type Product struct {
	ID       string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name     string          `gorm:"not null;type:varchar(255)" json:"name"`
	Price    decimal.Decimal `gorm:"not null;type:numeric(18,6)" json:"price"`
	Cost     decimal.Decimal `gorm:"not null;type:numeric(18,6)" json:"cost"`
	Category Category        `gorm:"not null;type:varchar(32);index" json:"category"`
	Stock    int             `gorm:"not null;default:0" json:"stock"`
	MinStock int             `gorm:"not null;default:0" json:"minStock"`
	Image    string          `gorm:"type:text" json:"image"`
	BaseModel
}

// IsLowStock 庫存低於安全量
func (p *Product) IsLowStock() bool {
	return p.Stock < p.MinStock
}
