package model

import (
	"github.com/RoyceAzure/lab/cafe_erp/internal/constants"
	"github.com/shopspring/decimal"
)

// StoreConfig 單例設定, 主鍵固定為 1
type StoreConfig struct {
	ID       uint            `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Name     string          `gorm:"not null;type:varchar(255)" json:"name"`
	Currency string          `gorm:"not null;type:varchar(8)" json:"currency"`
	TaxRate  decimal.Decimal `gorm:"not null;type:numeric(18,6)" json:"taxRate"`
	BaseModel
}

func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		ID:       constants.StoreConfigID,
		Name:     constants.DefaultStoreName,
		Currency: constants.DefaultCurrency,
		TaxRate:  decimal.RequireFromString(constants.DefaultTaxRate),
	}
}
