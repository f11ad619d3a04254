package models

import (
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Currency holds a currency definition and its display rules. ExchangeRate is
// expressed as units of this currency per one unit of the default currency;
// the default currency's own rate is 1.
type Currency struct {
	Code               string               `gorm:"column:code;primaryKey" json:"code"`
	Name               string               `gorm:"column:name;not null" json:"name"`
	Symbol             string               `gorm:"column:symbol;not null" json:"symbol"`
	Decimals           int                  `gorm:"column:decimals;not null" json:"decimals"`
	IsDefault          bool                 `gorm:"column:is_default;not null" json:"isDefault"`
	IsActive           bool                 `gorm:"column:is_active;not null" json:"isActive"`
	ExchangeRate       decimal.Decimal      `gorm:"column:exchange_rate;type:numeric(20,10);not null" json:"exchangeRate"`
	LastUpdated        *time.Time           `gorm:"column:last_updated" json:"lastUpdated,omitempty"`
	Format             string               `gorm:"column:format" json:"format"`
	Position           enums.SymbolPosition `gorm:"column:position;not null" json:"position"`
	ThousandsSeparator string               `gorm:"column:thousands_separator;not null" json:"thousandsSeparator"`
	DecimalSeparator   string               `gorm:"column:decimal_separator;not null" json:"decimalSeparator"`
	CreatedAt          time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName overrides gorm's pluralization.
func (Currency) TableName() string {
	return "currencies"
}
