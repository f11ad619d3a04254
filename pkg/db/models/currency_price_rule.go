package models

import (
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyPriceRule is a scoped adjustment applied to converted amounts. A nil
// RegionCode matches every region; nil order-value bounds and dates are
// unbounded.
type CurrencyPriceRule struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type          enums.PriceRuleType `gorm:"column:type;not null" json:"type"`
	Value         decimal.Decimal     `gorm:"column:value;type:numeric(20,6);not null" json:"value"`
	CurrencyCode  string              `gorm:"column:currency_code;not null;index" json:"currencyCode"`
	RegionCode    *string             `gorm:"column:region_code" json:"regionCode,omitempty"`
	Priority      int                 `gorm:"column:priority;not null" json:"priority"`
	MinOrderValue *decimal.Decimal    `gorm:"column:min_order_value;type:numeric(20,6)" json:"minOrderValue,omitempty"`
	MaxOrderValue *decimal.Decimal    `gorm:"column:max_order_value;type:numeric(20,6)" json:"maxOrderValue,omitempty"`
	StartDate     *time.Time          `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate       *time.Time          `gorm:"column:end_date" json:"endDate,omitempty"`
	IsActive      bool                `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
