package models

import (
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Promotion is a discount campaign. UsageLimit of zero means the campaign is
// administratively unlimited; UsageCount only ever increases and stays in
// lockstep with PromotionUsage rows.
//
// DiscountType/DiscountValue are the legacy single-discount mechanism; Actions
// is the modern multi-action path. Both coexist and both apply.
type Promotion struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string                `gorm:"column:name;not null" json:"name"`
	Status            enums.PromotionStatus `gorm:"column:status;not null" json:"status"`
	Scope             enums.PromotionScope  `gorm:"column:scope;not null" json:"scope"`
	Priority          int                   `gorm:"column:priority;not null" json:"priority"`
	StartDate         time.Time             `gorm:"column:start_date;not null" json:"startDate"`
	EndDate           *time.Time            `gorm:"column:end_date" json:"endDate,omitempty"`
	UsageLimit        int                   `gorm:"column:usage_limit;not null" json:"usageLimit"`
	UsageCount        int                   `gorm:"column:usage_count;not null" json:"usageCount"`
	DiscountType      enums.DiscountType    `gorm:"column:discount_type" json:"discountType"`
	DiscountValue     decimal.Decimal       `gorm:"column:discount_value;type:numeric(20,6);not null" json:"discountValue"`
	MinOrderAmount    *decimal.Decimal      `gorm:"column:min_order_amount;type:numeric(20,6)" json:"minOrderAmount,omitempty"`
	MaxDiscountAmount *decimal.Decimal      `gorm:"column:max_discount_amount;type:numeric(20,6)" json:"maxDiscountAmount,omitempty"`
	Exclusive         bool                  `gorm:"column:exclusive;not null" json:"exclusive"`
	CouponID          *uuid.UUID            `gorm:"column:coupon_id;type:uuid" json:"couponId,omitempty"`
	MerchantID        *uuid.UUID            `gorm:"column:merchant_id;type:uuid;index" json:"merchantId,omitempty"`
	Rules             []PromotionRule       `gorm:"foreignKey:PromotionID" json:"rules,omitempty"`
	Actions           []PromotionAction     `gorm:"foreignKey:PromotionID" json:"actions,omitempty"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
