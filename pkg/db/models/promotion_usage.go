package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionUsage is an append-only redemption record. Each row corresponds to
// exactly one increment of the owning promotion's usage_count, and a
// promotion is redeemed at most once per order.
type PromotionUsage struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PromotionID    uuid.UUID       `gorm:"column:promotion_id;type:uuid;not null;index;uniqueIndex:ux_promotion_usages_promotion_order" json:"promotionId"`
	OrderID        uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_promotion_usages_promotion_order" json:"orderId"`
	CustomerID     *uuid.UUID      `gorm:"column:customer_id;type:uuid" json:"customerId,omitempty"`
	SessionID      *string         `gorm:"column:session_id" json:"sessionId,omitempty"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(20,6);not null" json:"discountAmount"`
	AppliedAt      time.Time       `gorm:"column:applied_at;autoCreateTime" json:"appliedAt"`
}
