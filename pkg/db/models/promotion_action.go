package models

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// PromotionAction is one unit of discount computation on the modern path. The
// target narrows which part of the order the value applies to; TargetIDs holds
// the category or product identifiers for scoped targets.
type PromotionAction struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PromotionID uuid.UUID          `gorm:"column:promotion_id;type:uuid;not null;index" json:"promotionId"`
	Type        enums.ActionType   `gorm:"column:type;not null" json:"type"`
	Value       decimal.Decimal    `gorm:"column:value;type:numeric(20,6);not null" json:"value"`
	Target      enums.ActionTarget `gorm:"column:target;not null" json:"target"`
	TargetIDs   pq.StringArray     `gorm:"column:target_ids;type:text[]" json:"targetIds,omitempty"`
	Metadata    json.RawMessage    `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
