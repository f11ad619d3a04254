package models

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/google/uuid"
)

// PromotionRule is a single eligibility condition. Value is a kind-specific
// payload decoded by the evaluator; all active rules on a promotion are ANDed.
type PromotionRule struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PromotionID uuid.UUID           `gorm:"column:promotion_id;type:uuid;not null;index" json:"promotionId"`
	Kind        enums.ConditionKind `gorm:"column:kind;not null" json:"kind"`
	Operator    enums.RuleOperator  `gorm:"column:operator;not null" json:"operator"`
	Value       json.RawMessage     `gorm:"column:value;type:jsonb" json:"value"`
	IsActive    bool                `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
