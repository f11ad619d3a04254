package promotions

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/google/uuid"
)

// RuleInput describes one eligibility condition on a new promotion.
type RuleInput struct {
	Kind     string          `json:"kind" validate:"required"`
	Operator string          `json:"operator" validate:"required"`
	Value    json.RawMessage `json:"value" validate:"required"`
	IsActive bool            `json:"isActive"`
}

// ActionInput describes one discount action on a new promotion.
type ActionInput struct {
	Type      string          `json:"type" validate:"required,oneof=discount_by_percentage discount_by_amount discount_shipping free_item"`
	Value     string          `json:"value" validate:"required"`
	Target    string          `json:"target" validate:"required,oneof=order category item"`
	TargetIDs []string        `json:"targetIds,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// CreatePromotionInput holds the validated payload to create a promotion.
type CreatePromotionInput struct {
	Name              string        `json:"name" validate:"required"`
	Status            string        `json:"status" validate:"required,oneof=active scheduled expired disabled"`
	Scope             string        `json:"scope" validate:"required,oneof=all order product shipping"`
	Priority          int           `json:"priority"`
	StartDate         time.Time     `json:"startDate" validate:"required"`
	EndDate           *time.Time    `json:"endDate,omitempty"`
	UsageLimit        int           `json:"usageLimit" validate:"gte=0"`
	DiscountType      string        `json:"discountType" validate:"omitempty,oneof=percentage fixed_amount"`
	DiscountValue     string        `json:"discountValue"`
	MinOrderAmount    *string       `json:"minOrderAmount,omitempty"`
	MaxDiscountAmount *string       `json:"maxDiscountAmount,omitempty"`
	Exclusive         bool          `json:"exclusive"`
	CouponID          *uuid.UUID    `json:"couponId,omitempty"`
	MerchantID        *uuid.UUID    `json:"merchantId,omitempty"`
	Rules             []RuleInput   `json:"rules,omitempty" validate:"dive"`
	Actions           []ActionInput `json:"actions,omitempty" validate:"dive"`
}

// PromotionDTO is the promotion payload returned to clients.
type PromotionDTO struct {
	ID                uuid.UUID     `json:"id"`
	Name              string        `json:"name"`
	Status            string        `json:"status"`
	Scope             string        `json:"scope"`
	Priority          int           `json:"priority"`
	StartDate         time.Time     `json:"startDate"`
	EndDate           *time.Time    `json:"endDate,omitempty"`
	UsageLimit        int           `json:"usageLimit"`
	UsageCount        int           `json:"usageCount"`
	DiscountType      string        `json:"discountType,omitempty"`
	DiscountValue     string        `json:"discountValue"`
	MinOrderAmount    *string       `json:"minOrderAmount,omitempty"`
	MaxDiscountAmount *string       `json:"maxDiscountAmount,omitempty"`
	Exclusive         bool          `json:"exclusive"`
	CouponID          *uuid.UUID    `json:"couponId,omitempty"`
	MerchantID        *uuid.UUID    `json:"merchantId,omitempty"`
	Rules             []RuleDTO     `json:"rules,omitempty"`
	Actions           []ActionDTO   `json:"actions,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// ListPromotionsParams narrows and pages the promotion listing.
type ListPromotionsParams struct {
	Limit  int
	Cursor string
	Status string
}

// PromotionListDTO is one page of promotions plus the cursor for the next.
type PromotionListDTO struct {
	Items  []PromotionDTO `json:"items"`
	Cursor string         `json:"cursor,omitempty"`
}

// RuleDTO is a stored condition.
type RuleDTO struct {
	ID       uuid.UUID       `json:"id"`
	Kind     string          `json:"kind"`
	Operator string          `json:"operator"`
	Value    json.RawMessage `json:"value"`
	IsActive bool            `json:"isActive"`
}

// ActionDTO is a stored discount action.
type ActionDTO struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Value     string          `json:"value"`
	Target    string          `json:"target"`
	TargetIDs []string        `json:"targetIds,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// AppliedPromotionDTO is one promotion applied to an order evaluation.
type AppliedPromotionDTO struct {
	PromotionID uuid.UUID `json:"promotionId"`
	Name        string    `json:"name"`
	Exclusive   bool      `json:"exclusive"`
	Discount    string    `json:"discount"`
}

// OrderEvaluationResult is the outcome of evaluating all active promotions
// against one order.
type OrderEvaluationResult struct {
	OrderID       uuid.UUID             `json:"orderId"`
	Applied       []AppliedPromotionDTO `json:"applied"`
	TotalDiscount string                `json:"totalDiscount"`
}

// OrderCommitResult reports which redemptions were recorded. Promotions that
// lost the usage cap race between evaluation and commit land in Skipped.
type OrderCommitResult struct {
	OrderID       uuid.UUID             `json:"orderId"`
	Applied       []AppliedPromotionDTO `json:"applied"`
	Skipped       []AppliedPromotionDTO `json:"skipped,omitempty"`
	TotalDiscount string                `json:"totalDiscount"`
}

func toPromotionDTO(m *models.Promotion) *PromotionDTO {
	dto := &PromotionDTO{
		ID:            m.ID,
		Name:          m.Name,
		Status:        m.Status.String(),
		Scope:         m.Scope.String(),
		Priority:      m.Priority,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		UsageLimit:    m.UsageLimit,
		UsageCount:    m.UsageCount,
		DiscountType:  m.DiscountType.String(),
		DiscountValue: m.DiscountValue.String(),
		Exclusive:     m.Exclusive,
		CouponID:      m.CouponID,
		MerchantID:    m.MerchantID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.MinOrderAmount != nil {
		v := m.MinOrderAmount.String()
		dto.MinOrderAmount = &v
	}
	if m.MaxDiscountAmount != nil {
		v := m.MaxDiscountAmount.String()
		dto.MaxDiscountAmount = &v
	}
	for i := range m.Rules {
		dto.Rules = append(dto.Rules, RuleDTO{
			ID:       m.Rules[i].ID,
			Kind:     m.Rules[i].Kind.String(),
			Operator: m.Rules[i].Operator.String(),
			Value:    m.Rules[i].Value,
			IsActive: m.Rules[i].IsActive,
		})
	}
	for i := range m.Actions {
		dto.Actions = append(dto.Actions, ActionDTO{
			ID:        m.Actions[i].ID,
			Type:      m.Actions[i].Type.String(),
			Value:     m.Actions[i].Value.String(),
			Target:    m.Actions[i].Target.String(),
			TargetIDs: m.Actions[i].TargetIDs,
			Metadata:  m.Actions[i].Metadata,
		})
	}
	return dto
}
