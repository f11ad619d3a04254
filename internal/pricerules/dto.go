package pricerules

import (
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/google/uuid"
)

// SaveRuleInput holds the validated payload to create or update a price rule.
type SaveRuleInput struct {
	Type          string     `json:"type" validate:"required,oneof=fixed percentage exchange"`
	Value         string     `json:"value" validate:"required"`
	CurrencyCode  string     `json:"currencyCode" validate:"required,len=3"`
	RegionCode    *string    `json:"regionCode,omitempty" validate:"omitempty,min=2,max=8"`
	Priority      int        `json:"priority"`
	MinOrderValue *string    `json:"minOrderValue,omitempty"`
	MaxOrderValue *string    `json:"maxOrderValue,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	IsActive      bool       `json:"isActive"`
}

// PriceRuleDTO is the rule payload returned to clients.
type PriceRuleDTO struct {
	ID            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	Value         string     `json:"value"`
	CurrencyCode  string     `json:"currencyCode"`
	RegionCode    *string    `json:"regionCode,omitempty"`
	Priority      int        `json:"priority"`
	MinOrderValue *string    `json:"minOrderValue,omitempty"`
	MaxOrderValue *string    `json:"maxOrderValue,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// QuoteInput names the amount to quote and the conversion context.
type QuoteInput struct {
	Amount     string  `json:"amount" validate:"required"`
	From       string  `json:"from" validate:"required,len=3"`
	To         string  `json:"to" validate:"required,len=3"`
	RegionCode *string `json:"regionCode,omitempty"`
}

// QuoteResult carries the quoted amount after conversion and rule application.
type QuoteResult struct {
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	Formatted    string `json:"formatted"`
	RulesApplied int    `json:"rulesApplied"`
}

func toPriceRuleDTO(m *models.CurrencyPriceRule) *PriceRuleDTO {
	dto := &PriceRuleDTO{
		ID:           m.ID,
		Type:         m.Type.String(),
		Value:        m.Value.String(),
		CurrencyCode: m.CurrencyCode,
		RegionCode:   m.RegionCode,
		Priority:     m.Priority,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.MinOrderValue != nil {
		v := m.MinOrderValue.String()
		dto.MinOrderValue = &v
	}
	if m.MaxOrderValue != nil {
		v := m.MaxOrderValue.String()
		dto.MaxOrderValue = &v
	}
	return dto
}
