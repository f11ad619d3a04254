package currencies

import (
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/angelmondragon/merchantry-backend/pkg/enums"
)

// UpsertCurrencyInput holds the validated payload to create or update a
// catalog entry.
type UpsertCurrencyInput struct {
	Code               string `json:"code" validate:"required,len=3,uppercase"`
	Name               string `json:"name" validate:"required"`
	Symbol             string `json:"symbol" validate:"required"`
	Decimals           int    `json:"decimals" validate:"gte=0,lte=6"`
	IsDefault          bool   `json:"isDefault"`
	IsActive           bool   `json:"isActive"`
	ExchangeRate       string `json:"exchangeRate" validate:"required"`
	Format             string `json:"format"`
	Position           string `json:"position" validate:"required,oneof=before after"`
	ThousandsSeparator string `json:"thousandsSeparator"`
	DecimalSeparator   string `json:"decimalSeparator" validate:"required"`
}

// CurrencyDTO is the catalog entry payload returned to clients.
type CurrencyDTO struct {
	Code               string     `json:"code"`
	Name               string     `json:"name"`
	Symbol             string     `json:"symbol"`
	Decimals           int        `json:"decimals"`
	IsDefault          bool       `json:"isDefault"`
	IsActive           bool       `json:"isActive"`
	ExchangeRate       string     `json:"exchangeRate"`
	LastUpdated        *time.Time `json:"lastUpdated,omitempty"`
	Format             string     `json:"format"`
	Position           string     `json:"position"`
	ThousandsSeparator string     `json:"thousandsSeparator"`
	DecimalSeparator   string     `json:"decimalSeparator"`
}

// ConvertInput names the source and target of a conversion request.
type ConvertInput struct {
	Amount string `json:"amount" validate:"required"`
	From   string `json:"from" validate:"required,len=3"`
	To     string `json:"to" validate:"required,len=3"`
}

// ConvertResult carries the converted amount alongside its display form.
type ConvertResult struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Formatted string `json:"formatted"`
}

func toCurrencyDTO(m *models.Currency) *CurrencyDTO {
	return &CurrencyDTO{
		Code:               m.Code,
		Name:               m.Name,
		Symbol:             m.Symbol,
		Decimals:           m.Decimals,
		IsDefault:          m.IsDefault,
		IsActive:           m.IsActive,
		ExchangeRate:       m.ExchangeRate.String(),
		LastUpdated:        m.LastUpdated,
		Format:             m.Format,
		Position:           m.Position.String(),
		ThousandsSeparator: m.ThousandsSeparator,
		DecimalSeparator:   m.DecimalSeparator,
	}
}

func positionFromString(raw string) enums.SymbolPosition {
	pos, err := enums.ParseSymbolPosition(raw)
	if err != nil {
		return enums.SymbolPositionBefore
	}
	return pos
}
