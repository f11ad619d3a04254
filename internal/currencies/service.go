package currencies

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/db"
	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/merchantry-backend/pkg/errors"
	"github.com/angelmondragon/merchantry-backend/pkg/validate"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes currency catalog management, conversion and formatting.
type Service interface {
	SaveCurrency(ctx context.Context, input UpsertCurrencyInput) (*CurrencyDTO, error)
	GetCurrency(ctx context.Context, code string) (*CurrencyDTO, error)
	ListCurrencies(ctx context.Context, activeOnly bool) ([]CurrencyDTO, error)
	DeleteCurrency(ctx context.Context, code string) error
	Convert(ctx context.Context, input ConvertInput) (*ConvertResult, error)
	Format(ctx context.Context, amount decimal.Decimal, code string) (string, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a currency service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("currency repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// SaveCurrency upserts a catalog entry. Marking a currency as default demotes
// the previous default in the same transaction so the catalog never holds two.
func (s *service) SaveCurrency(ctx context.Context, input UpsertCurrencyInput) (*CurrencyDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	rate, err := decimal.NewFromString(input.ExchangeRate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exchangeRate must be a decimal number")
	}
	if rate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exchangeRate must not be negative")
	}
	if input.IsDefault && !input.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "the default currency must be active")
	}

	now := time.Now().UTC()
	record := &models.Currency{
		Code:               input.Code,
		Name:               input.Name,
		Symbol:             input.Symbol,
		Decimals:           input.Decimals,
		IsDefault:          input.IsDefault,
		IsActive:           input.IsActive,
		ExchangeRate:       rate,
		LastUpdated:        &now,
		Format:             input.Format,
		Position:           positionFromString(input.Position),
		ThousandsSeparator: input.ThousandsSeparator,
		DecimalSeparator:   input.DecimalSeparator,
	}
	if record.IsDefault {
		record.ExchangeRate = decimal.NewFromInt(1)
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if record.IsDefault {
			if err := repo.ClearDefaultExcept(ctx, record.Code); err != nil {
				return err
			}
		} else {
			current, err := repo.GetDefault(ctx)
			if err != nil && !IsNotFound(err) {
				return err
			}
			if current != nil && current.Code == record.Code {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot demote the default currency; promote another currency first")
			}
		}
		return repo.Upsert(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	return toCurrencyDTO(record), nil
}

// GetCurrency loads a single catalog entry.
func (s *service) GetCurrency(ctx context.Context, code string) (*CurrencyDTO, error) {
	currency, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("currency %s not found", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load currency")
	}
	return toCurrencyDTO(currency), nil
}

// ListCurrencies returns the catalog, optionally restricted to active entries.
func (s *service) ListCurrencies(ctx context.Context, activeOnly bool) ([]CurrencyDTO, error) {
	var (
		rows []models.Currency
		err  error
	)
	if activeOnly {
		rows, err = s.repo.ListActive(ctx)
	} else {
		rows, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list currencies")
	}
	out := make([]CurrencyDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toCurrencyDTO(&rows[i]))
	}
	return out, nil
}

// DeleteCurrency removes a catalog entry. The default currency cannot be
// deleted while it is still the default.
func (s *service) DeleteCurrency(ctx context.Context, code string) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		currency, err := repo.GetByCode(ctx, code)
		if err != nil {
			if IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("currency %s not found", code))
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load currency")
		}
		if currency.IsDefault {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot delete the default currency")
		}
		return repo.Delete(ctx, code)
	})
}

// Convert converts the amount between two catalog currencies and formats the
// result in the target currency's display settings.
func (s *service) Convert(ctx context.Context, input ConvertInput) (*ConvertResult, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a decimal number")
	}

	from, err := s.loadCurrency(ctx, input.From)
	if err != nil {
		return nil, err
	}
	to, err := s.loadCurrency(ctx, input.To)
	if err != nil {
		return nil, err
	}

	converted, err := Convert(amount, from, to)
	if err != nil {
		return nil, err
	}
	return &ConvertResult{
		Amount:    converted.Round(int32(to.Decimals)).String(),
		Currency:  to.Code,
		Formatted: Format(converted, to),
	}, nil
}

// Format renders the amount using the named currency's display settings.
func (s *service) Format(ctx context.Context, amount decimal.Decimal, code string) (string, error) {
	currency, err := s.loadCurrency(ctx, code)
	if err != nil {
		return "", err
	}
	return Format(amount, currency), nil
}

func (s *service) loadCurrency(ctx context.Context, code string) (*models.Currency, error) {
	currency, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("currency %s not found", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load currency")
	}
	return currency, nil
}
