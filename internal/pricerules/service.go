package pricerules

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/merchantry-backend/internal/currencies"
	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/merchantry-backend/pkg/errors"
	"github.com/angelmondragon/merchantry-backend/pkg/validate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service exposes price rule management and quoting.
type Service interface {
	CreateRule(ctx context.Context, input SaveRuleInput) (*PriceRuleDTO, error)
	UpdateRule(ctx context.Context, id uuid.UUID, input SaveRuleInput) (*PriceRuleDTO, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
	ListRules(ctx context.Context, currencyCode string) ([]PriceRuleDTO, error)
	Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error)
}

type currencyReader interface {
	GetByCode(ctx context.Context, code string) (*models.Currency, error)
	GetDefault(ctx context.Context) (*models.Currency, error)
}

type service struct {
	repo       *Repository
	currencies currencyReader
	now        func() time.Time
}

// NewService constructs a price rule service instance.
func NewService(repo *Repository, currencyRepo currencyReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("price rule repository required")
	}
	if currencyRepo == nil {
		return nil, fmt.Errorf("currency repository required")
	}
	return &service{repo: repo, currencies: currencyRepo, now: time.Now}, nil
}

// CreateRule validates and stores a new price rule.
func (s *service) CreateRule(ctx context.Context, input SaveRuleInput) (*PriceRuleDTO, error) {
	record, err := s.buildRule(ctx, input)
	if err != nil {
		return nil, err
	}
	record.ID = uuid.New()
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create price rule")
	}
	return toPriceRuleDTO(record), nil
}

// UpdateRule replaces the stored rule with the validated payload.
func (s *service) UpdateRule(ctx context.Context, id uuid.UUID, input SaveRuleInput) (*PriceRuleDTO, error) {
	record, err := s.buildRule(ctx, input)
	if err != nil {
		return nil, err
	}
	record.ID = id
	if err := s.repo.Update(ctx, record); err != nil {
		if currencies.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price rule not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update price rule")
	}
	reloaded, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload price rule")
	}
	return toPriceRuleDTO(reloaded), nil
}

// DeleteRule removes a rule by id.
func (s *service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if currencies.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "price rule not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete price rule")
	}
	return nil
}

// ListRules returns every rule targeting the currency.
func (s *service) ListRules(ctx context.Context, currencyCode string) ([]PriceRuleDTO, error) {
	rules, err := s.repo.ListByCurrency(ctx, currencyCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list price rules")
	}
	out := make([]PriceRuleDTO, 0, len(rules))
	for i := range rules {
		out = append(out, *toPriceRuleDTO(&rules[i]))
	}
	return out, nil
}

// Quote converts the amount into the target currency, folds the applicable
// price rules over it and formats the result for display.
func (s *service) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
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
	base, err := s.currencies.GetDefault(ctx)
	if err != nil {
		if currencies.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "no default currency is configured")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load default currency")
	}

	baseAmount, err := currencies.Convert(amount, from, base)
	if err != nil {
		return nil, err
	}
	convertedAmount, err := currencies.Convert(amount, from, to)
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.FindApplicable(ctx, to.Code, input.RegionCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load applicable price rules")
	}

	region := ""
	if input.RegionCode != nil {
		region = *input.RegionCode
	}
	now := s.now().UTC()
	finalAmount := Apply(baseAmount, convertedAmount, to, region, candidates, now)

	applied := 0
	for i := range candidates {
		if Applicable(&candidates[i], to.Code, region, convertedAmount, now) {
			applied++
		}
	}

	return &QuoteResult{
		Amount:       finalAmount.Round(int32(to.Decimals)).String(),
		Currency:     to.Code,
		Formatted:    currencies.Format(finalAmount, to),
		RulesApplied: applied,
	}, nil
}

func (s *service) buildRule(ctx context.Context, input SaveRuleInput) (*models.CurrencyPriceRule, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	ruleType, err := enums.ParsePriceRuleType(input.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	value, err := decimal.NewFromString(input.Value)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "value must be a decimal number")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "endDate must not precede startDate")
	}

	if _, err := s.loadCurrency(ctx, input.CurrencyCode); err != nil {
		return nil, err
	}

	record := &models.CurrencyPriceRule{
		Type:         ruleType,
		Value:        value,
		CurrencyCode: input.CurrencyCode,
		RegionCode:   input.RegionCode,
		Priority:     input.Priority,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		IsActive:     input.IsActive,
	}
	if input.MinOrderValue != nil {
		bound, err := decimal.NewFromString(*input.MinOrderValue)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minOrderValue must be a decimal number")
		}
		record.MinOrderValue = &bound
	}
	if input.MaxOrderValue != nil {
		bound, err := decimal.NewFromString(*input.MaxOrderValue)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "maxOrderValue must be a decimal number")
		}
		record.MaxOrderValue = &bound
	}
	if record.MinOrderValue != nil && record.MaxOrderValue != nil && record.MaxOrderValue.LessThan(*record.MinOrderValue) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "maxOrderValue must not be below minOrderValue")
	}
	return record, nil
}

func (s *service) loadCurrency(ctx context.Context, code string) (*models.Currency, error) {
	currency, err := s.currencies.GetByCode(ctx, code)
	if err != nil {
		if currencies.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("currency %s not found", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load currency")
	}
	return currency, nil
}
