package promotions

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/merchantry-backend/internal/usage"
	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/merchantry-backend/pkg/errors"
	"github.com/angelmondragon/merchantry-backend/pkg/logger"
	"github.com/angelmondragon/merchantry-backend/pkg/pagination"
	"github.com/angelmondragon/merchantry-backend/pkg/validate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes promotion management and order evaluation.
type Service interface {
	CreatePromotion(ctx context.Context, input CreatePromotionInput) (*PromotionDTO, error)
	GetPromotion(ctx context.Context, id uuid.UUID) (*PromotionDTO, error)
	ListPromotions(ctx context.Context, params ListPromotionsParams) (*PromotionListDTO, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.PromotionStatus) error
	DeletePromotion(ctx context.Context, id uuid.UUID) error
	EvaluateOrder(ctx context.Context, order OrderContext) (*OrderEvaluationResult, error)
	CommitOrder(ctx context.Context, order OrderContext) (*OrderCommitResult, error)
}

type usageRecorder interface {
	RecordUsage(ctx context.Context, input usage.RecordUsageInput) (*usage.UsageRecordDTO, error)
}

type service struct {
	repo      *Repository
	ledger    usageRecorder
	evaluator *Evaluator
	logg      *logger.Logger
}

// NewService constructs a promotion service instance.
func NewService(repo *Repository, ledger usageRecorder, evaluator *Evaluator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("usage ledger required")
	}
	if evaluator == nil {
		evaluator = NewEvaluator()
	}
	return &service{repo: repo, ledger: ledger, evaluator: evaluator, logg: logg}, nil
}

// CreatePromotion validates and stores a promotion with its rules and actions.
func (s *service) CreatePromotion(ctx context.Context, input CreatePromotionInput) (*PromotionDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	status, err := enums.ParsePromotionStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	scope, err := enums.ParsePromotionScope(input.Scope)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "endDate must not precede startDate")
	}

	record := &models.Promotion{
		ID:         uuid.New(),
		Name:       input.Name,
		Status:     status,
		Scope:      scope,
		Priority:   input.Priority,
		StartDate:  input.StartDate.UTC(),
		EndDate:    input.EndDate,
		UsageLimit: input.UsageLimit,
		Exclusive:  input.Exclusive,
		CouponID:   input.CouponID,
		MerchantID: input.MerchantID,
	}

	if input.DiscountType != "" {
		discountType, err := enums.ParseDiscountType(input.DiscountType)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		record.DiscountType = discountType
		value, err := decimal.NewFromString(input.DiscountValue)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discountValue must be a decimal number")
		}
		record.DiscountValue = value
	}
	if input.MinOrderAmount != nil {
		bound, err := decimal.NewFromString(*input.MinOrderAmount)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minOrderAmount must be a decimal number")
		}
		record.MinOrderAmount = &bound
	}
	if input.MaxDiscountAmount != nil {
		bound, err := decimal.NewFromString(*input.MaxDiscountAmount)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "maxDiscountAmount must be a decimal number")
		}
		record.MaxDiscountAmount = &bound
	}

	for _, rule := range input.Rules {
		// Unknown kinds are stored as-is; the evaluator's open/closed policy
		// decides what they mean at evaluation time.
		operator, err := enums.ParseRuleOperator(rule.Operator)
		if err != nil {
			operator = enums.RuleOperator(rule.Operator)
		}
		record.Rules = append(record.Rules, models.PromotionRule{
			ID:          uuid.New(),
			PromotionID: record.ID,
			Kind:        enums.ConditionKind(rule.Kind),
			Operator:    operator,
			Value:       rule.Value,
			IsActive:    rule.IsActive,
		})
	}
	for _, action := range input.Actions {
		actionType, err := enums.ParseActionType(action.Type)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		target, err := enums.ParseActionTarget(action.Target)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		value, err := decimal.NewFromString(action.Value)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "action value must be a decimal number")
		}
		record.Actions = append(record.Actions, models.PromotionAction{
			ID:          uuid.New(),
			PromotionID: record.ID,
			Type:        actionType,
			Value:       value,
			Target:      target,
			TargetIDs:   action.TargetIDs,
			Metadata:    action.Metadata,
		})
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create promotion")
	}
	return toPromotionDTO(record), nil
}

// GetPromotion loads a promotion with its rules and actions.
func (s *service) GetPromotion(ctx context.Context, id uuid.UUID) (*PromotionDTO, error) {
	promotion, err := s.loadPromotion(ctx, id)
	if err != nil {
		return nil, err
	}
	if promotion.Rules, err = s.repo.FindRules(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load promotion rules")
	}
	if promotion.Actions, err = s.repo.FindActions(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load promotion actions")
	}
	return toPromotionDTO(promotion), nil
}

// ListPromotions pages through promotion headers newest first.
func (s *service) ListPromotions(ctx context.Context, params ListPromotionsParams) (*PromotionListDTO, error) {
	query := ListQuery{Limit: params.Limit}
	if params.Status != "" {
		status, err := enums.ParsePromotionStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		query.Status = &status
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list promotions")
	}

	out := &PromotionListDTO{Items: make([]PromotionDTO, 0, len(rows))}
	for i := range rows {
		out.Items = append(out.Items, *toPromotionDTO(&rows[i]))
	}
	if next != nil {
		out.Cursor = pagination.EncodeCursor(*next)
	}
	return out, nil
}

// SetStatus flips the promotion lifecycle status.
func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.PromotionStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid promotion status %q", status))
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if isNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update promotion status")
	}
	return nil
}

// DeletePromotion removes a promotion and its rules and actions.
func (s *service) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete promotion")
	}
	return nil
}

// EvaluateOrder checks every active promotion against the order, resolves the
// discounts of the eligible ones, enforces exclusivity and clamps the summed
// discount to the order total. Evaluation is read-only.
func (s *service) EvaluateOrder(ctx context.Context, order OrderContext) (*OrderEvaluationResult, error) {
	applied, totalDiscount, err := s.evaluate(ctx, &order)
	if err != nil {
		return nil, err
	}
	return &OrderEvaluationResult{
		OrderID:       order.OrderID,
		Applied:       applied,
		TotalDiscount: totalDiscount.String(),
	}, nil
}

// CommitOrder re-evaluates the order and records a usage row for every
// applied promotion. A promotion that loses the cap race between evaluation
// and commit is skipped and reported, not treated as a failure of the whole
// order.
func (s *service) CommitOrder(ctx context.Context, order OrderContext) (*OrderCommitResult, error) {
	applied, _, err := s.evaluate(ctx, &order)
	if err != nil {
		return nil, err
	}

	result := &OrderCommitResult{OrderID: order.OrderID}
	committedTotal := decimal.Zero
	for _, candidate := range applied {
		_, err := s.ledger.RecordUsage(ctx, usage.RecordUsageInput{
			PromotionID:    candidate.PromotionID,
			OrderID:        order.OrderID,
			CustomerID:     order.CustomerID,
			SessionID:      order.SessionID,
			DiscountAmount: candidate.Discount,
		})
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeCapacityExceeded) {
				if s.logg != nil {
					warnCtx := s.logg.WithPromotionID(ctx, candidate.PromotionID.String())
					s.logg.Warn(warnCtx, "promotion exhausted between evaluation and commit, skipping")
				}
				result.Skipped = append(result.Skipped, candidate)
				continue
			}
			return nil, err
		}
		discount, parseErr := decimal.NewFromString(candidate.Discount)
		if parseErr == nil {
			committedTotal = committedTotal.Add(discount)
		}
		result.Applied = append(result.Applied, candidate)
	}
	if committedTotal.GreaterThan(order.Total) {
		committedTotal = order.Total
	}
	result.TotalDiscount = committedTotal.String()
	return result, nil
}

func (s *service) evaluate(ctx context.Context, order *OrderContext) ([]AppliedPromotionDTO, decimal.Decimal, error) {
	active, err := s.repo.FindActive(ctx, nil, order.MerchantID)
	if err != nil {
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load active promotions")
	}

	var eligible []Candidate
	for i := range active {
		promotion := &active[i]
		rules, err := s.repo.FindRules(ctx, promotion.ID)
		if err != nil {
			return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load promotion rules")
		}
		if !s.evaluator.IsValid(ctx, promotion, rules, order) {
			continue
		}
		actions, err := s.repo.FindActions(ctx, promotion.ID)
		if err != nil {
			return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load promotion actions")
		}
		discount := ResolveDiscount(promotion, actions, order)
		eligible = append(eligible, Candidate{Promotion: promotion, Discount: discount})
	}

	selected := SelectCombinable(eligible)

	applied := make([]AppliedPromotionDTO, 0, len(selected))
	totalDiscount := decimal.Zero
	for _, candidate := range selected {
		applied = append(applied, AppliedPromotionDTO{
			PromotionID: candidate.Promotion.ID,
			Name:        candidate.Promotion.Name,
			Exclusive:   candidate.Promotion.Exclusive,
			Discount:    candidate.Discount.String(),
		})
		totalDiscount = totalDiscount.Add(candidate.Discount)
	}
	if totalDiscount.GreaterThan(order.Total) {
		totalDiscount = order.Total
	}
	return applied, totalDiscount, nil
}

func (s *service) loadPromotion(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	promotion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load promotion")
	}
	return promotion, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
