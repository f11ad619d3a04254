package usage

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/merchantry-backend/pkg/db"
	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/merchantry-backend/pkg/errors"
	"github.com/angelmondragon/merchantry-backend/pkg/validate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes the usage ledger.
type Service interface {
	RecordUsage(ctx context.Context, input RecordUsageInput) (*UsageRecordDTO, error)
	CountUsage(ctx context.Context, promotionID uuid.UUID) (int64, error)
}

// RecordUsageInput is the validated redemption payload.
type RecordUsageInput struct {
	PromotionID    uuid.UUID  `json:"promotionId" validate:"required"`
	OrderID        uuid.UUID  `json:"orderId" validate:"required"`
	CustomerID     *uuid.UUID `json:"customerId,omitempty"`
	SessionID      *string    `json:"sessionId,omitempty"`
	DiscountAmount string     `json:"discountAmount" validate:"required"`
}

// UsageRecordDTO is the ledger row returned to callers.
type UsageRecordDTO struct {
	ID             uuid.UUID  `json:"id"`
	PromotionID    uuid.UUID  `json:"promotionId"`
	OrderID        uuid.UUID  `json:"orderId"`
	CustomerID     *uuid.UUID `json:"customerId,omitempty"`
	SessionID      *string    `json:"sessionId,omitempty"`
	DiscountAmount string     `json:"discountAmount"`
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a usage ledger service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("usage repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// RecordUsage increments the promotion's usage counter and appends the ledger
// row in one transaction; both effects land together or not at all. Losing
// the cap race yields CodeCapacityExceeded so callers can present "promotion
// no longer available" instead of a generic failure. Redeeming the same
// promotion twice for one order yields CodeStateConflict.
func (s *service) RecordUsage(ctx context.Context, input RecordUsageInput) (*UsageRecordDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(input.DiscountAmount)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discountAmount must be a decimal number")
	}
	if amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discountAmount must not be negative")
	}

	record := &models.PromotionUsage{
		ID:             uuid.New(),
		PromotionID:    input.PromotionID,
		OrderID:        input.OrderID,
		CustomerID:     input.CustomerID,
		SessionID:      input.SessionID,
		DiscountAmount: amount,
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		incremented, err := repo.IncrementUsage(ctx, input.PromotionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("promotion %s not found", input.PromotionID))
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment promotion usage")
		}
		if !incremented {
			return pkgerrors.New(pkgerrors.CodeCapacityExceeded, fmt.Sprintf("promotion %s has reached its usage limit", input.PromotionID))
		}
		if err := repo.CreateUsage(ctx, record); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("promotion %s already redeemed for order %s", input.PromotionID, input.OrderID))
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append usage record")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UsageRecordDTO{
		ID:             record.ID,
		PromotionID:    record.PromotionID,
		OrderID:        record.OrderID,
		CustomerID:     record.CustomerID,
		SessionID:      record.SessionID,
		DiscountAmount: record.DiscountAmount.String(),
	}, nil
}

// CountUsage returns the ledger row count for a promotion.
func (s *service) CountUsage(ctx context.Context, promotionID uuid.UUID) (int64, error) {
	count, err := s.repo.CountUsage(ctx, promotionID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count promotion usage")
	}
	return count, nil
}
