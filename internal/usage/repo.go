package usage

import (
	"context"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires together usage ledger persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// IncrementUsage bumps the promotion's usage counter in a single conditional
// update. The update only succeeds while the counter is below the limit (a
// zero limit never caps), which makes the cap check linearizable under
// concurrent redemptions. Returns false when the row exists but the cap is
// reached, gorm.ErrRecordNotFound when the promotion does not exist.
func (r *Repository) IncrementUsage(ctx context.Context, promotionID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Promotion{}).
		Where("id = ? AND (usage_limit = 0 OR usage_count < usage_limit)", promotionID).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var exists int64
	if err := r.db.WithContext(ctx).
		Model(&models.Promotion{}).
		Where("id = ?", promotionID).
		Count(&exists).Error; err != nil {
		return false, err
	}
	if exists == 0 {
		return false, gorm.ErrRecordNotFound
	}
	return false, nil
}

// CreateUsage appends a redemption record.
func (r *Repository) CreateUsage(ctx context.Context, record *models.PromotionUsage) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// CountUsage returns the number of ledger rows for the promotion. Used for
// reconciliation against the denormalized usage_count.
func (r *Repository) CountUsage(ctx context.Context, promotionID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PromotionUsage{}).
		Where("promotion_id = ?", promotionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByOrder returns the redemptions recorded against an order.
func (r *Repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.PromotionUsage, error) {
	var out []models.PromotionUsage
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("applied_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
