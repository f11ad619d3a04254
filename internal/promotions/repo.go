package promotions

import (
	"context"
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/angelmondragon/merchantry-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires together promotion persistence helpers.
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

// FindActive returns active promotions whose window covers now, optionally
// narrowed by scope and merchant. Merchant-less promotions are platform-wide
// and match every merchant filter.
func (r *Repository) FindActive(ctx context.Context, scope *enums.PromotionScope, merchantID *uuid.UUID) ([]models.Promotion, error) {
	now := time.Now().UTC()
	q := r.db.WithContext(ctx).
		Where("status = ?", enums.PromotionStatusActive).
		Where("start_date <= ?", now).
		Where("(end_date IS NULL OR end_date >= ?)", now)
	if scope != nil {
		q = q.Where("scope IN ?", []enums.PromotionScope{*scope, enums.PromotionScopeAll})
	}
	if merchantID != nil {
		q = q.Where("(merchant_id IS NULL OR merchant_id = ?)", *merchantID)
	}

	var out []models.Promotion
	if err := q.Order("priority DESC, created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListQuery narrows the paginated promotion listing.
type ListQuery struct {
	Limit  int
	Cursor *pagination.Cursor
	Status *enums.PromotionStatus
}

// List returns promotion headers newest first with cursor pagination.
func (r *Repository) List(ctx context.Context, params ListQuery) ([]models.Promotion, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Promotion{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var promotions []models.Promotion
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&promotions).Error; err != nil {
		return nil, nil, err
	}

	if len(promotions) > limit {
		promotions = promotions[:limit]
		// Cursor points at the last returned row; the next page filters
		// strictly before it, so the buffered row is not skipped.
		last := promotions[limit-1]
		return promotions, &pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		}, nil
	}

	return promotions, nil, nil
}

// FindByID loads the promotion header without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.WithContext(ctx).First(&promotion, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &promotion, nil
}

// FindRules loads the promotion's conditions.
func (r *Repository) FindRules(ctx context.Context, promotionID uuid.UUID) ([]models.PromotionRule, error) {
	var rules []models.PromotionRule
	if err := r.db.WithContext(ctx).
		Where("promotion_id = ?", promotionID).
		Order("created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// FindActions loads the promotion's discount actions.
func (r *Repository) FindActions(ctx context.Context, promotionID uuid.UUID) ([]models.PromotionAction, error) {
	var actions []models.PromotionAction
	if err := r.db.WithContext(ctx).
		Where("promotion_id = ?", promotionID).
		Order("created_at ASC").
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

// Create inserts the promotion header together with its rules and actions.
func (r *Repository) Create(ctx context.Context, promotion *models.Promotion) error {
	return r.db.WithContext(ctx).Create(promotion).Error
}

// UpdateStatus flips the promotion's lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PromotionStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Promotion{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the promotion and its dependent rows.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("promotion_id = ?", id).Delete(&models.PromotionRule{}).Error; err != nil {
		return err
	}
	if err := tx.Where("promotion_id = ?", id).Delete(&models.PromotionAction{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&models.Promotion{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
