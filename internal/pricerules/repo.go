package pricerules

import (
	"context"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires together price rule persistence helpers.
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

// FindApplicable loads the active rules targeting the currency, keeping rules
// with no region alongside rules matching the given region. Date and
// order-value bounds are evaluated in memory by the engine.
func (r *Repository) FindApplicable(ctx context.Context, currencyCode string, regionCode *string) ([]models.CurrencyPriceRule, error) {
	q := r.db.WithContext(ctx).
		Where("currency_code = ? AND is_active = ?", currencyCode, true)
	if regionCode != nil {
		q = q.Where("(region_code IS NULL OR region_code = ?)", *regionCode)
	} else {
		q = q.Where("region_code IS NULL")
	}

	var rules []models.CurrencyPriceRule
	if err := q.Order("priority ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Create inserts a new rule.
func (r *Repository) Create(ctx context.Context, rule *models.CurrencyPriceRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

// Update saves the full rule row.
func (r *Repository) Update(ctx context.Context, rule *models.CurrencyPriceRule) error {
	res := r.db.WithContext(ctx).
		Model(&models.CurrencyPriceRule{}).
		Where("id = ?", rule.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(rule)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID loads a single rule.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CurrencyPriceRule, error) {
	var rule models.CurrencyPriceRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListByCurrency returns every rule targeting the currency, active or not.
func (r *Repository) ListByCurrency(ctx context.Context, currencyCode string) ([]models.CurrencyPriceRule, error) {
	var rules []models.CurrencyPriceRule
	if err := r.db.WithContext(ctx).
		Where("currency_code = ?", currencyCode).
		Order("priority ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Delete removes a rule by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.CurrencyPriceRule{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
