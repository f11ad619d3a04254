package currencies

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository wires together currency catalog persistence helpers.
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

// GetByCode loads a single currency by its ISO code.
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.Currency, error) {
	var currency models.Currency
	if err := r.db.WithContext(ctx).First(&currency, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &currency, nil
}

// GetDefault loads the catalog's default currency.
func (r *Repository) GetDefault(ctx context.Context) (*models.Currency, error) {
	var currency models.Currency
	if err := r.db.WithContext(ctx).First(&currency, "is_default = ?", true).Error; err != nil {
		return nil, err
	}
	return &currency, nil
}

// ListActive returns all active currencies ordered by code.
func (r *Repository) ListActive(ctx context.Context) ([]models.Currency, error) {
	var out []models.Currency
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// List returns the full catalog ordered by code.
func (r *Repository) List(ctx context.Context) ([]models.Currency, error) {
	var out []models.Currency
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert inserts or updates the currency row keyed by code.
func (r *Repository) Upsert(ctx context.Context, currency *models.Currency) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			UpdateAll: true,
		}).
		Create(currency).Error
}

// ClearDefaultExcept unsets the default flag on every currency other than code.
func (r *Repository) ClearDefaultExcept(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).
		Model(&models.Currency{}).
		Where("code <> ? AND is_default = ?", code, true).
		Update("is_default", false).Error
}

// UpdateRate stores a freshly fetched exchange rate and its fetch timestamp.
func (r *Repository) UpdateRate(ctx context.Context, code string, rate decimal.Decimal, fetchedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Currency{}).
		Where("code = ?", code).
		Updates(map[string]any{
			"exchange_rate": rate,
			"last_updated":  fetchedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a currency row by code.
func (r *Repository) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Delete(&models.Currency{}, "code = ?", code)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err is the record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
