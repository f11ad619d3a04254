package pricerules

import (
	"testing"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Schema is created by hand because the production models carry postgres
// column defaults sqlite cannot parse.
const testSchema = `
CREATE TABLE IF NOT EXISTS currency_price_rules (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	value NUMERIC NOT NULL,
	currency_code TEXT NOT NULL,
	region_code TEXT,
	priority INTEGER NOT NULL DEFAULT 0,
	min_order_value NUMERIC,
	max_order_value NUMERIC,
	start_date DATETIME,
	end_date DATETIME,
	is_active BOOLEAN NOT NULL DEFAULT true,
	created_at DATETIME,
	updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS currencies (
	code TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	symbol TEXT NOT NULL,
	decimals INTEGER NOT NULL DEFAULT 2,
	is_default BOOLEAN NOT NULL DEFAULT false,
	is_active BOOLEAN NOT NULL DEFAULT true,
	exchange_rate NUMERIC NOT NULL,
	last_updated DATETIME,
	format TEXT,
	position TEXT NOT NULL DEFAULT 'before',
	thousands_separator TEXT NOT NULL DEFAULT ',',
	decimal_separator TEXT NOT NULL DEFAULT '.',
	created_at DATETIME,
	updated_at DATETIME
);
`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.Exec(testSchema).Error; err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}
	return conn
}

func mustCreateCurrency(t *testing.T, tx *gorm.DB, code string, rate string, isDefault bool) *models.Currency {
	t.Helper()
	currency := &models.Currency{
		Code:               code,
		Name:               code + " test currency",
		Symbol:             "$",
		Decimals:           2,
		IsDefault:          isDefault,
		IsActive:           true,
		ExchangeRate:       decimal.RequireFromString(rate),
		Position:           enums.SymbolPositionBefore,
		ThousandsSeparator: ",",
		DecimalSeparator:   ".",
	}
	if err := tx.Create(currency).Error; err != nil {
		t.Fatalf("create currency %s: %v", code, err)
	}
	return currency
}

func mustCreateRule(t *testing.T, tx *gorm.DB, rule *models.CurrencyPriceRule) *models.CurrencyPriceRule {
	t.Helper()
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	if err := tx.Create(rule).Error; err != nil {
		t.Fatalf("create price rule: %v", err)
	}
	return rule
}
