package currencies

import (
	"testing"
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Currency{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		conn.Exec("DELETE FROM currencies")
	})
	return conn
}

func mustCreateCurrency(t *testing.T, tx *gorm.DB, code string, rate string, isDefault bool) *models.Currency {
	t.Helper()
	now := time.Now().UTC()
	currency := &models.Currency{
		Code:               code,
		Name:               code + " test currency",
		Symbol:             "$",
		Decimals:           2,
		IsDefault:          isDefault,
		IsActive:           true,
		ExchangeRate:       decimal.RequireFromString(rate),
		LastUpdated:        &now,
		Position:           enums.SymbolPositionBefore,
		ThousandsSeparator: ",",
		DecimalSeparator:   ".",
	}
	if err := tx.Create(currency).Error; err != nil {
		t.Fatalf("create currency %s: %v", code, err)
	}
	return currency
}
