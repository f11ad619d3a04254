package usage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Schema is created by hand because the production models carry postgres
// column defaults sqlite cannot parse. The test database is file-backed so
// concurrent transactions in the race tests see the same store.
const testSchema = `
CREATE TABLE IF NOT EXISTS promotions (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	scope TEXT NOT NULL DEFAULT 'all',
	priority INTEGER NOT NULL DEFAULT 0,
	start_date DATETIME NOT NULL,
	end_date DATETIME,
	usage_limit INTEGER NOT NULL DEFAULT 0,
	usage_count INTEGER NOT NULL DEFAULT 0,
	discount_type TEXT,
	discount_value NUMERIC NOT NULL DEFAULT 0,
	min_order_amount NUMERIC,
	max_discount_amount NUMERIC,
	exclusive BOOLEAN NOT NULL DEFAULT false,
	coupon_id TEXT,
	merchant_id TEXT,
	created_at DATETIME,
	updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS promotion_usages (
	id TEXT PRIMARY KEY,
	promotion_id TEXT NOT NULL,
	order_id TEXT NOT NULL,
	customer_id TEXT,
	session_id TEXT,
	discount_amount NUMERIC NOT NULL,
	applied_at DATETIME,
	UNIQUE (promotion_id, order_id)
);
`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "usage.db") + "?_busy_timeout=10000&_journal_mode=WAL"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
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

func mustCreatePromotion(t *testing.T, tx *gorm.DB, usageLimit, usageCount int) *models.Promotion {
	t.Helper()
	promotion := &models.Promotion{
		ID:         uuid.New(),
		Name:       "ledger test",
		Status:     enums.PromotionStatusActive,
		Scope:      enums.PromotionScopeAll,
		StartDate:  time.Now().UTC().Add(-time.Hour),
		UsageLimit: usageLimit,
		UsageCount: usageCount,
	}
	if err := tx.Create(promotion).Error; err != nil {
		t.Fatalf("create promotion: %v", err)
	}
	return promotion
}
