package promotions

import (
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
// column defaults sqlite cannot parse.
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
CREATE TABLE IF NOT EXISTS promotion_rules (
	id TEXT PRIMARY KEY,
	promotion_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	operator TEXT NOT NULL,
	value TEXT,
	is_active BOOLEAN NOT NULL DEFAULT true,
	created_at DATETIME,
	updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS promotion_actions (
	id TEXT PRIMARY KEY,
	promotion_id TEXT NOT NULL,
	type TEXT NOT NULL,
	value NUMERIC NOT NULL,
	target TEXT NOT NULL DEFAULT 'order',
	target_ids TEXT,
	metadata TEXT,
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

func activePromotion(name string) *models.Promotion {
	return &models.Promotion{
		ID:        uuid.New(),
		Name:      name,
		Status:    enums.PromotionStatusActive,
		Scope:     enums.PromotionScopeAll,
		StartDate: time.Now().UTC().Add(-time.Hour),
	}
}

func mustCreatePromotion(t *testing.T, tx *gorm.DB, promotion *models.Promotion) *models.Promotion {
	t.Helper()
	for i := range promotion.Rules {
		if promotion.Rules[i].ID == uuid.Nil {
			promotion.Rules[i].ID = uuid.New()
		}
		promotion.Rules[i].PromotionID = promotion.ID
	}
	for i := range promotion.Actions {
		if promotion.Actions[i].ID == uuid.Nil {
			promotion.Actions[i].ID = uuid.New()
		}
		promotion.Actions[i].PromotionID = promotion.ID
	}
	if err := tx.Create(promotion).Error; err != nil {
		t.Fatalf("create promotion %s: %v", promotion.Name, err)
	}
	return promotion
}
