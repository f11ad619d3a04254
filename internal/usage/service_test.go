package usage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/angelmondragon/merchantry-backend/pkg/db"
	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/merchantry-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn))
	require.NoError(t, err)
	return svc, conn
}

func redemption(promotionID uuid.UUID) RecordUsageInput {
	return RecordUsageInput{
		PromotionID:    promotionID,
		OrderID:        uuid.New(),
		DiscountAmount: "12.50",
	}
}

func TestRecordUsageAppendsRowAndIncrementsCounter(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	promotion := mustCreatePromotion(t, conn, 10, 0)

	record, err := svc.RecordUsage(ctx, redemption(promotion.ID))
	require.NoError(t, err)
	assert.Equal(t, promotion.ID, record.PromotionID)
	assert.Equal(t, "12.5", record.DiscountAmount)

	var reloaded models.Promotion
	require.NoError(t, conn.First(&reloaded, "id = ?", promotion.ID).Error)
	assert.Equal(t, 1, reloaded.UsageCount)

	count, err := svc.CountUsage(ctx, promotion.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRecordUsageUnknownPromotion(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RecordUsage(context.Background(), redemption(uuid.New()))
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestRecordUsageRejectsDuplicateOrder(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	promotion := mustCreatePromotion(t, conn, 10, 0)

	input := redemption(promotion.ID)
	_, err := svc.RecordUsage(ctx, input)
	require.NoError(t, err)

	_, err = svc.RecordUsage(ctx, input)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))

	// The rejected attempt rolls back its counter increment too.
	var reloaded models.Promotion
	require.NoError(t, conn.First(&reloaded, "id = ?", promotion.ID).Error)
	assert.Equal(t, 1, reloaded.UsageCount)

	count, err := svc.CountUsage(ctx, promotion.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRecordUsageCapReached(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	promotion := mustCreatePromotion(t, conn, 3, 3)

	_, err := svc.RecordUsage(ctx, redemption(promotion.ID))
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeCapacityExceeded))

	// The failed attempt must leave no trace: no counter bump, no ledger row.
	var reloaded models.Promotion
	require.NoError(t, conn.First(&reloaded, "id = ?", promotion.ID).Error)
	assert.Equal(t, 3, reloaded.UsageCount)

	count, err := svc.CountUsage(ctx, promotion.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestRecordUsageZeroLimitNeverCaps(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	promotion := mustCreatePromotion(t, conn, 0, 1000)

	_, err := svc.RecordUsage(ctx, redemption(promotion.ID))
	require.NoError(t, err)

	var reloaded models.Promotion
	require.NoError(t, conn.First(&reloaded, "id = ?", promotion.ID).Error)
	assert.Equal(t, 1001, reloaded.UsageCount)
}

func TestRecordUsageValidation(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	promotion := mustCreatePromotion(t, conn, 0, 0)

	bad := redemption(promotion.ID)
	bad.DiscountAmount = "not-a-number"
	_, err := svc.RecordUsage(ctx, bad)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	negative := redemption(promotion.ID)
	negative.DiscountAmount = "-5"
	_, err = svc.RecordUsage(ctx, negative)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestRecordUsageConcurrentRedemptionsHonorCap(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	const limit = 5
	const attempts = 20
	promotion := mustCreatePromotion(t, conn, limit, 0)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordUsage(ctx, redemption(promotion.ID))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	capacityLost := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case pkgerrors.HasCode(err, pkgerrors.CodeCapacityExceeded):
			capacityLost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, limit, succeeded, "exactly the cap's worth of redemptions succeed")
	assert.Equal(t, attempts-limit, capacityLost)

	var reloaded models.Promotion
	require.NoError(t, conn.First(&reloaded, "id = ?", promotion.ID).Error)
	assert.Equal(t, limit, reloaded.UsageCount)

	count, err := svc.CountUsage(ctx, promotion.ID)
	require.NoError(t, err)
	assert.EqualValues(t, limit, count)
}

func TestCountUsageReconcilesWithLedgerRows(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	promotion := mustCreatePromotion(t, conn, 0, 0)

	for i := 0; i < 4; i++ {
		_, err := svc.RecordUsage(ctx, redemption(promotion.ID))
		require.NoError(t, err, fmt.Sprintf("redemption %d", i))
	}

	count, err := svc.CountUsage(ctx, promotion.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)

	var reloaded models.Promotion
	require.NoError(t, conn.First(&reloaded, "id = ?", promotion.ID).Error)
	assert.EqualValues(t, count, reloaded.UsageCount)
}
