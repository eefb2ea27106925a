package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummary_Counts(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()

	testutil.SeedBatch(t, env.db, "B-1", entity.BatchStatusActive, 10)
	testutil.SeedBatch(t, env.db, "B-2", entity.BatchStatusActive, 10)
	testutil.SeedBatch(t, env.db, "B-3", entity.BatchStatusScheduled, 10)
	testutil.SeedBatch(t, env.db, "B-4", entity.BatchStatusShipped, 10)
	testutil.SeedBatch(t, env.db, "B-5", entity.BatchStatusCompleted, 10)
	testutil.SeedInventory(t, env.db, "B-6", entity.InventoryStatusInStock, 150)
	testutil.SeedInventory(t, env.db, "B-7", entity.InventoryStatusInStock, 75)
	testutil.SeedInventory(t, env.db, "B-8", entity.InventoryStatusInStock, 20)
	require.NoError(t, env.repos.QCRecord.Create(ctx, &entity.QCRecord{BatchID: "x", Status: entity.QCStatusPending}))

	sum, err := env.svc.Dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, StageCount{Active: 2, Waiting: 1}, sum.Production)
	assert.Equal(t, StageCount{Active: 0, Waiting: 1}, sum.QC)
	assert.Equal(t, StageCount{Active: 1, Waiting: 1}, sum.Inventory)
	assert.Equal(t, StageCount{Active: 1, Waiting: 1}, sum.Dispatch)
}

func TestDashboardSummary_UsesCache(t *testing.T) {
	mc := &memoryCache{data: map[string]string{}}
	env := newTestEnv(t, Infra{Cache: mc})
	ctx := context.Background()

	testutil.SeedBatch(t, env.db, "B-1", entity.BatchStatusActive, 10)
	first, err := env.svc.Dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Production.Active)
	assert.Equal(t, 1, mc.sets)

	// 缓存期内读到旧值
	testutil.SeedBatch(t, env.db, "B-2", entity.BatchStatusActive, 10)
	second, err := env.svc.Dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.Production.Active)
	assert.Equal(t, 1, mc.sets)

	require.NoError(t, mc.Delete(ctx, dashboardSummaryKey))
	third, err := env.svc.Dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), third.Production.Active)
}

func TestDashboardAnalytics(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()

	testutil.SeedBatch(t, env.db, "B-1", entity.BatchStatusActive, 40)
	testutil.SeedBatch(t, env.db, "B-2", entity.BatchStatusPendingQC, 2.5)
	old := &entity.ProductionBatch{
		BatchNumber: "B-OLD", Phase: "Milling", MaterialUsed: "Wood Pulp", QuantityUsed: kg(999),
		Shift: "C", Status: entity.BatchStatusCompleted, AuthorizedBy: "x",
		CreatedAt: time.Now().AddDate(0, 0, -30),
	}
	require.NoError(t, env.repos.Batch.Create(ctx, old))

	out, err := env.svc.Dashboard.Analytics(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 42.5, out[0].Output)
	assert.Equal(t, time.Now().Format("2006-01-02"), out[0].Date)
}

func TestDashboardNotifications(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()

	empty, err := env.svc.Dashboard.Notifications(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for i := 0; i < 20; i++ {
		env.svc.Activity.Log(ctx, fmt.Sprintf("event %d", i), "system", entity.LogTypeInfo, nil)
	}
	logs, err := env.svc.Dashboard.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 15)
	assert.Equal(t, "event 19", logs[0].Message)
}
