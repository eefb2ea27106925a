package service

import (
	"context"
	"testing"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/repository"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/testutil"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startReq(batch string, qty float64) StartBatchRequest {
	return StartBatchRequest{
		BatchNumber:     batch,
		Phase:           "Acid Hydrolysis",
		RawMaterialName: "Wood Pulp",
		QuantityToUse:   kg(qty),
		AuthorizedBy:    "Supervisor Rao",
		Shift:           "A",
	}
}

func materialQty(t *testing.T, env *testEnv, materialID string) float64 {
	t.Helper()
	m, err := env.repos.Material.FindByMaterialID(context.Background(), materialID)
	require.NoError(t, err)
	v, _ := m.QuantityKg.Float64()
	return v
}

func TestStartBatch_DeductsAndCreatesActive(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()
	testutil.SeedMaterial(t, env.db, "RM-01", "Wood Pulp", 500)

	batch, err := env.svc.Production.StartBatch(ctx, startReq("MCC-001", 120))
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusActive, batch.Status)
	assert.Equal(t, 380.0, materialQty(t, env, "RM-01"))

	active, err := env.svc.Production.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "MCC-001", active[0].BatchNumber)

	history, err := env.svc.Material.History(ctx, "RM-01", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entity.MaterialActionIssue, history[0].Action)
	assert.Equal(t, "MCC-001", history[0].Reference)

	logs := env.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, "Production Started: Batch MCC-001 (Acid Hydrolysis)", logs[0].Message)
	assert.Equal(t, "Supervisor Rao", logs[0].Actor)
	assert.Equal(t, entity.LogTypeInfo, logs[0].Type)
}

// 扣减按 decimal 精确计算：0.3 - 0.1 = 0.2，剩余 0.2 可再次全部领用
func TestStartBatch_DeductsFractionalExactly(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()
	_, err := env.svc.Material.Intake(ctx, MaterialEntry{MaterialID: "RM-01", Name: "Wood Pulp", Kg: decimal.RequireFromString("0.3")}, "store")
	require.NoError(t, err)

	req := startReq("MCC-001", 0)
	req.QuantityToUse = decimal.RequireFromString("0.1")
	_, err = env.svc.Production.StartBatch(ctx, req)
	require.NoError(t, err)

	m, err := env.repos.Material.FindByMaterialID(ctx, "RM-01")
	require.NoError(t, err)
	assert.Equal(t, "0.2", m.QuantityKg.String())

	req = startReq("MCC-002", 0)
	req.QuantityToUse = decimal.RequireFromString("0.2")
	_, err = env.svc.Production.StartBatch(ctx, req)
	require.NoError(t, err)

	m, err = env.repos.Material.FindByMaterialID(ctx, "RM-01")
	require.NoError(t, err)
	assert.True(t, m.QuantityKg.IsZero(), "got %s", m.QuantityKg)

	req = startReq("MCC-003", 0)
	req.QuantityToUse = decimal.RequireFromString("0.001")
	_, err = env.svc.Production.StartBatch(ctx, req)
	requireKind(t, err, apperr.KindInsufficientStock)
}

func TestStartBatch_InsufficientStockLeavesLedger(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()
	testutil.SeedMaterial(t, env.db, "RM-01", "Wood Pulp", 50)

	_, err := env.svc.Production.StartBatch(ctx, startReq("MCC-001", 50.5))
	requireKind(t, err, apperr.KindInsufficientStock)
	assert.Equal(t, 50.0, materialQty(t, env, "RM-01"))

	active, err := env.svc.Production.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	// 恰好用完允许
	_, err = env.svc.Production.StartBatch(ctx, startReq("MCC-001", 50))
	require.NoError(t, err)
	assert.Equal(t, 0.0, materialQty(t, env, "RM-01"))
}

func TestStartBatch_UnknownMaterial(t *testing.T) {
	env := newTestEnv(t, Infra{})
	_, err := env.svc.Production.StartBatch(context.Background(), startReq("MCC-001", 1))
	requireKind(t, err, apperr.KindInsufficientStock)
}

func TestStartBatch_ConflictWhileActive(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()
	testutil.SeedMaterial(t, env.db, "RM-01", "Wood Pulp", 500)

	first, err := env.svc.Production.StartBatch(ctx, startReq("MCC-001", 100))
	require.NoError(t, err)

	_, err = env.svc.Production.StartBatch(ctx, startReq("MCC-001", 100))
	requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, 400.0, materialQty(t, env, "RM-01"))

	// 离开 ACTIVE 后同号可再次开工
	_, err = env.svc.Production.EndBatch(ctx, first.ID)
	require.NoError(t, err)
	_, err = env.svc.Production.StartBatch(ctx, startReq("MCC-001", 100))
	require.NoError(t, err)
	assert.Equal(t, 300.0, materialQty(t, env, "RM-01"))
}

func TestActiveBatchNumberIsUniqueInStorage(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()
	testutil.SeedBatch(t, env.db, "MCC-007", entity.BatchStatusActive, 10)

	err := env.repos.Batch.Create(ctx, &entity.ProductionBatch{
		BatchNumber: "MCC-007", Phase: "Milling", MaterialUsed: "Wood Pulp",
		QuantityUsed: kg(5), Shift: "B", Status: entity.BatchStatusActive, AuthorizedBy: "x",
	})
	require.Error(t, err)

	require.NoError(t, env.repos.Batch.Create(ctx, &entity.ProductionBatch{
		BatchNumber: "MCC-007", Phase: "Milling", MaterialUsed: "Wood Pulp",
		QuantityUsed: kg(5), Shift: "B", Status: entity.BatchStatusPendingQC, AuthorizedBy: "x",
	}))
}

func TestEndBatch(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()
	b := testutil.SeedBatch(t, env.db, "MCC-010", entity.BatchStatusActive, 75)

	ended, err := env.svc.Production.EndBatch(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusPendingQC, ended.Status)

	pending, err := env.svc.Production.ListPendingQC(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	logs := env.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, "Batch MCC-010 completed production and moved to QC", logs[0].Message)
	assert.Equal(t, entity.LogTypeSuccess, logs[0].Type)
	assert.Equal(t, []string{"activity.success"}, env.pub.subjects())
}

func TestEndBatch_NotFoundHasNoSideEffects(t *testing.T) {
	env := newTestEnv(t, Infra{})
	_, err := env.svc.Production.EndBatch(context.Background(), "missing")
	requireKind(t, err, apperr.KindNotFound)
	assert.Empty(t, env.logs(t))
}

// 结束批次不校验当前状态
func TestEndBatch_DoesNotGuardStatus(t *testing.T) {
	env := newTestEnv(t, Infra{})
	b := testutil.SeedBatch(t, env.db, "MCC-011", entity.BatchStatusApproved, 75)

	ended, err := env.svc.Production.EndBatch(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusPendingQC, ended.Status)

	stored, err := repository.NewBatchRepository(env.db).FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusPendingQC, stored.Status)
}
