package service

import (
	"context"
	"testing"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/testutil"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveBatch(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()
	b := testutil.SeedBatch(t, env.db, "MCC-020", entity.BatchStatusPendingQC, 120.5)

	inv, err := env.svc.QC.ApproveBatch(ctx, b.ID, QCApproval{Moisture: 4.2, Purity: 99, ParticleSize: 50}, "")
	require.NoError(t, err)
	assert.Equal(t, "MCC-020", inv.BatchNo)
	assert.Equal(t, entity.DefaultProductName, inv.ProductName)
	assert.Equal(t, entity.DefaultStorageLocation, inv.StorageLocation)
	assert.Equal(t, entity.InventoryStatusInStock, inv.Status)
	assert.True(t, inv.QuantityKg.Equal(kg(120.5)), "got %s", inv.QuantityKg)

	stored, err := env.repos.Batch.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusApproved, stored.Status)

	records, total, err := env.svc.QC.Records(ctx, b.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, entity.QCStatusPass, records[0].Status)
	assert.Equal(t, 4.2, records[0].Moisture)

	logs := env.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, "QC APPROVED: Batch MCC-020 passed with 99.0% purity", logs[0].Message)
	assert.Equal(t, "QC_Analyst", logs[0].Actor)
	assert.Equal(t, []string{"activity.success"}, env.pub.subjects())

	pending, err := env.svc.QC.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestApproveBatch_NotFound(t *testing.T) {
	env := newTestEnv(t, Infra{})
	_, err := env.svc.QC.ApproveBatch(context.Background(), "missing", QCApproval{Purity: 98}, "qa")
	requireKind(t, err, apperr.KindNotFound)
	assert.Empty(t, env.logs(t))
}

// 成品写入失败时批次状态与质检记录一并回滚
func TestApproveBatch_RollsBackAsWhole(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()
	b := testutil.SeedBatch(t, env.db, "MCC-021", entity.BatchStatusPendingQC, 60)
	testutil.SeedInventory(t, env.db, "MCC-021", entity.InventoryStatusInStock, 60)

	_, err := env.svc.QC.ApproveBatch(ctx, b.ID, QCApproval{Moisture: 5, Purity: 98.5, ParticleSize: 40}, "qa")
	requireKind(t, err, apperr.KindInternal)

	stored, err := env.repos.Batch.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusPendingQC, stored.Status)

	_, total, err := env.svc.QC.Records(ctx, b.ID, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, env.logs(t))
	assert.Empty(t, env.pub.subjects())
}

func TestFormatPurity(t *testing.T) {
	assert.Equal(t, "99.0", formatPurity(99))
	assert.Equal(t, "98.75", formatPurity(98.75))
	assert.Equal(t, "0.0", formatPurity(0))
}
