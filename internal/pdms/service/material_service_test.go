package service

import (
	"context"
	"testing"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func kg(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestIntake_SumsDeltas(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()

	for _, delta := range []float64{120.5, 30, 49.5} {
		_, err := env.svc.Material.Intake(ctx, MaterialEntry{MaterialID: "RM-01", Name: "Wood Pulp", Kg: kg(delta), Supplier: "Acme"}, "store")
		require.NoError(t, err)
	}

	m, err := env.repos.Material.FindByMaterialID(ctx, "RM-01")
	require.NoError(t, err)
	assert.True(t, m.QuantityKg.Equal(kg(200)), "got %s", m.QuantityKg)

	history, err := env.svc.Material.History(ctx, "RM-01", 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for _, h := range history {
		assert.Equal(t, entity.MaterialActionReceive, h.Action)
	}
}

// 小数入库按 decimal 精确累加，不能出现 0.30000000000000004
func TestIntake_SumsFractionalDeltas(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()

	for _, delta := range []string{"0.1", "0.2"} {
		_, err := env.svc.Material.Intake(ctx, MaterialEntry{MaterialID: "RM-09", Name: "Cotton Linter", Kg: decimal.RequireFromString(delta)}, "store")
		require.NoError(t, err)
	}
	m, err := env.repos.Material.FindByMaterialID(ctx, "RM-09")
	require.NoError(t, err)
	assert.Equal(t, "0.3", m.QuantityKg.String())

	entries := []MaterialEntry{
		{MaterialID: "RM-09", Name: "Cotton Linter", Kg: decimal.RequireFromString("1.1")},
		{MaterialID: "RM-09", Name: "Cotton Linter", Kg: decimal.RequireFromString("2.2")},
	}
	_, err = env.svc.Material.BulkImport(ctx, entries, "store")
	require.NoError(t, err)
	m, err = env.repos.Material.FindByMaterialID(ctx, "RM-09")
	require.NoError(t, err)
	assert.Equal(t, "3.6", m.QuantityKg.String())
}

// 0 kg 用于到货前登记原料
func TestIntake_ZeroRegistersMaterial(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()

	m, err := env.svc.Material.Intake(ctx, MaterialEntry{MaterialID: "RM-07", Name: "Caustic Soda", Supplier: "Acme"}, "store")
	require.NoError(t, err)
	assert.True(t, m.QuantityKg.IsZero())

	_, err = env.svc.Material.Intake(ctx, MaterialEntry{MaterialID: "RM-07", Name: "Caustic Soda"}, "store")
	require.NoError(t, err)
	_, err = env.svc.Material.Intake(ctx, MaterialEntry{MaterialID: "RM-07", Name: "Caustic Soda", Kg: kg(25)}, "store")
	require.NoError(t, err)

	m, err = env.repos.Material.FindByMaterialID(ctx, "RM-07")
	require.NoError(t, err)
	assert.True(t, m.QuantityKg.Equal(kg(25)), "got %s", m.QuantityKg)
}

func TestIntake_Validation(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()

	tests := []struct {
		name  string
		entry MaterialEntry
	}{
		{"missing id", MaterialEntry{Name: "Pulp", Kg: kg(1)}},
		{"negative kg", MaterialEntry{MaterialID: "RM-01", Name: "Pulp", Kg: kg(-5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Material.Intake(ctx, tt.entry, "")
			requireKind(t, err, apperr.KindValidation)
		})
	}
}

func TestIntake_NameTakenByAnotherID(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()

	_, err := env.svc.Material.Intake(ctx, MaterialEntry{MaterialID: "RM-01", Name: "Wood Pulp", Kg: kg(10)}, "")
	require.NoError(t, err)
	_, err = env.svc.Material.Intake(ctx, MaterialEntry{MaterialID: "RM-02", Name: "Wood Pulp", Kg: kg(10)}, "")
	requireKind(t, err, apperr.KindConflict)
}

func TestBulkImport_RollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()

	entries := []MaterialEntry{
		{MaterialID: "RM-01", Name: "Wood Pulp", Kg: kg(100)},
		{MaterialID: "RM-02", Name: "Sulfuric Acid", Kg: kg(40)},
		{MaterialID: "RM-03", Name: "Wood Pulp", Kg: kg(5)}, // 名称与 RM-01 冲突
	}
	_, err := env.svc.Material.BulkImport(ctx, entries, "store")
	requireKind(t, err, apperr.KindInternal)

	items, err := env.svc.Material.Search(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, env.pub.subjects())

	n, err := env.svc.Material.BulkImport(ctx, entries[:2], "store")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestParseWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"material_id", "name", "kg", "supplier"},
		{"RM-01", "Wood Pulp", 250, "Acme"},
		{},
		{"RM-02", "Caustic Soda", "12.5", ""},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	entries, err := ParseWorkbook(f)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Wood Pulp", entries[0].Name)
	assert.True(t, entries[0].Kg.Equal(kg(250)))
	assert.Equal(t, "Acme", entries[0].Supplier)
	assert.True(t, entries[1].Kg.Equal(kg(12.5)))
}

func TestParseWorkbook_MissingColumn(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"material_id", "name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"RM-01", "Pulp"}))

	_, err := ParseWorkbook(f)
	requireKind(t, err, apperr.KindValidation)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()
	for _, e := range []MaterialEntry{
		{MaterialID: "RM-01", Name: "Wood Pulp", Kg: kg(1)},
		{MaterialID: "RM-02", Name: "Cotton Linter", Kg: kg(1)},
		{MaterialID: "CH-01", Name: "Hydrochloric Acid", Kg: kg(1)},
	} {
		_, err := env.svc.Material.Intake(ctx, e, "")
		require.NoError(t, err)
	}

	all, err := env.svc.Material.Search(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byName, err := env.svc.Material.Search(ctx, "PULP", 0)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "RM-01", byName[0].MaterialID)

	byID, err := env.svc.Material.Search(ctx, "rm-", 0)
	require.NoError(t, err)
	assert.Len(t, byID, 2)

	limited, err := env.svc.Material.Search(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()
	_, err := env.svc.Material.Intake(ctx, MaterialEntry{MaterialID: "RM-01", Name: "Wood Pulp", Kg: kg(100)}, "")
	require.NoError(t, err)

	m, err := env.svc.Material.Update(ctx, "RM-01", MaterialEntry{Name: "Bleached Pulp", Kg: kg(80), Supplier: "Beta"}, "store")
	require.NoError(t, err)
	assert.Equal(t, "Bleached Pulp", m.MaterialName)

	history, err := env.svc.Material.History(ctx, "RM-01", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.MaterialActionAdjust, history[0].Action)
	assert.True(t, history[0].Quantity.Equal(kg(-20)))

	_, err = env.svc.Material.Update(ctx, "RM-404", MaterialEntry{Name: "x", Kg: kg(1)}, "")
	requireKind(t, err, apperr.KindNotFound)

	require.NoError(t, env.svc.Material.Delete(ctx, "RM-01", "store"))
	requireKind(t, env.svc.Material.Delete(ctx, "RM-01", "store"), apperr.KindNotFound)
}
