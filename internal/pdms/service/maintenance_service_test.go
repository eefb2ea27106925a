package service

import (
	"context"
	"math"
	"testing"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRisk(t *testing.T) {
	tests := []struct {
		name        string
		vibration   float64
		temperature float64
		score       float64
		status      string
	}{
		{"normal", 0.2, 30, 16, RiskStatusStable},
		{"no readings", 0, 0, 10, RiskStatusStable},
		{"boundary is stable", 1.0, 125, 75, RiskStatusStable},
		{"above boundary", 1.0, 130, 76, RiskStatusCritical},
		{"capped", 2.0, 10, 100, RiskStatusCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, status := ComputeRisk(tt.vibration, tt.temperature)
			assert.Equal(t, tt.score, score)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestMaintenance_RegisterAndRiskReport(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()

	dryer, err := env.svc.Maintenance.Register(ctx, RegisterEquipmentRequest{Name: "Spray Dryer 1", Type: "Dryer"}, "")
	require.NoError(t, err)
	_, err = env.svc.Maintenance.Register(ctx, RegisterEquipmentRequest{Name: "Hammer Mill", Type: "Mill"}, "")
	require.NoError(t, err)

	_, err = env.svc.Maintenance.Register(ctx, RegisterEquipmentRequest{Name: "  "}, "")
	requireKind(t, err, apperr.KindValidation)

	rec, err := env.svc.Maintenance.RecordReading(ctx, dryer.ID, ReadingRequest{Vibration: 1.8, Temperature: 60}, "tech")
	require.NoError(t, err)
	assert.Equal(t, 100.0, rec.FailureRiskScore)

	report, err := env.svc.Maintenance.RiskReport(ctx)
	require.NoError(t, err)
	require.Len(t, report, 2)
	byName := map[string]RiskAssessment{}
	for _, r := range report {
		byName[r.Name] = r
	}
	assert.Equal(t, RiskStatusCritical, byName["Spray Dryer 1"].Status)
	assert.Equal(t, 10.0, byName["Hammer Mill"].RiskScore)

	records, err := env.svc.Maintenance.Records(ctx, dryer.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	logs := env.logs(t)
	require.Len(t, logs, 3)
	assert.Equal(t, entity.LogTypeWarning, logs[2].Type)
	assert.Equal(t, "tech", logs[2].Actor)
}

func TestRecordReading_Errors(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()

	_, err := env.svc.Maintenance.RecordReading(ctx, "missing", ReadingRequest{Vibration: 0.3, Temperature: 40}, "")
	requireKind(t, err, apperr.KindNotFound)

	_, err = env.svc.Maintenance.RecordReading(ctx, "missing", ReadingRequest{Vibration: math.NaN()}, "")
	requireKind(t, err, apperr.KindValidation)

	_, err = env.svc.Maintenance.RecordReading(ctx, "missing", ReadingRequest{Vibration: -1}, "")
	requireKind(t, err, apperr.KindValidation)

	_, err = env.svc.Maintenance.Records(ctx, "missing")
	requireKind(t, err, apperr.KindNotFound)
}
