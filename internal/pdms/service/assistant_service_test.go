package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/testutil"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsk_EmbedsPlantStatus(t *testing.T) {
	chat := &fakeChat{answer: "Keep pH between 1.5 and 2.5."}
	env := newTestEnv(t, Infra{Chat: chat})
	ctx := context.Background()

	testutil.SeedBatch(t, env.db, "B-1", entity.BatchStatusActive, 10)
	testutil.SeedBatch(t, env.db, "B-2", entity.BatchStatusActive, 10)
	testutil.SeedBatch(t, env.db, "B-3", entity.BatchStatusPendingQC, 10)

	resp, err := env.svc.Assistant.Ask(ctx, "  What pH should hydrolysis run at?  ")
	require.NoError(t, err)
	assert.Equal(t, "Keep pH between 1.5 and 2.5.", resp.Answer)
	assert.Equal(t, "What pH should hydrolysis run at?", chat.prompt)
	assert.Contains(t, chat.system, "MCC Intelligent Assistant")
	assert.Contains(t, chat.system, "Active Production Batches: 2")
	assert.Contains(t, chat.system, "Batches Waiting for QC: 1")
}

func TestAsk_Errors(t *testing.T) {
	ctx := context.Background()

	unconfigured := newTestEnv(t, Infra{})
	_, err := unconfigured.svc.Assistant.Ask(ctx, "hello")
	requireKind(t, err, apperr.KindInternal)

	env := newTestEnv(t, Infra{Chat: &fakeChat{err: errors.New("upstream 503")}})
	_, err = env.svc.Assistant.Ask(ctx, "   ")
	requireKind(t, err, apperr.KindValidation)
	_, err = env.svc.Assistant.Ask(ctx, "hello")
	requireKind(t, err, apperr.KindInternal)
}

func TestVendors(t *testing.T) {
	env := newTestEnv(t, Infra{})
	ctx := context.Background()

	v, err := env.svc.Vendor.Create(ctx, CreateVendorRequest{Name: " Acme Pulp ", ContactEmail: "sales@acme.example"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Acme Pulp", v.Name)

	_, err = env.svc.Vendor.Create(ctx, CreateVendorRequest{Name: "Acme Pulp"}, "")
	requireKind(t, err, apperr.KindConflict)
	_, err = env.svc.Vendor.Create(ctx, CreateVendorRequest{Name: ""}, "")
	requireKind(t, err, apperr.KindValidation)

	items, err := env.svc.Vendor.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "sales@acme.example", items[0].ContactEmail)
}
