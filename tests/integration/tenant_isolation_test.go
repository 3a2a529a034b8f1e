package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marealta/backend/internal/domain/fleet"
	"github.com/marealta/backend/internal/domain/inventory"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/infrastructure/persistence"
	"github.com/marealta/backend/internal/infrastructure/persistence/models"
	"github.com/marealta/backend/internal/infrastructure/persistence/tenant"
)

func TestTenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	partRepo := persistence.NewGormPartRepository(tdb.DB)
	clientRepo := persistence.NewGormClientRepository(tdb.DB)

	tenantA, ctxA := tdb.NewTenant("Marina Norte", "marina-norte")
	tenantB, ctxB := tdb.NewTenant("Marina Sul", "marina-sul")

	t.Run("part_created_in_one_tenant_invisible_to_another", func(t *testing.T) {
		part, err := inventory.NewPart(tenantA.ID, "IMP-001", "Impeller",
			decimal.NewFromInt(120), decimal.NewFromInt(80))
		require.NoError(t, err)
		require.NoError(t, partRepo.Save(ctxA, part))

		found, err := partRepo.FindByIDForTenant(ctxA, tenantA.ID, part.ID)
		require.NoError(t, err)
		assert.Equal(t, part.ID, found.ID)

		missing, err := partRepo.FindByIDForTenant(ctxB, tenantB.ID, part.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, missing)
	})

	t.Run("same_sku_allowed_in_different_tenants", func(t *testing.T) {
		const sku = "ANODE-Z34"

		partA, err := inventory.NewPart(tenantA.ID, sku, "Zinc anode A",
			decimal.NewFromInt(45), decimal.NewFromInt(30))
		require.NoError(t, err)
		require.NoError(t, partRepo.Save(ctxA, partA))

		partB, err := inventory.NewPart(tenantB.ID, sku, "Zinc anode B",
			decimal.NewFromInt(50), decimal.NewFromInt(30))
		require.NoError(t, err)
		require.NoError(t, partRepo.Save(ctxB, partB))

		foundA, err := partRepo.FindBySKUForTenant(ctxA, tenantA.ID, sku)
		require.NoError(t, err)
		foundB, err := partRepo.FindBySKUForTenant(ctxB, tenantB.ID, sku)
		require.NoError(t, err)

		assert.Equal(t, "Zinc anode A", foundA.Name)
		assert.Equal(t, "Zinc anode B", foundB.Name)
		assert.NotEqual(t, foundA.ID, foundB.ID)
	})

	t.Run("duplicate_sku_within_one_tenant_rejected_by_schema", func(t *testing.T) {
		const sku = "FILTER-R12"

		first, err := inventory.NewPart(tenantA.ID, sku, "Racor filter",
			decimal.NewFromInt(90), decimal.NewFromInt(60))
		require.NoError(t, err)
		require.NoError(t, partRepo.Save(ctxA, first))

		second, err := inventory.NewPart(tenantA.ID, sku, "Racor filter again",
			decimal.NewFromInt(90), decimal.NewFromInt(60))
		require.NoError(t, err)
		assert.Error(t, partRepo.Save(ctxA, second))
	})

	t.Run("list_excludes_other_tenant_rows", func(t *testing.T) {
		clientA, err := fleet.NewClient(tenantA.ID, "Carlos Mendes", "carlos@example.com", "+55 11 99999-0001")
		require.NoError(t, err)
		require.NoError(t, clientRepo.Save(ctxA, clientA))

		clientB, err := fleet.NewClient(tenantB.ID, "Paula Rocha", "paula@example.com", "+55 21 99999-0002")
		require.NoError(t, err)
		require.NoError(t, clientRepo.Save(ctxB, clientB))

		listA, _, err := clientRepo.ListForTenant(ctxA, tenantA.ID, shared.NewFilter())
		require.NoError(t, err)
		for _, c := range listA {
			assert.Equal(t, tenantA.ID, c.TenantID)
		}

		listB, _, err := clientRepo.ListForTenant(ctxB, tenantB.ID, shared.NewFilter())
		require.NoError(t, err)
		for _, c := range listB {
			assert.Equal(t, tenantB.ID, c.TenantID)
		}
	})

	t.Run("delete_with_wrong_tenant_leaves_row_intact", func(t *testing.T) {
		part, err := inventory.NewPart(tenantA.ID, "PROP-3B", "Bronze propeller",
			decimal.NewFromInt(2400), decimal.NewFromInt(1700))
		require.NoError(t, err)
		require.NoError(t, partRepo.Save(ctxA, part))

		err = partRepo.DeleteForTenant(ctxB, tenantB.ID, part.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		still, err := partRepo.FindByIDForTenant(ctxA, tenantA.ID, part.ID)
		require.NoError(t, err)
		assert.Equal(t, part.ID, still.ID)
	})

	t.Run("random_tenant_id_sees_nothing", func(t *testing.T) {
		part, err := inventory.NewPart(tenantA.ID, "HOSE-25", "Bilge hose",
			decimal.NewFromInt(15), decimal.NewFromInt(8))
		require.NoError(t, err)
		require.NoError(t, partRepo.Save(ctxA, part))

		stranger := uuid.New()
		found, err := partRepo.FindByIDForTenant(ContextFor(stranger), stranger, part.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, found)
	})

	t.Run("query_without_tenant_in_context_fails_closed", func(t *testing.T) {
		var parts []models.PartModel
		err := tdb.DB.WithContext(context.Background()).Find(&parts).Error
		assert.ErrorIs(t, err, tenant.ErrTenantRequired)
		assert.Empty(t, parts)
	})
}
