package tenant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/marealta/backend/internal/infrastructure/logger"
)

type scopedRow struct {
	ID       string `gorm:"primaryKey"`
	TenantID string `gorm:"index"`
	Name     string
}

func (scopedRow) TableName() string { return "scoped_rows" }

func newCallbackTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&scopedRow{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	EnableAutoTenantFilter(db)
	return db
}

func tenantCtx(tenantID uuid.UUID) context.Context {
	ctx, _ := logger.WithTenantID(context.Background(), zap.NewNop(), tenantID)
	return ctx
}

func seedRows(t *testing.T, db *gorm.DB, tenantA, tenantB uuid.UUID) {
	t.Helper()
	rows := []scopedRow{
		{ID: uuid.NewString(), TenantID: tenantA.String(), Name: "a1"},
		{ID: uuid.NewString(), TenantID: tenantA.String(), Name: "a2"},
		{ID: uuid.NewString(), TenantID: tenantB.String(), Name: "b1"},
	}
	require.NoError(t, db.Unscoped().Create(&rows).Error)
}

func TestCallback_FiltersQueriesByContextTenant(t *testing.T) {
	db := newCallbackTestDB(t)
	tenantA, tenantB := uuid.New(), uuid.New()
	seedRows(t, db, tenantA, tenantB)

	var rows []scopedRow
	require.NoError(t, db.WithContext(tenantCtx(tenantA)).Find(&rows).Error)
	assert.Len(t, rows, 2)

	rows = nil
	require.NoError(t, db.WithContext(tenantCtx(tenantB)).Find(&rows).Error)
	assert.Len(t, rows, 1)
	assert.Equal(t, "b1", rows[0].Name)
}

func TestCallback_FailsClosedWithoutTenant(t *testing.T) {
	db := newCallbackTestDB(t)
	seedRows(t, db, uuid.New(), uuid.New())

	var rows []scopedRow
	err := db.WithContext(context.Background()).Find(&rows).Error
	assert.ErrorIs(t, err, ErrTenantRequired)
	assert.Empty(t, rows)
}

func TestCallback_UpdateAndDeleteScoped(t *testing.T) {
	db := newCallbackTestDB(t)
	tenantA, tenantB := uuid.New(), uuid.New()
	seedRows(t, db, tenantA, tenantB)

	res := db.WithContext(tenantCtx(tenantB)).Model(&scopedRow{}).
		Where("name LIKE ?", "%").Update("name", "renamed")
	require.NoError(t, res.Error)
	assert.Equal(t, int64(1), res.RowsAffected, "update must not cross the tenant boundary")

	res = db.WithContext(tenantCtx(tenantB)).Where("name LIKE ?", "%").Delete(&scopedRow{})
	require.NoError(t, res.Error)
	assert.Equal(t, int64(1), res.RowsAffected)

	var remaining int64
	require.NoError(t, db.Unscoped().Model(&scopedRow{}).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining, "the other tenant's rows survive")
}

func TestCallback_ExplicitTenantPredicateWins(t *testing.T) {
	db := newCallbackTestDB(t)
	tenantA, tenantB := uuid.New(), uuid.New()
	seedRows(t, db, tenantA, tenantB)

	// A query that already names tenant_id is left alone, even when the
	// context carries a different tenant.
	var rows []scopedRow
	err := db.WithContext(tenantCtx(tenantA)).
		Where("tenant_id = ?", tenantB.String()).Find(&rows).Error
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

type sharedTenantRow struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func (sharedTenantRow) TableName() string { return "tenants" }

func TestCallback_SharedTablesExempt(t *testing.T) {
	db := newCallbackTestDB(t)

	require.NoError(t, db.AutoMigrate(&sharedTenantRow{}))
	require.NoError(t, db.Create(&sharedTenantRow{ID: uuid.NewString(), Name: "marina"}).Error)

	// Shared tables stay reachable without a tenant in the context.
	var rows []sharedTenantRow
	err := db.WithContext(context.Background()).Find(&rows).Error
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
