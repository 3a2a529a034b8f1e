// Package integration holds integration tests that run against a real
// PostgreSQL instance started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/marealta/backend/internal/domain/identity"
	"github.com/marealta/backend/internal/infrastructure/logger"
	"github.com/marealta/backend/internal/infrastructure/persistence"
	"github.com/marealta/backend/internal/infrastructure/persistence/tenant"
)

// TestDB is a migrated database in a throwaway container
type TestDB struct {
	DB *gorm.DB
	t  *testing.T
}

// NewTestDB starts a fresh PostgreSQL container, applies all migrations
// and installs the tenant isolation callbacks, matching the production
// database setup. The container is torn down with the test.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("marealta_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err, "failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	applyMigrations(t, sqlDB)
	tenant.EnableAutoTenantFilter(db)

	return &TestDB{DB: db, t: t}
}

func applyMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	require.NoError(t, err)

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir(t), "postgres", driver)
	require.NoError(t, err)

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("failed to apply migrations: %v", err)
	}
}

// migrationsDir locates the migrations directory relative to this file
func migrationsDir(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok)

	dir := filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("migrations directory not found at %s", dir)
	}
	return dir
}

// NewTenant persists a fresh tenant and returns it together with a
// context that has the tenant bound, the way the auth middleware binds
// it for real requests.
func (tdb *TestDB) NewTenant(name, slug string) (*identity.Tenant, context.Context) {
	tdb.t.Helper()

	ten, err := identity.NewTenant(name, slug)
	require.NoError(tdb.t, err)

	repo := persistence.NewGormTenantRepository(tdb.DB)
	require.NoError(tdb.t, repo.Save(context.Background(), ten))

	ctx, _ := logger.WithTenantID(context.Background(), zap.NewNop(), ten.ID)
	return ten, ctx
}

// ContextFor binds an arbitrary tenant ID to a fresh context
func ContextFor(tenantID uuid.UUID) context.Context {
	ctx, _ := logger.WithTenantID(context.Background(), zap.NewNop(), tenantID)
	return ctx
}
