// Package tenant enforces row-level tenant isolation for GORM.
//
// Two layers work together: repositories pass the tenant ID explicitly in
// every query, and the callbacks registered here inject a tenant_id
// predicate into any tenant-scoped statement that arrives without one.
// When no tenant is bound to the context, the statement fails instead of
// running unscoped. Unscoped() is the explicit escape hatch for system
// operations such as login lookups and migrations.
package tenant

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marealta/backend/internal/infrastructure/logger"
)

// ErrTenantRequired is returned when a tenant-scoped statement runs with
// no tenant bound to the context
var ErrTenantRequired = errors.New("no tenant bound to context")

// sharedTables are not tenant-scoped; the callbacks leave them alone.
var sharedTables = map[string]bool{
	"tenants":           true,
	"schema_migrations": true,
}

// Callback injects the tenant predicate into queries that reach GORM
// without one. It is the backstop behind the explicit per-tenant
// repository queries, not the primary enforcement.
type Callback struct {
	tenantColumn string
}

// NewCallback creates a tenant callback handler
func NewCallback() *Callback {
	return &Callback{tenantColumn: "tenant_id"}
}

// Register installs the tenant callbacks on a GORM DB
func (tc *Callback) Register(db *gorm.DB) {
	_ = db.Callback().Query().Before("gorm:query").Register("tenant:before_query", tc.addTenantFilter)
	_ = db.Callback().Update().Before("gorm:update").Register("tenant:before_update", tc.addTenantFilter)
	_ = db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", tc.addTenantFilter)
	_ = db.Callback().Row().Before("gorm:row").Register("tenant:before_row", tc.addTenantFilter)

	// Creates are not filtered: tenant_id is a column value set by the
	// repository, and models without one fail the NOT NULL constraint.
}

func (tc *Callback) addTenantFilter(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}
	if db.Statement.Unscoped {
		return
	}
	if sharedTables[db.Statement.Table] {
		return
	}
	if tc.hasTenantCondition(db) {
		return
	}

	tenantID := logger.GetTenantID(db.Statement.Context)
	if tenantID == uuid.Nil {
		// Fail closed: a tenant-scoped statement with no tenant in
		// context must not run unscoped.
		_ = db.AddError(ErrTenantRequired)
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

func (tc *Callback) hasTenantCondition(db *gorm.DB) bool {
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.exprContainsTenant(expr) {
					return true
				}
			}
		}
	}

	if sql := db.Statement.SQL.String(); sql != "" && strings.Contains(sql, tc.tenantColumn) {
		return true
	}

	return false
}

func (tc *Callback) exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.Expr:
		return strings.Contains(e.SQL, tc.tenantColumn)
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	}
	return false
}

// EnableAutoTenantFilter registers the tenant callbacks on a GORM DB
func EnableAutoTenantFilter(db *gorm.DB) {
	NewCallback().Register(db)
}
