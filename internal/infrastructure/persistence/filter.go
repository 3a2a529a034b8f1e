package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/marealta/backend/internal/domain/shared"
)

// applyFilter applies ordering and pagination from a shared.Filter.
// OrderBy is matched against an allow-list of column names to keep user
// input out of the ORDER BY clause.
func applyFilter(query *gorm.DB, filter shared.Filter, sortable ...string) *gorm.DB {
	orderBy := "created_at"
	for _, col := range sortable {
		if filter.OrderBy == col {
			orderBy = col
			break
		}
	}

	dir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, dir))

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	return query
}
