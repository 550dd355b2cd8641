package persistence

import (
	"strings"

	"github.com/dropship/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies search, equality filters, ordering and pagination
// to the query. searchColumns are matched with ILIKE against the
// filter's Search term.
func applyFilter(query *gorm.DB, filter shared.Filter, searchColumns []string) *gorm.DB {
	query = applyFilterWithoutPagination(query, filter, searchColumns)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination,
// for count queries
func applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter, searchColumns []string) *gorm.DB {
	if filter.Search != "" && len(searchColumns) > 0 {
		pattern := "%" + filter.Search + "%"
		clause := make([]string, len(searchColumns))
		args := make([]interface{}, len(searchColumns))
		for i, col := range searchColumns {
			clause[i] = col + " ILIKE ?"
			args[i] = pattern
		}
		query = query.Where(strings.Join(clause, " OR "), args...)
	}

	for key, value := range filter.Filters {
		query = query.Where(key+" = ?", value)
	}

	return query
}
