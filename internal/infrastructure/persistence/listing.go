package persistence

import (
	"strings"

	"github.com/teashop/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// sortable whitelists the columns a listing may be ordered by.
type sortable struct {
	columns  map[string]struct{}
	fallback string
}

func newSortable(fallback string, columns ...string) sortable {
	s := sortable{columns: make(map[string]struct{}, len(columns)+1), fallback: fallback}
	s.columns[fallback] = struct{}{}
	for _, c := range columns {
		s.columns[c] = struct{}{}
	}
	return s
}

// column returns name when it is whitelisted and the fallback otherwise.
// Names are matched exactly so user input never reaches ORDER BY unchecked.
func (s sortable) column(name string) string {
	name = strings.TrimSpace(name)
	if _, ok := s.columns[name]; ok {
		return name
	}
	return s.fallback
}

func (s sortable) allows(name string) bool {
	_, ok := s.columns[name]
	return ok
}

var (
	supplierSort = newSortable("name", "id", "code", "is_active", "created_at", "updated_at")
	itemSort     = newSortable("name", "id", "code", "category", "current_stock", "safety_stock", "created_at", "updated_at")
)

// applyListOptions orders and pages query. Ties are broken by id so pages
// stay stable.
func applyListOptions(query *gorm.DB, opts shared.ListOptions, sort sortable) *gorm.DB {
	dir := " ASC"
	if opts.Desc {
		dir = " DESC"
	}
	query = query.Order(sort.column(opts.SortBy) + dir).Order("id ASC")
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	return query
}

// likePattern builds a case-insensitive substring pattern for LOWER(column) LIKE ?
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
