package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bizpilot/internal/prompt"
)

// readableTables is the set of tables the prompt fetcher may read. Anything
// outside this set is rejected before touching the database.
var readableTables = map[string]bool{
	"tasks":     true,
	"playbooks": true,
	"clients":   true,
	"notes":     true,
	"services":  true,
}

// StoreReader is the gorm-backed implementation of the prompt package's
// read-only store interface.
type StoreReader struct {
	db *gorm.DB
}

func NewStoreReader(db *gorm.DB) *StoreReader {
	return &StoreReader{db: db}
}

func (r *StoreReader) Read(
	ctx context.Context,
	table string,
	fields []string,
	filter *prompt.Filter,
	orderBy string,
	limit int,
) ([]map[string]any, error) {
	if !readableTables[table] {
		return nil, fmt.Errorf("table %q is not readable", table)
	}
	if limit <= 0 || limit > 200 {
		limit = 30
	}

	q := r.db.WithContext(ctx).Table(table).Select(fields)
	if filter != nil {
		q = q.Where(fmt.Sprintf("%s = ?", filter.Column), filter.Value)
	}
	if orderBy != "" {
		q = q.Order(orderBy)
	}

	var rows []map[string]any
	if err := q.Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read table %q failed: %w", table, err)
	}
	return rows, nil
}
