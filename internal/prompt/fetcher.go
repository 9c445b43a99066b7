package prompt

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const (
	defaultMaxDataRows  = 30
	defaultFetchTimeout = 5 * time.Second

	// NoRowsPlaceholder is rendered when a query ran and matched nothing.
	// It is distinct from the empty string, which means no query was made;
	// admin debug views rely on the difference.
	NoRowsPlaceholder = "(No rows for this context)"
)

// Filter is an equality predicate for a store read.
type Filter struct {
	Column string
	Value  any
}

// Reader is the read-only store interface the fetcher queries. filter may be
// nil for an unfiltered read.
type Reader interface {
	Read(ctx context.Context, table string, fields []string, filter *Filter, orderBy string, limit int) ([]map[string]any, error)
}

// Fetcher executes scoped reads against the data source catalogue and
// serializes the rows for prompt inclusion.
type Fetcher struct {
	reader  Reader
	maxRows int
	timeout time.Duration
}

func NewFetcher(reader Reader, maxRows int, timeout time.Duration) *Fetcher {
	if maxRows <= 0 {
		maxRows = defaultMaxDataRows
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Fetcher{reader: reader, maxRows: maxRows, timeout: timeout}
}

// FetchDataForSource returns the serialized rows for one data_access node.
// Returns "" when no query was made (unknown source, unsatisfiable scope, or
// store failure) and NoRowsPlaceholder when the query matched nothing. Store
// failures are logged and never propagated; one bad source must not break
// the rest of the assembly.
func (f *Fetcher) FetchDataForSource(ctx context.Context, sourceName string, scope Scope, uc UserContext) string {
	cfg, ok := LookupDataSource(sourceName)
	if !ok {
		return ""
	}

	decision := ResolveFilter(cfg, scope, uc)
	if decision.Skip {
		return ""
	}

	var filter *Filter
	if decision.Column != "" {
		filter = &Filter{Column: decision.Column, Value: decision.Value}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	rows, err := f.reader.Read(fetchCtx, cfg.Table, cfg.Fields, filter, "created_at DESC", f.maxRows)
	if err != nil {
		log.Printf("fetch data source %q failed: %v", sourceName, err)
		return ""
	}
	if len(rows) == 0 {
		return NoRowsPlaceholder
	}

	serialized, err := json.Marshal(rows)
	if err != nil {
		log.Printf("serialize data source %q failed: %v", sourceName, err)
		return ""
	}
	return string(serialized)
}
