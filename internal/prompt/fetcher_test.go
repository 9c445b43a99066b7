package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	rows []map[string]any
	err  error

	lastTable  string
	lastFields []string
	lastFilter *Filter
	lastLimit  int
	calls      int
}

func (r *fakeReader) Read(_ context.Context, table string, fields []string, filter *Filter, _ string, limit int) ([]map[string]any, error) {
	r.calls++
	r.lastTable = table
	r.lastFields = fields
	r.lastFilter = filter
	r.lastLimit = limit
	return r.rows, r.err
}

func TestFetchDataForSourceSerializesRows(t *testing.T) {
	reader := &fakeReader{rows: []map[string]any{
		{"id": 1, "title": "Call the supplier", "status": "open"},
	}}
	fetcher := NewFetcher(reader, 30, time.Second)

	got := fetcher.FetchDataForSource(context.Background(), "tasks", ScopeUser, UserContext{UserID: 7})

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Call the supplier", decoded[0]["title"])

	assert.Equal(t, "tasks", reader.lastTable)
	assert.Equal(t, 30, reader.lastLimit)
	require.NotNil(t, reader.lastFilter)
	assert.Equal(t, "user_id", reader.lastFilter.Column)
	assert.Equal(t, uint(7), reader.lastFilter.Value)
}

func TestFetchDataForSourceEmptyResult(t *testing.T) {
	fetcher := NewFetcher(&fakeReader{rows: nil}, 30, time.Second)

	got := fetcher.FetchDataForSource(context.Background(), "tasks", ScopeUser, UserContext{UserID: 7})
	assert.Equal(t, NoRowsPlaceholder, got, "a query that matched nothing must say so")
}

func TestFetchDataForSourceNoQueryCases(t *testing.T) {
	t.Run("unknown source", func(t *testing.T) {
		reader := &fakeReader{}
		fetcher := NewFetcher(reader, 30, time.Second)
		got := fetcher.FetchDataForSource(context.Background(), "secrets", ScopeAll, UserContext{})
		assert.Empty(t, got)
		assert.Zero(t, reader.calls, "unknown sources must not reach the store")
	})

	t.Run("unsatisfiable scope", func(t *testing.T) {
		reader := &fakeReader{}
		fetcher := NewFetcher(reader, 30, time.Second)
		got := fetcher.FetchDataForSource(context.Background(), "tasks", ScopeTeam, UserContext{UserID: 7})
		assert.Empty(t, got)
		assert.Zero(t, reader.calls, "a skip decision must not reach the store")
	})

	t.Run("store failure degrades to absent", func(t *testing.T) {
		reader := &fakeReader{err: errors.New("connection refused")}
		fetcher := NewFetcher(reader, 30, time.Second)
		got := fetcher.FetchDataForSource(context.Background(), "tasks", ScopeUser, UserContext{UserID: 7})
		assert.Empty(t, got)
	})
}

func TestFetchDataForSourceUnfilteredPlatformRead(t *testing.T) {
	reader := &fakeReader{rows: []map[string]any{{"id": 1, "name": "Bookkeeping"}}}
	fetcher := NewFetcher(reader, 30, time.Second)

	got := fetcher.FetchDataForSource(context.Background(), "services", ScopeAll, UserContext{})
	assert.NotEmpty(t, got)
	assert.Nil(t, reader.lastFilter, "platform scope reads without a filter")
}

func TestNewFetcherDefaults(t *testing.T) {
	fetcher := NewFetcher(&fakeReader{}, 0, 0)
	assert.Equal(t, defaultMaxDataRows, fetcher.maxRows)
	assert.Equal(t, defaultFetchTimeout, fetcher.timeout)
}
