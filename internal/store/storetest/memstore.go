// Package storetest provides an in-memory store.Store for tests.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/store"
)

type Row = map[string]interface{}

// ProcFunc implements a stored procedure for MemStore.Rpc.
type ProcFunc func(params Row) string

// MemStore keeps tables as slices of JSON-shaped rows. Filters compare the
// fmt.Sprint form of a column against the filter value, which matches how
// PostgREST receives equality filters over the wire.
type MemStore struct {
	mu     sync.Mutex
	tables map[string][]Row
	procs  map[string]ProcFunc
	err    error
	calls  int
}

var _ store.Store = (*MemStore)(nil)

func New() *MemStore {
	return &MemStore{
		tables: make(map[string][]Row),
		procs:  make(map[string]ProcFunc),
	}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (m *MemStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemStore) HandleRpc(name string, fn ProcFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.procs[name] = fn
}

// Calls reports how many store operations have been issued.
func (m *MemStore) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Rows returns a deep copy of a table.
func (m *MemStore) Rows(table string) []Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Row, 0, len(m.tables[table]))
	for _, r := range m.tables[table] {
		out = append(out, copyRow(r))
	}
	return out
}

// Seed inserts rows verbatim without filling defaults.
func (m *MemStore) Seed(table string, rows ...interface{}) error {
	normalized, err := normalizeRows(rows)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], normalized...)
	return nil
}

func (m *MemStore) Insert(ctx context.Context, table string, rows interface{}) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	normalized, err := normalizeRows(rows)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, r := range normalized {
		if id, ok := r["id"]; !ok || id == nil || id == uuid.Nil.String() {
			r["id"] = uuid.New().String()
		}
		if ts, ok := r["created_at"]; !ok || ts == nil || ts == "0001-01-01T00:00:00Z" {
			r["created_at"] = now
		}
		m.tables[table] = append(m.tables[table], r)
	}
	return json.Marshal(normalized)
}

func (m *MemStore) Select(ctx context.Context, table string, q store.Query) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	out := []Row{}
	for _, r := range m.tables[table] {
		if matches(r, q.Filters) {
			out = append(out, copyRow(r))
		}
	}
	if q.Order != nil {
		col, asc := q.Order.Column, q.Order.Ascending
		sort.SliceStable(out, func(i, j int) bool {
			c := compare(out[i][col], out[j][col])
			if asc {
				return c < 0
			}
			return c > 0
		})
	}
	return json.Marshal(out)
}

func (m *MemStore) Update(ctx context.Context, table string, values map[string]interface{}, filters []store.Filter) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	patch, err := normalizeRows(values)
	if err != nil {
		return nil, err
	}
	out := []Row{}
	for _, r := range m.tables[table] {
		if !matches(r, filters) {
			continue
		}
		for k, v := range patch[0] {
			r[k] = v
		}
		out = append(out, copyRow(r))
	}
	return json.Marshal(out)
}

func (m *MemStore) Rpc(ctx context.Context, name string, params interface{}) (string, error) {
	m.mu.Lock()
	m.calls++
	if m.err != nil {
		err := m.err
		m.mu.Unlock()
		return "", err
	}
	fn, ok := m.procs[name]
	m.mu.Unlock()

	if !ok {
		return fmt.Sprintf(`{"code":"PGRST202","message":"Could not find the function public.%s"}`, name), nil
	}
	normalized, err := normalizeRows(params)
	if err != nil {
		return "", err
	}
	return fn(normalized[0]), nil
}

func normalizeRows(v interface{}) ([]Row, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("storetest: marshal rows: %w", err)
	}
	var many []Row
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}
	var one Row
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("storetest: rows must be objects: %w", err)
	}
	return []Row{one}, nil
}

func matches(r Row, filters []store.Filter) bool {
	for _, f := range filters {
		v, ok := r[f.Column]
		if !ok || v == nil || fmt.Sprint(v) != f.Value {
			return false
		}
	}
	return true
}

func compare(a, b interface{}) int {
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func copyRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
