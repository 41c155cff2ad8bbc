package gsheets

import (
	"context"
	"slices"
	"sync"
)

// MemoryBackend is an in-process spreadsheet used by tests and by local runs
// without Google credentials. Failures can be queued per primitive with Inject.
type MemoryBackend struct {
	mu       sync.Mutex
	tables   map[string][][]any
	failures map[string][]error
	calls    map[string]int
}

var _ Backend = (*MemoryBackend)(nil)

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		tables:   make(map[string][][]any),
		failures: make(map[string][]error),
		calls:    make(map[string]int),
	}
}

// AddTable creates (or resets) a table holding only its header row.
func (m *MemoryBackend) AddTable(name string, header ...string) *MemoryBackend {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	m.tables[name] = [][]any{row}
	return m
}

// Inject queues errors returned by the next calls to op, one per call.
func (m *MemoryBackend) Inject(op string, errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = append(m.failures[op], errs...)
}

// Calls returns how many times op was invoked, failed calls included.
func (m *MemoryBackend) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Snapshot returns a copy of every physical row of the table, header included.
func (m *MemoryBackend) Snapshot(table string) [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneGrid(m.tables[table])
}

func (m *MemoryBackend) ReadHeader(_ context.Context, table string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	grid, err := m.enter("read_header", table)
	if err != nil {
		return nil, err
	}

	header := make([]string, len(grid[0]))
	for i, v := range grid[0] {
		header[i], _ = v.(string)
	}
	return header, nil
}

func (m *MemoryBackend) ReadRows(_ context.Context, table string) ([][]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	grid, err := m.enter("read_rows", table)
	if err != nil {
		return nil, err
	}
	return cloneGrid(grid[1:]), nil
}

func (m *MemoryBackend) ReadColumn(_ context.Context, table string, col int) ([]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	grid, err := m.enter("read_column", table)
	if err != nil {
		return nil, err
	}

	values := make([]any, len(grid))
	for i, row := range grid {
		if col < len(row) {
			values[i] = row[col]
		} else {
			values[i] = ""
		}
	}
	return values, nil
}

func (m *MemoryBackend) ReadRow(_ context.Context, table string, row int) ([]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	grid, err := m.enter("read_row", table)
	if err != nil {
		return nil, err
	}

	if row < 1 || row > len(grid) {
		return []any{}, nil
	}
	return slices.Clone(grid[row-1]), nil
}

func (m *MemoryBackend) AppendRows(_ context.Context, table string, rows [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	grid, err := m.enter("append_rows", table)
	if err != nil {
		return err
	}
	m.tables[table] = append(grid, cloneGrid(rows)...)
	return nil
}

func (m *MemoryBackend) WriteRow(_ context.Context, table string, row int, values []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	grid, err := m.enter("write_row", table)
	if err != nil {
		return err
	}

	if row < 1 {
		return &Error{Op: "write_row", Table: table, Status: 400, Err: errInvalidRange}
	}
	for len(grid) < row {
		grid = append(grid, []any{})
	}
	grid[row-1] = slices.Clone(values)
	m.tables[table] = grid
	return nil
}

// enter counts the call, pops an injected failure and resolves the table.
// Callers must hold m.mu.
func (m *MemoryBackend) enter(op, table string) ([][]any, error) {
	m.calls[op]++

	if queued := m.failures[op]; len(queued) > 0 {
		m.failures[op] = queued[1:]
		if queued[0] != nil {
			return nil, queued[0]
		}
	}

	grid, ok := m.tables[table]
	if !ok {
		return nil, &Error{Op: op, Table: table, Err: ErrTableNotFound}
	}
	return grid, nil
}

func cloneGrid(grid [][]any) [][]any {
	out := make([][]any, len(grid))
	for i, row := range grid {
		out[i] = slices.Clone(row)
	}
	return out
}
