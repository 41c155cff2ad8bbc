// Package sheetstore turns a header-indexed spreadsheet into a small
// record store: filtered listing with ordering and offset pagination,
// keyed lookups, appends, keyed updates and soft deletes.
//
// Every call reads the table from the backend. Listing and lookups are
// full scans, O(n) in the table size; this is fine for tables in the low
// thousands of rows, which is all a spreadsheet is expected to hold.
//
// The store holds no locks. Keyed updates are read-modify-write against the
// remote sheet, so two writers racing on the same key can lose an update;
// UpdateByKeyIf narrows that window with an updated_at check but is not a
// true compare-and-swap. Deployments are expected to have a single writer
// per record at a time.
package sheetstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"indicacoes/cmd/internal/infrastructure/gsheets"
)

const DefaultLimit = 50

var (
	ErrSchemaMismatch = errors.New("sheetstore: schema mismatch")

	// ErrConflict means the row changed between the caller's read and the write.
	ErrConflict = errors.New("sheetstore: row changed concurrently")
)

// SchemaError lists the expected columns absent from a table header.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheetstore: table %q is missing columns: %s", e.Table, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

// Range is an inclusive bound on the rendered value of a column.
// Empty bounds are open.
type Range struct {
	From string
	To   string
}

type Query struct {
	// Filters are equality matches on the rendered cell, all of which must hold.
	Filters map[string]string
	Ranges  map[string]Range
	OrderBy string
	Limit   int
	Cursor  int
}

type Page struct {
	Rows []Row
	// NextCursor is nil on the last page.
	NextCursor *int
	Total      int
}

type Store struct {
	backend gsheets.Backend
	now     func() time.Time
	schemas map[string][]string
}

type Option func(*Store)

// WithClock overrides the time source used for updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithSchema declares the columns a table must carry. Every operation on the
// table verifies its header against them.
func WithSchema(table string, columns ...string) Option {
	return func(s *Store) {
		s.schemas[table] = columns
	}
}

func New(backend gsheets.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		schemas: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current time in the stored timestamp format.
func (s *Store) Now() string {
	return s.now().UTC().Format(TimeLayout)
}

// Backend exposes the underlying backend, mostly for raw exports.
func (s *Store) Backend() gsheets.Backend {
	return s.backend
}

// List reads the whole table, filters, sorts and slices it.
func (s *Store) List(ctx context.Context, table string, q Query) (*Page, error) {
	header, err := s.header(ctx, table)
	if err != nil {
		return nil, err
	}

	values, err := s.backend.ReadRows(ctx, table)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(values))
	for _, v := range values {
		if isBlank(v) {
			continue
		}
		row := rowFromValues(header, v)
		if q.matches(row) {
			rows = append(rows, row)
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			return compareCells(rows[i][q.OrderBy], rows[j][q.OrderBy]) < 0
		})
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	start := max(q.Cursor, 0)
	total := len(rows)

	page := &Page{Rows: []Row{}, Total: total}
	if start < total {
		end := min(start+limit, total)
		page.Rows = rows[start:end]
	}
	if start+limit < total {
		next := start + limit
		page.NextCursor = &next
	}
	return page, nil
}

// GetByKey returns the first row whose keyCol equals keyVal, or nil.
func (s *Store) GetByKey(ctx context.Context, table, keyCol, keyVal string) (Row, error) {
	page, err := s.List(ctx, table, Query{Filters: map[string]string{keyCol: keyVal}, Limit: 1})
	if err != nil {
		return nil, err
	}

	if len(page.Rows) == 0 {
		return nil, nil
	}
	return page.Rows[0], nil
}

// Count returns the number of data rows in the table.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	if _, err := s.header(ctx, table); err != nil {
		return 0, err
	}

	values, err := s.backend.ReadRows(ctx, table)
	if err != nil {
		return 0, err
	}
	return len(values), nil
}

// Insert appends rows in header order. It performs no deduplication.
func (s *Store) Insert(ctx context.Context, table string, rows ...Row) error {
	if len(rows) == 0 {
		return nil
	}

	header, err := s.header(ctx, table)
	if err != nil {
		return err
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = valuesFromRow(header, row)
	}
	return s.backend.AppendRows(ctx, table, values)
}

// UpdateByKey merges patch over the first row whose keyCol equals keyVal and
// rewrites that row. It reports false when the column or the row is missing.
func (s *Store) UpdateByKey(ctx context.Context, table, keyCol, keyVal string, patch Row) (bool, error) {
	return s.update(ctx, table, keyCol, keyVal, patch, nil)
}

// UpdateByKeyIf behaves like UpdateByKey but fails with ErrConflict when the
// row's updated_at no longer equals expectUpdatedAt right before writing.
func (s *Store) UpdateByKeyIf(ctx context.Context, table, keyCol, keyVal string, patch Row, expectUpdatedAt string) (bool, error) {
	return s.update(ctx, table, keyCol, keyVal, patch, &expectUpdatedAt)
}

// SoftDelete archives the row. Calling it on an archived row is a no-op
// apart from bumping updated_at.
func (s *Store) SoftDelete(ctx context.Context, table, keyCol, keyVal string) (bool, error) {
	return s.UpdateByKey(ctx, table, keyCol, keyVal, Row{
		StatusColumn:    StatusArchived,
		UpdatedAtColumn: s.Now(),
	})
}

// CheckSchema verifies that the table header holds every column in expected.
func (s *Store) CheckSchema(ctx context.Context, table string, expected []string) error {
	header, err := s.backend.ReadHeader(ctx, table)
	if err != nil {
		return err
	}
	return checkHeader(table, header, expected)
}

func (s *Store) update(ctx context.Context, table, keyCol, keyVal string, patch Row, expect *string) (bool, error) {
	header, err := s.header(ctx, table)
	if err != nil {
		return false, err
	}

	// An empty key would match the first blank row.
	col := slices.Index(header, keyCol)
	if col < 0 || keyVal == "" {
		return false, nil
	}

	column, err := s.backend.ReadColumn(ctx, table, col)
	if err != nil {
		return false, err
	}

	// Index 0 is the header cell.
	rowNum := 0
	for i := 1; i < len(column); i++ {
		if Render(column[i]) == keyVal {
			rowNum = i + 1
			break
		}
	}
	if rowNum == 0 {
		return false, nil
	}

	current, err := s.backend.ReadRow(ctx, table, rowNum)
	if err != nil {
		return false, err
	}

	merged := rowFromValues(header, current)
	if Render(merged[keyCol]) != keyVal {
		// The row moved between the column scan and the row read.
		return false, ErrConflict
	}
	if expect != nil && merged.String(UpdatedAtColumn) != *expect {
		return false, ErrConflict
	}

	for k, v := range patch {
		merged[k] = v
	}

	if err := s.backend.WriteRow(ctx, table, rowNum, valuesFromRow(header, merged)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) header(ctx context.Context, table string) ([]string, error) {
	header, err := s.backend.ReadHeader(ctx, table)
	if err != nil {
		return nil, err
	}

	if expected, ok := s.schemas[table]; ok {
		if err := checkHeader(table, header, expected); err != nil {
			return nil, err
		}
	}
	return header, nil
}

func checkHeader(table string, header, expected []string) error {
	var missing []string
	for _, col := range expected {
		if !slices.Contains(header, col) {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return &SchemaError{Table: table, Missing: missing}
	}
	return nil
}

func (q Query) matches(row Row) bool {
	for col, want := range q.Filters {
		if !cellMatches(row[col], want) {
			return false
		}
	}

	for col, r := range q.Ranges {
		got := row.String(col)
		if r.From != "" && got < r.From {
			return false
		}
		if r.To != "" && got > r.To {
			return false
		}
	}
	return true
}
