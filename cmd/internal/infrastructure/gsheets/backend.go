package gsheets

import "context"

// Backend is a tabular resource made of named tables. Row 1 of every table
// is its header; data starts at row 2.
//
// Row indexes are physical and 1-based (the header is row 1). Column indexes
// are 0-based positions in the header.
type Backend interface {
	// ReadHeader returns the column names of the table, in order.
	ReadHeader(ctx context.Context, table string) ([]string, error)

	// ReadRows returns every data row (header excluded), in append order.
	// Trailing empty cells may be omitted by the backend.
	ReadRows(ctx context.Context, table string) ([][]any, error)

	// ReadColumn returns the values of a whole column, header cell included
	// at index 0, so that value i lives on physical row i+1.
	ReadColumn(ctx context.Context, table string, col int) ([]any, error)

	// ReadRow returns the cells of a single physical row.
	ReadRow(ctx context.Context, table string, row int) ([]any, error)

	// AppendRows adds rows after the last non-empty row of the table.
	AppendRows(ctx context.Context, table string, rows [][]any) error

	// WriteRow overwrites the physical row starting at the first column.
	WriteRow(ctx context.Context, table string, row int, values []any) error
}

// ColumnName converts a 0-based column index into its A1 letter form
// (0 -> A, 25 -> Z, 26 -> AA).
func ColumnName(idx int) string {
	name := ""
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}
	return name
}
