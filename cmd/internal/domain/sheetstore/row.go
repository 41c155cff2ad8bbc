package sheetstore

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	StatusColumn    = "status"
	UpdatedAtColumn = "updated_at"

	StatusActive   = "active"
	StatusArchived = "archived"

	// TimeLayout is the UTC timestamp format stored in lifecycle columns.
	TimeLayout = "2006-01-02T15:04:05Z"
)

// Row is a single record keyed by column name. Values are the scalars the
// backend understands: string, float64 (or any integer), bool. A missing
// column renders as the empty string.
type Row map[string]any

// String renders the value of col the way filters compare it.
func (r Row) String(col string) string {
	return Render(r[col])
}

// Render converts a cell value into its canonical string form.
func Render(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}

func cellMatches(cell any, want string) bool {
	got := Render(cell)
	if _, isBool := cell.(bool); isBool || isBoolLiteral(got) {
		return strings.EqualFold(got, want)
	}
	return got == want
}

func isBoolLiteral(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

// compareCells orders numbers numerically and everything else as strings.
func compareCells(a, b any) int {
	fa, aNum := asNumber(a)
	fb, bNum := asNumber(b)
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(Render(a), Render(b))
}

func asNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	}
	return 0, false
}

func rowFromValues(header []string, values []any) Row {
	row := make(Row, len(header))
	for i, col := range header {
		if col == "" {
			continue
		}
		if i < len(values) && values[i] != nil {
			row[col] = values[i]
		} else {
			row[col] = ""
		}
	}
	return row
}

func valuesFromRow(header []string, row Row) []any {
	values := make([]any, len(header))
	for i, col := range header {
		v, ok := row[col]
		if !ok || v == nil {
			values[i] = ""
			continue
		}
		values[i] = v
	}
	return values
}

func isBlank(values []any) bool {
	for _, v := range values {
		if Render(v) != "" {
			return false
		}
	}
	return true
}
