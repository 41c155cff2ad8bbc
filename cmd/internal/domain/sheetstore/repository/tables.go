package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/labstack/gommon/log"

	"indicacoes/cmd/internal/domain/sheetstore"
)

const (
	TableIndicadores = "Indicadores"
	TableIndicacoes  = "Indicacoes"
	TableLogs        = "Logs"
	TablePermissoes  = "Permissoes"
)

// Column order is the on-sheet row format.
var (
	IndicadorColumns = []string{
		"indicador_id", "nome", "telefone", "email", "empresa",
		"created_at", "updated_at", "status",
	}

	IndicacaoColumns = []string{
		"indicacao_id", "indicador_id", "data_indicacao", "nome_indicado", "telefone_indicado",
		"gerou_venda", "faturamento_gerado", "status_recompensa", "observacoes",
		"created_at", "updated_at", "created_by", "updated_by", "status",
	}

	LogColumns = []string{"log_id", "tab", "ref_id", "acao", "ator", "payload", "timestamp"}

	PermissaoColumns = []string{"tipo", "rota"}
)

// Tables lists every table the application reads, in snapshot order.
var Tables = []string{TableIndicadores, TableIndicacoes, TableLogs, TablePermissoes}

// Columns returns the columns table must carry, nil for unknown tables.
func Columns(table string) []string {
	switch table {
	case TableIndicadores:
		return IndicadorColumns
	case TableIndicacoes:
		return IndicacaoColumns
	case TableLogs:
		return LogColumns
	case TablePermissoes:
		return PermissaoColumns
	}
	return nil
}

// Schemas registers the expected header of every table with the store.
func Schemas() []sheetstore.Option {
	opts := make([]sheetstore.Option, len(Tables))
	for i, table := range Tables {
		opts[i] = sheetstore.WithSchema(table, Columns(table)...)
	}
	return opts
}

const pageSize = 500

// listAll follows cursors until the filtered set is exhausted.
func listAll(ctx context.Context, store *sheetstore.Store, table string, q sheetstore.Query) ([]sheetstore.Row, error) {
	q.Limit = pageSize
	q.Cursor = 0

	var rows []sheetstore.Row
	for {
		page, err := store.List(ctx, table, q)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page.Rows...)

		if page.NextCursor == nil {
			return rows, nil
		}
		q.Cursor = *page.NextCursor
	}
}

// Page is one slice of a listing, already converted to entities.
type Page[T any] struct {
	Items      []T
	Total      int
	NextCursor *int
}

func convertPage[T any](page *sheetstore.Page, conv func(sheetstore.Row) T) *Page[T] {
	items := make([]T, len(page.Rows))
	for i, row := range page.Rows {
		items[i] = conv(row)
	}
	return &Page[T]{Items: items, Total: page.Total, NextCursor: page.NextCursor}
}

func cellBool(row sheetstore.Row, col string) bool {
	switch v := row[col].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	}

	switch strings.ToLower(row.String(col)) {
	case "true", "1", "sim", "yes":
		return true
	}
	return false
}

func cellFloat(row sheetstore.Row, col string) float64 {
	switch v := row[col].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}

	raw := row.String(col)
	if raw == "" {
		return 0
	}

	f, err := parseDecimal(raw)
	if err != nil {
		log.Warnf("unreadable number %q in column %s, reading 0", raw, col)
		return 0
	}
	return f
}

// parseDecimal reads text cells written either as 1250.5 or in pt-BR form
// (1.250,50, R$ 1.250,50).
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))

	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	return strconv.ParseFloat(s, 64)
}
