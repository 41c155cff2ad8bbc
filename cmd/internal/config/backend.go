package config

import (
	"context"

	"github.com/labstack/gommon/log"

	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/domain/sheetstore/repository"
	"indicacoes/cmd/internal/infrastructure/gsheets"
)

// OpenBackend builds the spreadsheet backend named by the configuration,
// wrapped in the retry policy.
func OpenBackend(ctx context.Context, cfg *Config) (gsheets.Backend, error) {
	if cfg.SheetsBackend == BackendMemory {
		log.Warn("using the in-memory spreadsheet, data is lost on exit")
		return gsheets.WithRetry(localBackend(), cfg.Retry), nil
	}

	client, err := gsheets.NewClient(ctx, cfg.Credentials, gsheets.Options{
		SpreadsheetID:     cfg.SpreadsheetID,
		RequestsPerMinute: cfg.RequestsPerMinute,
	})
	if err != nil {
		return nil, err
	}
	return gsheets.WithRetry(client, cfg.Retry), nil
}

// localBackend holds every table with its header and one rule granting
// everything to everyone.
func localBackend() *gsheets.MemoryBackend {
	mem := gsheets.NewMemoryBackend()
	for _, table := range repository.Tables {
		mem.AddTable(table, repository.Columns(table)...)
	}

	permissoes := append(append([]string{}, repository.PermissaoColumns...), actionColumns()...)
	mem.AddTable(repository.TablePermissoes, permissoes...)

	rule := []any{entity.Wildcard, entity.Wildcard}
	for range actionColumns() {
		rule = append(rule, true)
	}
	_ = mem.AppendRows(context.Background(), repository.TablePermissoes, [][]any{rule})
	return mem
}

func actionColumns() []string {
	return []string{
		string(entity.ActionVisualizar),
		string(entity.ActionEditar),
		string(entity.ActionExcluir),
		string(entity.ActionExportar),
	}
}
