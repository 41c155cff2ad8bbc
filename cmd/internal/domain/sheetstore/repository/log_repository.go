package repository

import (
	"context"

	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/domain/sheetstore"
)

type DefaultLogRepository struct {
	store *sheetstore.Store
}

func NewLogRepository(store *sheetstore.Store) *DefaultLogRepository {
	return &DefaultLogRepository{store: store}
}

func (d *DefaultLogRepository) Append(ctx context.Context, entry *entity.LogEntry) error {
	return d.store.Insert(ctx, TableLogs, sheetstore.Row{
		"log_id":    entry.ID,
		"tab":       entry.Tab,
		"ref_id":    entry.RefID,
		"acao":      string(entry.Acao),
		"ator":      entry.Ator,
		"payload":   entry.Payload,
		"timestamp": entry.Timestamp,
	})
}

func (d *DefaultLogRepository) FindByRef(ctx context.Context, tab, refID string) ([]*entity.LogEntry, error) {
	rows, err := listAll(ctx, d.store, TableLogs, sheetstore.Query{
		Filters: map[string]string{"tab": tab, "ref_id": refID},
	})
	if err != nil {
		return nil, err
	}

	out := make([]*entity.LogEntry, len(rows))
	for i, row := range rows {
		out[i] = &entity.LogEntry{
			ID:        row.String("log_id"),
			Tab:       row.String("tab"),
			RefID:     row.String("ref_id"),
			Acao:      entity.LogAction(row.String("acao")),
			Ator:      row.String("ator"),
			Payload:   row.String("payload"),
			Timestamp: row.String("timestamp"),
		}
	}
	return out, nil
}
