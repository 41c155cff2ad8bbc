package repository

import (
	"context"
	"strings"

	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/domain/sheetstore"
)

type DefaultPermissaoRepository struct {
	store *sheetstore.Store
}

func NewPermissaoRepository(store *sheetstore.Store) *DefaultPermissaoRepository {
	return &DefaultPermissaoRepository{store: store}
}

// FindAll reads every rule. Columns other than tipo and rota are action
// flags; truthy cells grant the action.
func (d *DefaultPermissaoRepository) FindAll(ctx context.Context) ([]*entity.Permissao, error) {
	rows, err := listAll(ctx, d.store, TablePermissoes, sheetstore.Query{})
	if err != nil {
		return nil, err
	}

	out := make([]*entity.Permissao, 0, len(rows))
	for _, row := range rows {
		perm := &entity.Permissao{
			Tipo:  strings.TrimSpace(row.String("tipo")),
			Rota:  strings.TrimSpace(row.String("rota")),
			Acoes: make(map[entity.Action]bool),
		}
		for col := range row {
			if col == "tipo" || col == "rota" {
				continue
			}
			if cellBool(row, col) {
				perm.Acoes[entity.Action(strings.ToLower(col))] = true
			}
		}
		out = append(out, perm)
	}
	return out, nil
}
