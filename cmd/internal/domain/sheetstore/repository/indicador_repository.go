package repository

import (
	"context"

	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/domain/sheetstore"
)

const indicadorKey = "indicador_id"

type DefaultIndicadorRepository struct {
	store *sheetstore.Store
}

func NewIndicadorRepository(store *sheetstore.Store) *DefaultIndicadorRepository {
	return &DefaultIndicadorRepository{store: store}
}

func (d *DefaultIndicadorRepository) List(ctx context.Context, q sheetstore.Query) (*Page[*entity.Indicador], error) {
	page, err := d.store.List(ctx, TableIndicadores, q)
	if err != nil {
		return nil, err
	}
	return convertPage(page, toIndicador), nil
}

func (d *DefaultIndicadorRepository) FindAll(ctx context.Context, filters map[string]string) ([]*entity.Indicador, error) {
	rows, err := listAll(ctx, d.store, TableIndicadores, sheetstore.Query{Filters: filters})
	if err != nil {
		return nil, err
	}

	out := make([]*entity.Indicador, len(rows))
	for i, row := range rows {
		out[i] = toIndicador(row)
	}
	return out, nil
}

// FindByID returns nil, nil when no row holds the id.
func (d *DefaultIndicadorRepository) FindByID(ctx context.Context, id string) (*entity.Indicador, error) {
	row, err := d.store.GetByKey(ctx, TableIndicadores, indicadorKey, id)
	if err != nil || row == nil {
		return nil, err
	}
	return toIndicador(row), nil
}

func (d *DefaultIndicadorRepository) FindActiveByTelefone(ctx context.Context, telefone string) ([]*entity.Indicador, error) {
	return d.FindAll(ctx, map[string]string{
		"telefone":              telefone,
		sheetstore.StatusColumn: sheetstore.StatusActive,
	})
}

func (d *DefaultIndicadorRepository) Count(ctx context.Context) (int, error) {
	return d.store.Count(ctx, TableIndicadores)
}

func (d *DefaultIndicadorRepository) Save(ctx context.Context, inds ...*entity.Indicador) error {
	rows := make([]sheetstore.Row, len(inds))
	for i, ind := range inds {
		rows[i] = fromIndicador(ind)
	}
	return d.store.Insert(ctx, TableIndicadores, rows...)
}

// Update rewrites the row, failing with sheetstore.ErrConflict when its
// updated_at is no longer expectUpdatedAt.
func (d *DefaultIndicadorRepository) Update(ctx context.Context, ind *entity.Indicador, expectUpdatedAt string) (bool, error) {
	return d.store.UpdateByKeyIf(ctx, TableIndicadores, indicadorKey, ind.ID, fromIndicador(ind), expectUpdatedAt)
}

func (d *DefaultIndicadorRepository) Archive(ctx context.Context, id string) (bool, error) {
	return d.store.SoftDelete(ctx, TableIndicadores, indicadorKey, id)
}

func toIndicador(row sheetstore.Row) *entity.Indicador {
	return &entity.Indicador{
		ID:        row.String("indicador_id"),
		Nome:      row.String("nome"),
		Telefone:  row.String("telefone"),
		Email:     row.String("email"),
		Empresa:   row.String("empresa"),
		CreatedAt: row.String("created_at"),
		UpdatedAt: row.String("updated_at"),
		Status:    entity.LifecycleStatus(row.String("status")),
	}
}

func fromIndicador(ind *entity.Indicador) sheetstore.Row {
	return sheetstore.Row{
		"indicador_id": ind.ID,
		"nome":         ind.Nome,
		"telefone":     ind.Telefone,
		"email":        ind.Email,
		"empresa":      ind.Empresa,
		"created_at":   ind.CreatedAt,
		"updated_at":   ind.UpdatedAt,
		"status":       string(ind.Status),
	}
}
