package repository

import (
	"context"

	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/domain/sheetstore"
)

const indicacaoKey = "indicacao_id"

type DefaultIndicacaoRepository struct {
	store *sheetstore.Store
}

func NewIndicacaoRepository(store *sheetstore.Store) *DefaultIndicacaoRepository {
	return &DefaultIndicacaoRepository{store: store}
}

func (d *DefaultIndicacaoRepository) List(ctx context.Context, q sheetstore.Query) (*Page[*entity.Indicacao], error) {
	page, err := d.store.List(ctx, TableIndicacoes, q)
	if err != nil {
		return nil, err
	}
	return convertPage(page, toIndicacao), nil
}

// FindAll returns every matching referral, ignoring pagination.
func (d *DefaultIndicacaoRepository) FindAll(ctx context.Context, q sheetstore.Query) ([]*entity.Indicacao, error) {
	rows, err := listAll(ctx, d.store, TableIndicacoes, q)
	if err != nil {
		return nil, err
	}

	out := make([]*entity.Indicacao, len(rows))
	for i, row := range rows {
		out[i] = toIndicacao(row)
	}
	return out, nil
}

func (d *DefaultIndicacaoRepository) FindByID(ctx context.Context, id string) (*entity.Indicacao, error) {
	row, err := d.store.GetByKey(ctx, TableIndicacoes, indicacaoKey, id)
	if err != nil || row == nil {
		return nil, err
	}
	return toIndicacao(row), nil
}

func (d *DefaultIndicacaoRepository) CountActiveByIndicador(ctx context.Context, indicadorID string) (int, error) {
	page, err := d.store.List(ctx, TableIndicacoes, sheetstore.Query{
		Filters: map[string]string{
			"indicador_id":          indicadorID,
			sheetstore.StatusColumn: sheetstore.StatusActive,
		},
		Limit: 1,
	})
	if err != nil {
		return 0, err
	}
	return page.Total, nil
}

func (d *DefaultIndicacaoRepository) Count(ctx context.Context) (int, error) {
	return d.store.Count(ctx, TableIndicacoes)
}

func (d *DefaultIndicacaoRepository) Save(ctx context.Context, inds ...*entity.Indicacao) error {
	rows := make([]sheetstore.Row, len(inds))
	for i, ind := range inds {
		rows[i] = fromIndicacao(ind)
	}
	return d.store.Insert(ctx, TableIndicacoes, rows...)
}

func (d *DefaultIndicacaoRepository) Update(ctx context.Context, ind *entity.Indicacao, expectUpdatedAt string) (bool, error) {
	return d.store.UpdateByKeyIf(ctx, TableIndicacoes, indicacaoKey, ind.ID, fromIndicacao(ind), expectUpdatedAt)
}

func (d *DefaultIndicacaoRepository) Archive(ctx context.Context, id string) (bool, error) {
	return d.store.SoftDelete(ctx, TableIndicacoes, indicacaoKey, id)
}

func toIndicacao(row sheetstore.Row) *entity.Indicacao {
	return &entity.Indicacao{
		ID:                row.String("indicacao_id"),
		IndicadorID:       row.String("indicador_id"),
		DataIndicacao:     row.String("data_indicacao"),
		NomeIndicado:      row.String("nome_indicado"),
		TelefoneIndicado:  row.String("telefone_indicado"),
		GerouVenda:        cellBool(row, "gerou_venda"),
		FaturamentoGerado: cellFloat(row, "faturamento_gerado"),
		StatusRecompensa:  entity.RewardStatus(row.String("status_recompensa")),
		Observacoes:       row.String("observacoes"),
		CreatedAt:         row.String("created_at"),
		UpdatedAt:         row.String("updated_at"),
		CreatedBy:         row.String("created_by"),
		UpdatedBy:         row.String("updated_by"),
		Status:            entity.LifecycleStatus(row.String("status")),
	}
}

func fromIndicacao(ind *entity.Indicacao) sheetstore.Row {
	return sheetstore.Row{
		"indicacao_id":       ind.ID,
		"indicador_id":       ind.IndicadorID,
		"data_indicacao":     ind.DataIndicacao,
		"nome_indicado":      ind.NomeIndicado,
		"telefone_indicado":  ind.TelefoneIndicado,
		"gerou_venda":        ind.GerouVenda,
		"faturamento_gerado": ind.FaturamentoGerado,
		"status_recompensa":  string(ind.StatusRecompensa),
		"observacoes":        ind.Observacoes,
		"created_at":         ind.CreatedAt,
		"updated_at":         ind.UpdatedAt,
		"created_by":         ind.CreatedBy,
		"updated_by":         ind.UpdatedBy,
		"status":             string(ind.Status),
	}
}
