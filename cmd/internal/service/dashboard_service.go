package service

import (
	"context"
	"github.com/labstack/gommon/log"
	"indicacoes/cmd/internal/contract"
	"indicacoes/cmd/internal/domain/sheetstore"
	"indicacoes/cmd/internal/utils/apierror"
	"math"
)

type DashboardService struct {
	IndicacaoRepo IndicacaoRepository
	IndicadorRepo IndicadorRepository
}

func NewDashboardService(indicacaoRepo IndicacaoRepository, indicadorRepo IndicadorRepository) *DashboardService {
	return &DashboardService{IndicacaoRepo: indicacaoRepo, IndicadorRepo: indicadorRepo}
}

// Summary folds the active referrals, optionally narrowed to one referrer
// and an inclusive data_indicacao range.
func (d *DashboardService) Summary(ctx context.Context, from, to, indicadorID string) (*contract.DashboardResponse, apierror.ErrorResponse) {
	filters := map[string]string{sheetstore.StatusColumn: sheetstore.StatusActive}
	if indicadorID != "" {
		filters["indicador_id"] = indicadorID
	}

	q := sheetstore.Query{Filters: filters}
	if from != "" || to != "" {
		q.Ranges = map[string]sheetstore.Range{"data_indicacao": {From: from, To: to}}
	}

	indicacoes, err := d.IndicacaoRepo.FindAll(ctx, q)
	if err != nil {
		log.Errorf("failed to load indicacoes for dashboard: %v", err)
		return nil, apierror.FromStoreError(err)
	}

	indicadores, err := d.IndicadorRepo.FindAll(ctx, map[string]string{sheetstore.StatusColumn: sheetstore.StatusActive})
	if err != nil {
		log.Errorf("failed to load indicadores for dashboard: %v", err)
		return nil, apierror.FromStoreError(err)
	}

	resp := &contract.DashboardResponse{
		TotalIndicacoes:  len(indicacoes),
		TotalIndicadores: len(indicadores),
	}
	for _, ind := range indicacoes {
		if ind.GerouVenda {
			resp.TotalVendas++
			resp.FaturamentoTotal += ind.FaturamentoGerado
		}
	}

	if resp.TotalIndicacoes > 0 {
		rate := float64(resp.TotalVendas) / float64(resp.TotalIndicacoes) * 100
		resp.TaxaConversao = math.Round(rate*10) / 10
	}
	return resp, nil
}
