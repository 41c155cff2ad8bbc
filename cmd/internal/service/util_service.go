package service

import (
	"context"
	"github.com/labstack/gommon/log"
	"indicacoes/cmd/internal/contract"
	"indicacoes/cmd/internal/domain/sheetstore/repository"
	"indicacoes/cmd/internal/utils/apierror"
)

// SchemaInspector reads raw table headers.
type SchemaInspector interface {
	ReadHeader(ctx context.Context, table string) ([]string, error)
}

type UtilService struct {
	Inspector SchemaInspector
	LogRepo   LogRepository
}

func NewUtilService(inspector SchemaInspector, logRepo LogRepository) *UtilService {
	return &UtilService{Inspector: inspector, LogRepo: logRepo}
}

// Diag reports every table header next to the columns it lacks. Per-table
// failures are reported inline instead of failing the whole call.
func (u *UtilService) Diag(ctx context.Context) []*contract.TableDiag {
	out := make([]*contract.TableDiag, len(repository.Tables))
	for i, table := range repository.Tables {
		diag := &contract.TableDiag{Table: table, Headers: []string{}}
		out[i] = diag

		header, err := u.Inspector.ReadHeader(ctx, table)
		if err != nil {
			log.Warnf("diag: failed to read header of %s: %v", table, err)
			diag.Error = err.Error()
			continue
		}
		diag.Headers = header

		present := make(map[string]bool, len(header))
		for _, h := range header {
			present[h] = true
		}
		for _, col := range repository.Columns(table) {
			if !present[col] {
				diag.Missing = append(diag.Missing, col)
			}
		}
	}
	return out
}

// History lists the audit rows of one record, oldest first.
func (u *UtilService) History(ctx context.Context, tab, refID string) ([]*contract.LogResponse, apierror.ErrorResponse) {
	entries, err := u.LogRepo.FindByRef(ctx, tab, refID)
	if err != nil {
		log.Errorf("failed to read history of %s/%s: %v", tab, refID, err)
		return nil, apierror.FromStoreError(err)
	}

	resp := make([]*contract.LogResponse, len(entries))
	for i, e := range entries {
		resp[i] = &contract.LogResponse{
			ID:        e.ID,
			Acao:      string(e.Acao),
			Ator:      e.Ator,
			Payload:   e.Payload,
			Timestamp: e.Timestamp,
		}
	}
	return resp, nil
}
