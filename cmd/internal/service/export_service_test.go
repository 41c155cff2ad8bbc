package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicacoes/cmd/internal/domain/sheetstore/repository"
	"indicacoes/cmd/internal/infrastructure/gsheets"
)

func TestExportService_TableCSV(t *testing.T) {
	mem := gsheets.NewMemoryBackend().AddTable("Indicacoes", "indicacao_id", "gerou_venda", "faturamento_gerado", "observacoes")
	require.NoError(t, mem.AppendRows(context.Background(), "Indicacoes", [][]any{
		{"INC_0001", true, 125.5, "pago, com nota"},
		{"", "", "", ""},
		{"INC_0002", false},
	}))

	data, err := NewExportService(mem).TableCSV(context.Background(), "Indicacoes")
	require.NoError(t, err)
	assert.Equal(t,
		"indicacao_id,gerou_venda,faturamento_gerado,observacoes\n"+
			"INC_0001,TRUE,125.5,\"pago, com nota\"\n"+
			"INC_0002,FALSE,,\n",
		string(data))
}

func TestExportService_MissingTable(t *testing.T) {
	_, apierr := NewExportService(gsheets.NewMemoryBackend()).Export(context.Background(), repository.TableLogs)
	requireStatus(t, apierr, http.StatusInternalServerError)
}
