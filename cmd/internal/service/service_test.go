package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicacoes/cmd/internal/contract"
	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/domain/sheetstore"
	"indicacoes/cmd/internal/domain/sheetstore/repository"
	"indicacoes/cmd/internal/domain/validation"
	"indicacoes/cmd/internal/infrastructure/gsheets"
	"indicacoes/cmd/internal/utils/apierror"
	"indicacoes/cmd/internal/utils/uid"
	"indicacoes/cmd/internal/utils/validators"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type testEnv struct {
	mem         *gsheets.MemoryBackend
	store       *sheetstore.Store
	indicadores *DefaultIndicadorService
	indicacoes  *DefaultIndicacaoService
	dashboard   *DashboardService
	util        *UtilService
	logRepo     *repository.DefaultLogRepository
	indRepo     *repository.DefaultIndicadorRepository
	incRepo     *repository.DefaultIndicacaoRepository
}

func newTestEnv(t *testing.T, withLogs bool) *testEnv {
	t.Helper()
	uid.Init(1)

	mem := gsheets.NewMemoryBackend().
		AddTable(repository.TableIndicadores, repository.IndicadorColumns...).
		AddTable(repository.TableIndicacoes, repository.IndicacaoColumns...).
		AddTable(repository.TablePermissoes, repository.PermissaoColumns...)
	if withLogs {
		mem.AddTable(repository.TableLogs, repository.LogColumns...)
	}

	store := sheetstore.New(mem, append(repository.Schemas(), sheetstore.WithClock(clock))...)
	indRepo := repository.NewIndicadorRepository(store)
	incRepo := repository.NewIndicacaoRepository(store)
	logRepo := repository.NewLogRepository(store)

	validate := validator.New()
	validators.Register(validate)

	engine := validation.New(indRepo, validation.WithClock(clock))
	audit := NewAuditLogger(logRepo)
	audit.Now = clock

	indSvc := NewIndicadorService(indRepo, incRepo, engine, audit, validate)
	indSvc.Now = clock
	incSvc := NewIndicacaoService(incRepo, indRepo, engine, audit, validate)
	incSvc.Now = clock

	return &testEnv{
		mem:         mem,
		store:       store,
		indicadores: indSvc,
		indicacoes:  incSvc,
		dashboard:   NewDashboardService(incRepo, indRepo),
		util:        NewUtilService(mem, logRepo),
		logRepo:     logRepo,
		indRepo:     indRepo,
		incRepo:     incRepo,
	}
}

func requireStatus(t *testing.T, apierr apierror.ErrorResponse, status int) *apierror.APIError {
	t.Helper()
	require.NotNil(t, apierr)
	assert.Equal(t, status, apierr.Code())
	e, ok := apierr.(*apierror.APIError)
	require.True(t, ok)
	return e
}

func (e *testEnv) createIndicador(t *testing.T, nome, tel string) string {
	t.Helper()
	resp, apierr := e.indicadores.Create(context.Background(), "admin", &contract.IndicadorRequest{Nome: nome, Telefone: tel})
	require.Nil(t, apierr)
	return resp.ID
}

func (e *testEnv) createIndicacao(t *testing.T, req *contract.IndicacaoRequest) string {
	t.Helper()
	resp, apierr := e.indicacoes.Create(context.Background(), "admin", req)
	require.Nil(t, apierr)
	return resp.ID
}

func saleRequest(indicadorID string) *contract.IndicacaoRequest {
	return &contract.IndicacaoRequest{
		IndicadorID:       indicadorID,
		DataIndicacao:     "2025-02-10",
		NomeIndicado:      "Bruno",
		TelefoneIndicado:  "11888880000",
		GerouVenda:        true,
		FaturamentoGerado: 500,
		StatusRecompensa:  "Nao",
	}
}

func TestIndicadorService_CreateAssignsSequentialIDs(t *testing.T) {
	env := newTestEnv(t, true)

	assert.Equal(t, "IND_0001", env.createIndicador(t, "Ana", "11999990000"))
	assert.Equal(t, "IND_0002", env.createIndicador(t, "Bia", "11977770000"))

	got, apierr := env.indicadores.Get(context.Background(), "IND_0001")
	require.Nil(t, apierr)
	assert.Equal(t, "+5511999990000", got.Telefone)
	assert.Equal(t, "active", got.Status)
	assert.Equal(t, "2025-03-01T12:00:00Z", got.CreatedAt)

	logs, err := env.logRepo.FindByRef(context.Background(), repository.TableIndicadores, "IND_0001")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.LogInsert, logs[0].Acao)
	assert.Equal(t, "admin", logs[0].Ator)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(logs[0].Payload), &payload))
	assert.Equal(t, "Ana", payload["nome"])
}

func TestIndicadorService_DuplicatePhone(t *testing.T) {
	env := newTestEnv(t, true)
	env.createIndicador(t, "Ana", "+55 11 99999-0000")

	_, apierr := env.indicadores.Create(context.Background(), "admin", &contract.IndicadorRequest{Nome: "Bia", Telefone: "11999990000"})
	e := requireStatus(t, apierr, http.StatusConflict)
	assert.Equal(t, apierror.CodeConflict, e.Error.Code)

	total, err := env.indRepo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestIndicadorService_RequestValidation(t *testing.T) {
	env := newTestEnv(t, true)

	_, apierr := env.indicadores.Create(context.Background(), "admin", &contract.IndicadorRequest{Nome: "  ", Telefone: "11999990000"})
	requireStatus(t, apierr, http.StatusUnprocessableEntity)

	_, apierr = env.indicadores.Create(context.Background(), "admin", &contract.IndicadorRequest{Nome: "Ana", Telefone: "11999990000", Email: "nope"})
	requireStatus(t, apierr, http.StatusUnprocessableEntity)
}

func TestIndicadorService_Update(t *testing.T) {
	env := newTestEnv(t, true)
	id := env.createIndicador(t, "Ana", "11999990000")

	empresa := "Acme"
	_, apierr := env.indicadores.Update(context.Background(), "admin", id, &contract.UpdateIndicadorRequest{Empresa: &empresa})
	require.Nil(t, apierr)

	got, _ := env.indicadores.Get(context.Background(), id)
	assert.Equal(t, "Acme", got.Empresa)
	assert.Equal(t, "Ana", got.Nome)

	_, apierr = env.indicadores.Update(context.Background(), "admin", "IND_9999", &contract.UpdateIndicadorRequest{Empresa: &empresa})
	requireStatus(t, apierr, http.StatusNotFound)
}

func TestIndicadorService_DeleteRefusedWithActiveIndicacoes(t *testing.T) {
	env := newTestEnv(t, true)
	id := env.createIndicador(t, "Ana", "11999990000")
	incID := env.createIndicacao(t, saleRequest(id))

	_, apierr := env.indicadores.Delete(context.Background(), "admin", id)
	e := requireStatus(t, apierr, http.StatusConflict)
	assert.Equal(t, 1, e.Error.Details["indicacoes_ativas"])

	_, apierr = env.indicacoes.Delete(context.Background(), "admin", incID)
	require.Nil(t, apierr)

	_, apierr = env.indicadores.Delete(context.Background(), "admin", id)
	require.Nil(t, apierr)

	got, apierr := env.indicadores.Get(context.Background(), id)
	require.Nil(t, apierr)
	assert.Equal(t, "archived", got.Status)

	list, apierr := env.indicadores.List(context.Background(), contract.ListParams{})
	require.Nil(t, apierr)
	assert.Zero(t, list.Total)
}

func TestIndicacaoService_CreateUpgradesRewardStatus(t *testing.T) {
	env := newTestEnv(t, true)
	id := env.createIndicador(t, "Ana", "11999990000")

	incID := env.createIndicacao(t, saleRequest(id))
	assert.Equal(t, "INC_0001", incID)

	got, apierr := env.indicacoes.Get(context.Background(), incID)
	require.Nil(t, apierr)
	assert.Equal(t, "EmProcessamento", got.StatusRecompensa)
	assert.Equal(t, "+5511888880000", got.TelefoneIndicado)
	assert.Equal(t, "admin", got.CreatedBy)
}

func TestIndicacaoService_CreateRejections(t *testing.T) {
	env := newTestEnv(t, true)
	id := env.createIndicador(t, "Ana", "11999990000")

	req := saleRequest(id)
	req.FaturamentoGerado = 0
	_, apierr := env.indicacoes.Create(context.Background(), "admin", req)
	e := requireStatus(t, apierr, http.StatusUnprocessableEntity)
	assert.Equal(t, apierror.CodeValidation, e.Error.Code)

	_, apierr = env.indicacoes.Create(context.Background(), "admin", saleRequest("IND_0404"))
	requireStatus(t, apierr, http.StatusUnprocessableEntity)

	req = saleRequest(id)
	req.StatusRecompensa = "Pago"
	_, apierr = env.indicacoes.Create(context.Background(), "admin", req)
	e = requireStatus(t, apierr, http.StatusUnprocessableEntity)
	assert.Contains(t, e.Error.Details["fields"], "status_recompensa")

	total, err := env.incRepo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestIndicacaoService_RegressionLeavesRowUnchanged(t *testing.T) {
	env := newTestEnv(t, true)
	id := env.createIndicador(t, "Ana", "11999990000")
	incID := env.createIndicacao(t, saleRequest(id))

	sim := "Sim"
	_, apierr := env.indicacoes.Update(context.Background(), "finance", incID, &contract.UpdateIndicacaoRequest{StatusRecompensa: &sim})
	require.Nil(t, apierr)

	before := env.mem.Snapshot(repository.TableIndicacoes)

	nao := "Nao"
	_, apierr = env.indicacoes.Update(context.Background(), "finance", incID, &contract.UpdateIndicacaoRequest{StatusRecompensa: &nao})
	requireStatus(t, apierr, http.StatusUnprocessableEntity)

	assert.Equal(t, before, env.mem.Snapshot(repository.TableIndicacoes))

	got, _ := env.indicacoes.Get(context.Background(), incID)
	assert.Equal(t, "Sim", got.StatusRecompensa)
	assert.Equal(t, "finance", got.UpdatedBy)
}

func TestIndicacaoService_ClearingSaleResetsRevenue(t *testing.T) {
	env := newTestEnv(t, true)
	id := env.createIndicador(t, "Ana", "11999990000")
	incID := env.createIndicacao(t, saleRequest(id))

	no := false
	_, apierr := env.indicacoes.Update(context.Background(), "admin", incID, &contract.UpdateIndicacaoRequest{GerouVenda: &no})
	require.Nil(t, apierr)

	got, _ := env.indicacoes.Get(context.Background(), incID)
	assert.False(t, got.GerouVenda)
	assert.Zero(t, got.FaturamentoGerado)
	assert.Equal(t, "Nao", got.StatusRecompensa)
}

func TestIndicacaoService_AuditFailureDoesNotFailMutation(t *testing.T) {
	env := newTestEnv(t, false)

	id := env.createIndicador(t, "Ana", "11999990000")
	incID := env.createIndicacao(t, saleRequest(id))

	got, apierr := env.indicacoes.Get(context.Background(), incID)
	require.Nil(t, apierr)
	assert.Equal(t, id, got.IndicadorID)
}

func TestIndicacaoService_ListRange(t *testing.T) {
	env := newTestEnv(t, true)
	id := env.createIndicador(t, "Ana", "11999990000")

	for _, date := range []string{"2025-01-05", "2025-02-10", "2025-02-28"} {
		req := saleRequest(id)
		req.DataIndicacao = date
		env.createIndicacao(t, req)
	}

	list, apierr := env.indicacoes.List(context.Background(), contract.ListParams{From: "2025-02-01", To: "2025-02-28", Limit: 1})
	require.Nil(t, apierr)
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Data, 1)
	require.NotNil(t, list.Cursor)
	assert.Equal(t, 1, *list.Cursor)
}

func TestDashboardService_Summary(t *testing.T) {
	env := newTestEnv(t, true)
	ana := env.createIndicador(t, "Ana", "11999990000")
	bia := env.createIndicador(t, "Bia", "11977770000")

	env.createIndicacao(t, saleRequest(ana))
	noSale := saleRequest(ana)
	noSale.GerouVenda = false
	env.createIndicacao(t, noSale)
	other := saleRequest(bia)
	other.FaturamentoGerado = 250.5
	env.createIndicacao(t, other)

	resp, apierr := env.dashboard.Summary(context.Background(), "", "", "")
	require.Nil(t, apierr)
	assert.Equal(t, 3, resp.TotalIndicacoes)
	assert.Equal(t, 2, resp.TotalIndicadores)
	assert.Equal(t, 2, resp.TotalVendas)
	assert.Equal(t, 66.7, resp.TaxaConversao)
	assert.InDelta(t, 750.5, resp.FaturamentoTotal, 0.001)

	resp, apierr = env.dashboard.Summary(context.Background(), "", "", bia)
	require.Nil(t, apierr)
	assert.Equal(t, 1, resp.TotalIndicacoes)
	assert.Equal(t, 100.0, resp.TaxaConversao)
}

func TestDashboardService_Empty(t *testing.T) {
	env := newTestEnv(t, true)

	resp, apierr := env.dashboard.Summary(context.Background(), "", "", "")
	require.Nil(t, apierr)
	assert.Zero(t, resp.TaxaConversao)
}

func TestUtilService_DiagAndHistory(t *testing.T) {
	env := newTestEnv(t, false)
	env.mem.AddTable(repository.TableLogs, "log_id", "tab")

	diags := env.util.Diag(context.Background())
	require.Len(t, diags, len(repository.Tables))

	byTable := make(map[string]*contract.TableDiag)
	for _, d := range diags {
		byTable[d.Table] = d
	}
	assert.Empty(t, byTable[repository.TableIndicadores].Missing)
	assert.Equal(t, []string{"ref_id", "acao", "ator", "payload", "timestamp"}, byTable[repository.TableLogs].Missing)

	_, apierr := env.util.History(context.Background(), repository.TableIndicadores, "IND_0001")
	requireStatus(t, apierr, http.StatusInternalServerError)
}

func TestUtilService_History(t *testing.T) {
	env := newTestEnv(t, true)
	id := env.createIndicador(t, "Ana", "11999990000")
	nome := "Ana Maria"
	_, apierr := env.indicadores.Update(context.Background(), "admin", id, &contract.UpdateIndicadorRequest{Nome: &nome})
	require.Nil(t, apierr)

	history, apierr := env.util.History(context.Background(), repository.TableIndicadores, id)
	require.Nil(t, apierr)
	require.Len(t, history, 2)
	assert.Equal(t, "insert", history[0].Acao)
	assert.Equal(t, "update", history[1].Acao)
}
