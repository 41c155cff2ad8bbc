package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicacoes/cmd/internal/domain/entity"
)

type fakeLookup struct {
	byPhone map[string][]*entity.Indicador
	err     error
}

func (f *fakeLookup) FindActiveByTelefone(_ context.Context, tel string) ([]*entity.Indicador, error) {
	return f.byPhone[tel], f.err
}

var today = time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)

func newEngine(lookup *fakeLookup) *Engine {
	if lookup == nil {
		lookup = &fakeLookup{}
	}
	return New(lookup, WithClock(func() time.Time { return today }))
}

func requireFailure(t *testing.T, err error, kind Kind, field string) *Failure {
	t.Helper()
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, kind, f.Kind)
	assert.Equal(t, field, f.Field)
	return f
}

func ptr[T any](v T) *T {
	return &v
}

func TestCreateIndicador_NormalizesPhone(t *testing.T) {
	out, err := newEngine(nil).CreateIndicador(context.Background(), &entity.Indicador{Nome: " Ana ", Telefone: "(11) 99999-0000"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", out.Nome)
	assert.Equal(t, "+5511999990000", out.Telefone)
}

func TestCreateIndicador_Required(t *testing.T) {
	e := newEngine(nil)

	_, err := e.CreateIndicador(context.Background(), &entity.Indicador{Telefone: "+5511999990000"})
	requireFailure(t, err, KindInvalid, "nome")

	_, err = e.CreateIndicador(context.Background(), &entity.Indicador{Nome: "Ana"})
	requireFailure(t, err, KindInvalid, "telefone")

	_, err = e.CreateIndicador(context.Background(), &entity.Indicador{Nome: "Ana", Telefone: "abc"})
	requireFailure(t, err, KindInvalid, "telefone")
}

func TestCreateIndicador_DuplicatePhone(t *testing.T) {
	lookup := &fakeLookup{byPhone: map[string][]*entity.Indicador{
		"+5511999990000": {{ID: "IND_0001"}},
	}}

	_, err := newEngine(lookup).CreateIndicador(context.Background(), &entity.Indicador{Nome: "Bia", Telefone: "+55 11 99999-0000"})
	f := requireFailure(t, err, KindConflict, "telefone")
	assert.Equal(t, "Telefone já cadastrado", f.Reason)
}

func TestCreateIndicador_LookupErrorIsNotFailure(t *testing.T) {
	boom := errors.New("backend down")
	_, err := newEngine(&fakeLookup{err: boom}).CreateIndicador(context.Background(), &entity.Indicador{Nome: "Ana", Telefone: "+5511999990000"})
	require.ErrorIs(t, err, boom)

	var f *Failure
	assert.False(t, errors.As(err, &f))
}

func TestUpdateIndicador_PhoneUniquenessExcludesSelf(t *testing.T) {
	lookup := &fakeLookup{byPhone: map[string][]*entity.Indicador{
		"+5511999990000": {{ID: "IND_0001"}},
	}}
	e := newEngine(lookup)
	current := &entity.Indicador{ID: "IND_0001", Nome: "Ana", Telefone: "+5511999990000"}

	out, err := e.UpdateIndicador(context.Background(), current, IndicadorPatch{Telefone: ptr("11999990000"), Empresa: ptr("Acme")})
	require.NoError(t, err)
	assert.Equal(t, "Acme", out.Empresa)
	assert.Equal(t, "Ana", current.Nome)

	other := &entity.Indicador{ID: "IND_0002", Nome: "Bia", Telefone: "+5511777770000"}
	_, err = e.UpdateIndicador(context.Background(), other, IndicadorPatch{Telefone: ptr("+5511999990000")})
	requireFailure(t, err, KindConflict, "telefone")

	_, err = e.UpdateIndicador(context.Background(), other, IndicadorPatch{Nome: ptr("  ")})
	requireFailure(t, err, KindInvalid, "nome")
}

func validIndicacao() *entity.Indicacao {
	return &entity.Indicacao{
		IndicadorID:       "IND_0001",
		DataIndicacao:     "2025-01-10",
		NomeIndicado:      "Bruno",
		TelefoneIndicado:  "+5511888880000",
		GerouVenda:        true,
		FaturamentoGerado: 500,
		StatusRecompensa:  entity.RewardNao,
	}
}

func TestCreateIndicacao_SaleUpgradesRewardStatus(t *testing.T) {
	out, err := newEngine(nil).CreateIndicacao(validIndicacao())
	require.NoError(t, err)
	assert.Equal(t, entity.RewardEmProcessamento, out.StatusRecompensa)
	assert.Equal(t, 500.0, out.FaturamentoGerado)
}

func TestCreateIndicacao_SaleWithoutRevenueRejected(t *testing.T) {
	in := validIndicacao()
	in.FaturamentoGerado = 0

	_, err := newEngine(nil).CreateIndicacao(in)
	requireFailure(t, err, KindInvalid, "faturamento_gerado")
}

func TestCreateIndicacao_NoSaleClearsRevenueAndReward(t *testing.T) {
	in := validIndicacao()
	in.GerouVenda = false
	in.StatusRecompensa = entity.RewardSim

	out, err := newEngine(nil).CreateIndicacao(in)
	require.NoError(t, err)
	assert.Zero(t, out.FaturamentoGerado)
	assert.Equal(t, entity.RewardNao, out.StatusRecompensa)
}

func TestCreateIndicacao_FieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entity.Indicacao)
		field  string
	}{
		{"missing referrer", func(i *entity.Indicacao) { i.IndicadorID = " " }, "indicador_id"},
		{"missing date", func(i *entity.Indicacao) { i.DataIndicacao = "" }, "data_indicacao"},
		{"missing name", func(i *entity.Indicacao) { i.NomeIndicado = "" }, "nome_indicado"},
		{"missing phone", func(i *entity.Indicacao) { i.TelefoneIndicado = "" }, "telefone_indicado"},
		{"bad date", func(i *entity.Indicacao) { i.DataIndicacao = "10/01/2025" }, "data_indicacao"},
		{"future date", func(i *entity.Indicacao) { i.DataIndicacao = "2025-03-02" }, "data_indicacao"},
		{"bad phone", func(i *entity.Indicacao) { i.TelefoneIndicado = "12" }, "telefone_indicado"},
		{"bad status", func(i *entity.Indicacao) { i.StatusRecompensa = "Pago" }, "status_recompensa"},
		{"negative revenue", func(i *entity.Indicacao) { i.GerouVenda = false; i.FaturamentoGerado = -1 }, "faturamento_gerado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validIndicacao()
			tt.mutate(in)
			_, err := newEngine(nil).CreateIndicacao(in)
			requireFailure(t, err, KindInvalid, tt.field)
		})
	}
}

func TestCreateIndicacao_DefaultsAndDateTruncation(t *testing.T) {
	in := validIndicacao()
	in.StatusRecompensa = ""
	in.DataIndicacao = "2025-03-01T10:00:00Z"

	out, err := newEngine(nil).CreateIndicacao(in)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", out.DataIndicacao)
	assert.Equal(t, entity.RewardEmProcessamento, out.StatusRecompensa)
}

func paidIndicacao() *entity.Indicacao {
	in := validIndicacao()
	in.ID = "INC_0001"
	in.StatusRecompensa = entity.RewardSim
	return in
}

func TestUpdateIndicacao_RewardStatusCannotLeaveSim(t *testing.T) {
	e := newEngine(nil)

	for _, next := range []entity.RewardStatus{entity.RewardNao, entity.RewardEmProcessamento} {
		stored := paidIndicacao()
		_, err := e.UpdateIndicacao(stored, IndicacaoPatch{StatusRecompensa: ptr(next)})
		requireFailure(t, err, KindInvalid, "status_recompensa")
		assert.Equal(t, entity.RewardSim, stored.StatusRecompensa)
	}

	// Clearing the sale would reset the reward to Nao.
	_, err := e.UpdateIndicacao(paidIndicacao(), IndicacaoPatch{GerouVenda: ptr(false)})
	requireFailure(t, err, KindInvalid, "status_recompensa")

	out, err := e.UpdateIndicacao(paidIndicacao(), IndicacaoPatch{Observacoes: ptr("pago em março")})
	require.NoError(t, err)
	assert.Equal(t, entity.RewardSim, out.StatusRecompensa)
}

func TestUpdateIndicacao_MergesAndRevalidates(t *testing.T) {
	e := newEngine(nil)
	stored, err := e.CreateIndicacao(validIndicacao())
	require.NoError(t, err)

	_, err = e.UpdateIndicacao(stored, IndicacaoPatch{FaturamentoGerado: ptr(0.0)})
	requireFailure(t, err, KindInvalid, "faturamento_gerado")

	out, err := e.UpdateIndicacao(stored, IndicacaoPatch{GerouVenda: ptr(false)})
	require.NoError(t, err)
	assert.Zero(t, out.FaturamentoGerado)
	assert.Equal(t, entity.RewardNao, out.StatusRecompensa)

	out, err = e.UpdateIndicacao(stored, IndicacaoPatch{StatusRecompensa: ptr(entity.RewardSim)})
	require.NoError(t, err)
	assert.Equal(t, entity.RewardSim, out.StatusRecompensa)

	_, err = e.UpdateIndicacao(stored, IndicacaoPatch{StatusRecompensa: ptr(entity.RewardStatus("Pago"))})
	requireFailure(t, err, KindInvalid, "status_recompensa")
}

func TestUpdateIndicacao_KeepsUntouchedLegacyFields(t *testing.T) {
	stored := validIndicacao()
	stored.ID = "INC_0007"
	stored.TelefoneIndicado = "12345"
	stored.DataIndicacao = "2024-02-30"
	stored.StatusRecompensa = entity.RewardEmProcessamento

	out, err := newEngine(nil).UpdateIndicacao(stored, IndicacaoPatch{StatusRecompensa: ptr(entity.RewardSim)})
	require.NoError(t, err)
	assert.Equal(t, entity.RewardSim, out.StatusRecompensa)
	assert.Equal(t, "12345", out.TelefoneIndicado)
	assert.Equal(t, "2024-02-30", out.DataIndicacao)

	_, err = newEngine(nil).UpdateIndicacao(stored, IndicacaoPatch{TelefoneIndicado: ptr("12345")})
	requireFailure(t, err, KindInvalid, "telefone_indicado")

	out, err = newEngine(nil).UpdateIndicacao(stored, IndicacaoPatch{TelefoneIndicado: ptr("(11) 98888-0000")})
	require.NoError(t, err)
	assert.Equal(t, "+5511988880000", out.TelefoneIndicado)
}

func TestUpdateIndicacao_RewardWithoutSaleRejected(t *testing.T) {
	stored := validIndicacao()
	stored.GerouVenda = false
	stored.FaturamentoGerado = 0

	for _, next := range []entity.RewardStatus{entity.RewardSim, entity.RewardEmProcessamento} {
		_, err := newEngine(nil).UpdateIndicacao(stored, IndicacaoPatch{StatusRecompensa: ptr(next)})
		requireFailure(t, err, KindInvalid, "status_recompensa")
	}

	out, err := newEngine(nil).UpdateIndicacao(stored, IndicacaoPatch{
		GerouVenda:        ptr(true),
		FaturamentoGerado: ptr(300.0),
		StatusRecompensa:  ptr(entity.RewardSim),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RewardSim, out.StatusRecompensa)
}
