package validation

import (
	"context"
	"strings"
	"time"

	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/utils/phone"
	"indicacoes/cmd/internal/utils/validators"
)

// IndicadorLookup is the read path used for the phone uniqueness check.
type IndicadorLookup interface {
	FindActiveByTelefone(ctx context.Context, telefone string) ([]*entity.Indicador, error)
}

type IndicadorPatch struct {
	Nome     *string
	Telefone *string
	Email    *string
	Empresa  *string
}

type IndicacaoPatch struct {
	DataIndicacao     *string
	NomeIndicado      *string
	TelefoneIndicado  *string
	GerouVenda        *bool
	FaturamentoGerado *float64
	StatusRecompensa  *entity.RewardStatus
	Observacoes       *string
}

type Engine struct {
	indicadores IndicadorLookup
	now         func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(indicadores IndicadorLookup, opts ...Option) *Engine {
	e := &Engine{indicadores: indicadores, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateIndicador returns the draft with its phone in canonical form.
// Rejections are *Failure; any other error comes from the lookup.
func (e *Engine) CreateIndicador(ctx context.Context, draft *entity.Indicador) (*entity.Indicador, error) {
	out := *draft
	out.Nome = strings.TrimSpace(out.Nome)

	if out.Nome == "" {
		return nil, invalid("nome", "Campo obrigatório")
	}
	if strings.TrimSpace(out.Telefone) == "" {
		return nil, invalid("telefone", "Campo obrigatório")
	}

	tel, err := phone.Normalize(out.Telefone)
	if err != nil {
		return nil, invalid("telefone", "Telefone inválido")
	}
	out.Telefone = tel

	if err := e.checkTelefoneFree(ctx, tel, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateIndicador merges patch over current. The phone is only checked for
// uniqueness when it changes.
func (e *Engine) UpdateIndicador(ctx context.Context, current *entity.Indicador, patch IndicadorPatch) (*entity.Indicador, error) {
	out := *current

	if patch.Nome != nil {
		out.Nome = strings.TrimSpace(*patch.Nome)
		if out.Nome == "" {
			return nil, invalid("nome", "Campo obrigatório")
		}
	}
	if patch.Email != nil {
		out.Email = *patch.Email
	}
	if patch.Empresa != nil {
		out.Empresa = *patch.Empresa
	}

	if patch.Telefone != nil {
		tel, err := phone.Normalize(*patch.Telefone)
		if err != nil {
			return nil, invalid("telefone", "Telefone inválido")
		}
		if tel != current.Telefone {
			if err := e.checkTelefoneFree(ctx, tel, current.ID); err != nil {
				return nil, err
			}
		}
		out.Telefone = tel
	}
	return &out, nil
}

// CreateIndicacao normalizes a new referral. A sale with reward status Nao
// is moved to EmProcessamento; no sale forces zero revenue and Nao.
func (e *Engine) CreateIndicacao(draft *entity.Indicacao) (*entity.Indicacao, error) {
	out := *draft
	if f := e.normalizeIndicacao(&out, true, true); f != nil {
		return nil, f
	}
	return &out, nil
}

// UpdateIndicacao applies the creation rules to the merged referral and
// rejects any change that moves the reward status away from Sim. Date and
// phone are only parsed when the patch sets them, so rows migrated with a
// raw phone stay editable.
func (e *Engine) UpdateIndicacao(current *entity.Indicacao, patch IndicacaoPatch) (*entity.Indicacao, error) {
	out := *current

	if patch.StatusRecompensa != nil {
		if !patch.StatusRecompensa.Valid() {
			return nil, invalid("status_recompensa", "status_recompensa inválido")
		}
		if regresses(current.StatusRecompensa, *patch.StatusRecompensa) {
			return nil, invalid("status_recompensa", "status_recompensa não pode regredir")
		}
		out.StatusRecompensa = *patch.StatusRecompensa
	}

	if patch.DataIndicacao != nil {
		out.DataIndicacao = *patch.DataIndicacao
	}
	if patch.NomeIndicado != nil {
		out.NomeIndicado = *patch.NomeIndicado
	}
	if patch.TelefoneIndicado != nil {
		out.TelefoneIndicado = *patch.TelefoneIndicado
	}
	if patch.GerouVenda != nil {
		out.GerouVenda = *patch.GerouVenda
	}
	if patch.FaturamentoGerado != nil {
		out.FaturamentoGerado = *patch.FaturamentoGerado
	}
	if patch.Observacoes != nil {
		out.Observacoes = *patch.Observacoes
	}

	if patch.StatusRecompensa != nil && *patch.StatusRecompensa != entity.RewardNao && !out.GerouVenda {
		return nil, invalid("status_recompensa", "status_recompensa exige gerou_venda=true")
	}

	if f := e.normalizeIndicacao(&out, patch.DataIndicacao != nil, patch.TelefoneIndicado != nil); f != nil {
		return nil, f
	}

	// Clearing gerou_venda resets the reward, which must not undo a paid one.
	if regresses(current.StatusRecompensa, out.StatusRecompensa) {
		return nil, invalid("status_recompensa", "status_recompensa não pode regredir")
	}
	return &out, nil
}

func regresses(stored, next entity.RewardStatus) bool {
	return stored == entity.RewardSim && next != entity.RewardSim
}

func (e *Engine) normalizeIndicacao(ind *entity.Indicacao, parseDate, parsePhone bool) *Failure {
	ind.IndicadorID = strings.TrimSpace(ind.IndicadorID)
	ind.NomeIndicado = strings.TrimSpace(ind.NomeIndicado)
	ind.DataIndicacao = strings.TrimSpace(ind.DataIndicacao)

	for _, req := range []struct{ field, value string }{
		{"indicador_id", ind.IndicadorID},
		{"data_indicacao", ind.DataIndicacao},
		{"nome_indicado", ind.NomeIndicado},
		{"telefone_indicado", strings.TrimSpace(ind.TelefoneIndicado)},
	} {
		if req.value == "" {
			return invalid(req.field, "Campo obrigatório")
		}
	}

	if parseDate {
		date, ok := validators.ParseDate(ind.DataIndicacao)
		if !ok {
			return invalid("data_indicacao", "Data deve estar no formato AAAA-MM-DD")
		}
		y, m, d := e.now().Date()
		if date.After(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
			return invalid("data_indicacao", "Data da indicação não pode estar no futuro")
		}
		ind.DataIndicacao = date.Format(validators.DateLayout)
	}

	if parsePhone {
		tel, err := phone.Normalize(ind.TelefoneIndicado)
		if err != nil {
			return invalid("telefone_indicado", "Telefone inválido")
		}
		ind.TelefoneIndicado = tel
	}

	if ind.StatusRecompensa == "" {
		ind.StatusRecompensa = entity.RewardNao
	}
	if !ind.StatusRecompensa.Valid() {
		return invalid("status_recompensa", "status_recompensa inválido")
	}

	if ind.FaturamentoGerado < 0 {
		return invalid("faturamento_gerado", "faturamento_gerado não pode ser negativo")
	}

	if ind.GerouVenda {
		if ind.FaturamentoGerado <= 0 {
			return invalid("faturamento_gerado", "faturamento_gerado deve ser > 0 quando gerou_venda=true")
		}
		if ind.StatusRecompensa == entity.RewardNao {
			ind.StatusRecompensa = entity.RewardEmProcessamento
		}
	} else {
		ind.FaturamentoGerado = 0
		ind.StatusRecompensa = entity.RewardNao
	}
	return nil
}

func (e *Engine) checkTelefoneFree(ctx context.Context, tel, selfID string) error {
	existing, err := e.indicadores.FindActiveByTelefone(ctx, tel)
	if err != nil {
		return err
	}

	for _, ind := range existing {
		if ind.ID != selfID {
			return conflict("telefone", "Telefone já cadastrado")
		}
	}
	return nil
}
