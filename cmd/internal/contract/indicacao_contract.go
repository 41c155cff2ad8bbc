package contract

type IndicacaoResponse struct {
	ID                string  `json:"indicacao_id"`
	IndicadorID       string  `json:"indicador_id"`
	DataIndicacao     string  `json:"data_indicacao"`
	NomeIndicado      string  `json:"nome_indicado"`
	TelefoneIndicado  string  `json:"telefone_indicado"`
	GerouVenda        bool    `json:"gerou_venda"`
	FaturamentoGerado float64 `json:"faturamento_gerado"`
	StatusRecompensa  string  `json:"status_recompensa"`
	Observacoes       string  `json:"observacoes"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
	CreatedBy         string  `json:"created_by"`
	UpdatedBy         string  `json:"updated_by"`
	Status            string  `json:"status"`
}

type IndicacaoRequest struct {
	IndicadorID       string  `json:"indicador_id" validate:"required"`
	DataIndicacao     string  `json:"data_indicacao" validate:"required,isodate"`
	NomeIndicado      string  `json:"nome_indicado" validate:"required,min=2,max=120"`
	TelefoneIndicado  string  `json:"telefone_indicado" validate:"required,max=32"`
	GerouVenda        bool    `json:"gerou_venda"`
	FaturamentoGerado float64 `json:"faturamento_gerado"`
	StatusRecompensa  string  `json:"status_recompensa" validate:"omitempty,rewardstatus"`
	Observacoes       string  `json:"observacoes" validate:"max=2000"`
}

// UpdateIndicacaoRequest is a partial patch; nil fields keep their stored value.
type UpdateIndicacaoRequest struct {
	DataIndicacao     *string  `json:"data_indicacao" validate:"omitempty,isodate"`
	NomeIndicado      *string  `json:"nome_indicado" validate:"omitempty,min=2,max=120"`
	TelefoneIndicado  *string  `json:"telefone_indicado" validate:"omitempty,max=32"`
	GerouVenda        *bool    `json:"gerou_venda"`
	FaturamentoGerado *float64 `json:"faturamento_gerado"`
	StatusRecompensa  *string  `json:"status_recompensa" validate:"omitempty,rewardstatus"`
	Observacoes       *string  `json:"observacoes" validate:"omitempty,max=2000"`
}
