package entity

// RewardStatus tracks the referral reward. It only moves forward:
// Nao -> EmProcessamento -> Sim, and Sim is final.
type RewardStatus string

const (
	RewardNao             RewardStatus = "Nao"
	RewardEmProcessamento RewardStatus = "EmProcessamento"
	RewardSim             RewardStatus = "Sim"
)

var RewardStatuses = []RewardStatus{RewardNao, RewardEmProcessamento, RewardSim}

func (s RewardStatus) Valid() bool {
	switch s {
	case RewardNao, RewardEmProcessamento, RewardSim:
		return true
	}
	return false
}

type Indicacao struct {
	ID                string
	IndicadorID       string
	DataIndicacao     string // YYYY-MM-DD
	NomeIndicado      string
	TelefoneIndicado  string
	GerouVenda        bool
	FaturamentoGerado float64
	StatusRecompensa  RewardStatus
	Observacoes       string
	CreatedAt         string
	UpdatedAt         string
	CreatedBy         string
	UpdatedBy         string
	Status            LifecycleStatus
}

func (i *Indicacao) Active() bool {
	return i.Status == StatusActive
}
