package entity

// LegacyIndicador is a row of the relational database that predates the
// spreadsheet. Ids are UUID strings.
type LegacyIndicador struct {
	ID        string `gorm:"primaryKey;column:id"`
	Nome      string `gorm:"not null"`
	Telefone  string `gorm:"not null"`
	Email     *string
	Empresa   *string
	CreatedAt *string
	UpdatedAt *string
}

func (LegacyIndicador) TableName() string {
	return "indicadores"
}

type LegacyIndicacao struct {
	ID               string `gorm:"primaryKey;column:id"`
	DataIndicacao    string `gorm:"not null"`
	NomeIndicado     string `gorm:"not null"`
	TelefoneIndicado string `gorm:"not null"`
	GerouVenda       bool
	// FaturamentoGerado is in cents.
	FaturamentoGerado int64
	// StatusRecompensa holds the enum name: NAO, SIM or EM_PROCESSAMENTO.
	StatusRecompensa *string
	Observacoes      *string
	IndicadorID      string `gorm:"not null;index"`
	CreatedAt        *string
	UpdatedAt        *string
}

func (LegacyIndicacao) TableName() string {
	return "indicacoes"
}
