package entity

type LifecycleStatus string

const (
	StatusActive   LifecycleStatus = "active"
	StatusArchived LifecycleStatus = "archived"
)

// Indicador is a person or company referring prospective customers.
// Telefone is always stored in E.164 form.
type Indicador struct {
	ID        string
	Nome      string
	Telefone  string
	Email     string
	Empresa   string
	CreatedAt string
	UpdatedAt string
	Status    LifecycleStatus
}

func (i *Indicador) Active() bool {
	return i.Status == StatusActive
}
