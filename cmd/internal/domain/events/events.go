package events

import (
	"indicacoes/cmd/internal/contract"
	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/domain/sheetstore/repository"
)

// AuditEvent is a mutation worth one Logs row. The event itself is
// serialized as the row payload.
type AuditEvent interface {
	GetType() entity.LogAction
	Tab() string
	RefID() string
}

type IndicadorCreated struct {
	*contract.IndicadorResponse
}

func (e *IndicadorCreated) GetType() entity.LogAction { return entity.LogInsert }
func (e *IndicadorCreated) Tab() string               { return repository.TableIndicadores }
func (e *IndicadorCreated) RefID() string             { return e.ID }

type IndicadorUpdated struct {
	*contract.IndicadorResponse
}

func (e *IndicadorUpdated) GetType() entity.LogAction { return entity.LogUpdate }
func (e *IndicadorUpdated) Tab() string               { return repository.TableIndicadores }
func (e *IndicadorUpdated) RefID() string             { return e.ID }

type IndicadorArchived struct {
	IndicadorID string `json:"indicador_id"`
}

func (e *IndicadorArchived) GetType() entity.LogAction { return entity.LogDelete }
func (e *IndicadorArchived) Tab() string               { return repository.TableIndicadores }
func (e *IndicadorArchived) RefID() string             { return e.IndicadorID }

type IndicacaoCreated struct {
	*contract.IndicacaoResponse
}

func (e *IndicacaoCreated) GetType() entity.LogAction { return entity.LogInsert }
func (e *IndicacaoCreated) Tab() string               { return repository.TableIndicacoes }
func (e *IndicacaoCreated) RefID() string             { return e.ID }

// IndicacaoUpdated carries the patch as submitted next to the stored result.
type IndicacaoUpdated struct {
	Patch  *contract.UpdateIndicacaoRequest `json:"patch"`
	Result *contract.IndicacaoResponse      `json:"result"`
}

func (e *IndicacaoUpdated) GetType() entity.LogAction { return entity.LogUpdate }
func (e *IndicacaoUpdated) Tab() string               { return repository.TableIndicacoes }
func (e *IndicacaoUpdated) RefID() string             { return e.Result.ID }

type IndicacaoArchived struct {
	IndicacaoID string `json:"indicacao_id"`
}

func (e *IndicacaoArchived) GetType() entity.LogAction { return entity.LogDelete }
func (e *IndicacaoArchived) Tab() string               { return repository.TableIndicacoes }
func (e *IndicacaoArchived) RefID() string             { return e.IndicacaoID }
