package policy

import (
	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/utils/apierror"
)

// PermissaoPolicy evaluates the Permissoes table. A request is allowed when
// any rule covering (tipo, rota) grants the action; there are no deny rules.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
type PermissaoPolicy struct{}

func NewPermissaoPolicy() *PermissaoPolicy {
	return &PermissaoPolicy{}
}

func (p *PermissaoPolicy) Allowed(rules []*entity.Permissao, tipo, rota string, action entity.Action) bool {
	for _, rule := range rules {
		if rule.Covers(tipo, rota) && rule.Has(action) {
			return true
		}
	}
	return false
}

func (p *PermissaoPolicy) CanAccess(rules []*entity.Permissao, tipo, rota string, action entity.Action) apierror.ErrorResponse {
	if p.Allowed(rules, tipo, rota, action) {
		return nil
	}
	return apierror.ForbiddenError.
		With("tipo", tipo).
		With("rota", rota).
		With("acao", string(action))
}
