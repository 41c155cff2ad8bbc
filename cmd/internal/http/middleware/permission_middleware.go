package middleware

import (
	"context"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/domain/policy"
	"indicacoes/cmd/internal/utils"
	"indicacoes/cmd/internal/utils/apierror"
	"net/http"
)

type PermissaoRepository interface {
	FindAll(ctx context.Context) ([]*entity.Permissao, error)
}

type PermissionMiddleware struct {
	PermissaoRepo PermissaoRepository
	Policy        *policy.PermissaoPolicy
}

func NewPermissionMiddleware(repo PermissaoRepository, permissaoPolicy *policy.PermissaoPolicy) *PermissionMiddleware {
	return &PermissionMiddleware{PermissaoRepo: repo, Policy: permissaoPolicy}
}

// Route guards rota with the action implied by the request method.
func (p *PermissionMiddleware) Route(rota string) echo.MiddlewareFunc {
	return p.check(rota, func(c echo.Context) entity.Action {
		return actionFor(c.Request().Method)
	})
}

// Action guards rota with a fixed action.
func (p *PermissionMiddleware) Action(rota string, action entity.Action) echo.MiddlewareFunc {
	return p.check(rota, func(echo.Context) entity.Action {
		return action
	})
}

func (p *PermissionMiddleware) check(rota string, action func(echo.Context) entity.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rules, err := p.PermissaoRepo.FindAll(c.Request().Context())
			if err != nil {
				log.Errorf("failed to load permissoes: %v", err)
				apierr := apierror.FromStoreError(err)
				return c.JSON(apierr.Code(), apierr)
			}

			tipo := utils.GetActorFromContext(c)
			if apierr := p.Policy.CanAccess(rules, tipo, rota, action(c)); apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}
			return next(c)
		}
	}
}

func actionFor(method string) entity.Action {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return entity.ActionEditar
	case http.MethodDelete:
		return entity.ActionExcluir
	default:
		return entity.ActionVisualizar
	}
}
