package routes

import (
	"github.com/labstack/echo/v4"
	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/domain/sheetstore/repository"
	"indicacoes/cmd/internal/http/handler"
	"indicacoes/cmd/internal/http/middleware"
)

// Permission route names as written in the rota column of Permissoes.
const (
	RotaIndicadores = "indicadores"
	RotaIndicacoes  = "indicacoes"
	RotaDashboard   = "dashboard"
)

type Handlers struct {
	Indicadores *handler.DefaultIndicadorRoute
	Indicacoes  *handler.DefaultIndicacaoRoute
	Util        *handler.DefaultUtilRoute
}

// Register mounts the API under /api. Every /api route runs the actor
// middleware and then its permission check; /health stays open.
func Register(e *echo.Echo, h *Handlers, actor echo.MiddlewareFunc, perms *middleware.PermissionMiddleware) {
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api", actor)
	api.GET("/_diag", h.Util.GetDiag, perms.Action(RotaDashboard, entity.ActionVisualizar))
	api.GET("/dashboard", h.Util.GetDashboard, perms.Route(RotaDashboard))

	// Indicadores
	ind := api.Group("/indicadores")
	guard := perms.Route(RotaIndicadores)
	ind.GET("", h.Indicadores.GetIndicadores, guard)
	ind.GET("/export", h.Util.Export(repository.TableIndicadores), perms.Action(RotaIndicadores, entity.ActionExportar))
	ind.GET("/:id", h.Indicadores.GetIndicador, guard)
	ind.GET("/:id/historico", h.Util.History(repository.TableIndicadores), guard)
	ind.POST("", h.Indicadores.CreateIndicador, guard)
	ind.PATCH("/:id", h.Indicadores.UpdateIndicador, guard)
	ind.DELETE("/:id", h.Indicadores.DeleteIndicador, guard)

	// Indicacoes
	inc := api.Group("/indicacoes")
	guard = perms.Route(RotaIndicacoes)
	inc.GET("", h.Indicacoes.GetIndicacoes, guard)
	inc.GET("/export", h.Util.Export(repository.TableIndicacoes), perms.Action(RotaIndicacoes, entity.ActionExportar))
	inc.GET("/:id", h.Indicacoes.GetIndicacao, guard)
	inc.GET("/:id/historico", h.Util.History(repository.TableIndicacoes), guard)
	inc.POST("", h.Indicacoes.CreateIndicacao, guard)
	inc.PATCH("/:id", h.Indicacoes.UpdateIndicacao, guard)
	inc.DELETE("/:id", h.Indicacoes.DeleteIndicacao, guard)
}
