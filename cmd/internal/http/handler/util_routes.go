package handler

import (
	"context"
	"github.com/labstack/echo/v4"
	"indicacoes/cmd/internal/contract"
	"indicacoes/cmd/internal/utils/apierror"
	"indicacoes/cmd/internal/utils/validators"
	"net/http"
	"strings"
	"time"
)

type DashboardService interface {
	Summary(ctx context.Context, from, to, indicadorID string) (*contract.DashboardResponse, apierror.ErrorResponse)
}

type UtilService interface {
	Diag(ctx context.Context) []*contract.TableDiag
	History(ctx context.Context, tab, refID string) ([]*contract.LogResponse, apierror.ErrorResponse)
}

type ExportService interface {
	Export(ctx context.Context, table string) ([]byte, apierror.ErrorResponse)
}

type DefaultUtilRoute struct {
	DashboardService DashboardService
	UtilService      UtilService
	ExportService    ExportService
}

func NewUtilRoute(dashboardService DashboardService, utilService UtilService, exportService ExportService) *DefaultUtilRoute {
	return &DefaultUtilRoute{
		DashboardService: dashboardService,
		UtilService:      utilService,
		ExportService:    exportService,
	}
}

func (u *DefaultUtilRoute) GetDashboard(c echo.Context) error {
	params, apierr := parseListParams(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	indicadorID := strings.TrimSpace(c.QueryParam("indicador_id"))
	resp, apierr := u.DashboardService.Summary(c.Request().Context(), params.From, params.To, indicadorID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &contract.DataResponse{OK: true, Data: resp})
}

func (u *DefaultUtilRoute) GetDiag(c echo.Context) error {
	diags := u.UtilService.Diag(c.Request().Context())
	return c.JSON(http.StatusOK, &contract.DataResponse{OK: true, Data: diags})
}

// History serves the audit trail of one record of tab.
func (u *DefaultUtilRoute) History(tab string) echo.HandlerFunc {
	return func(c echo.Context) error {
		entries, apierr := u.UtilService.History(c.Request().Context(), tab, c.Param("id"))
		if apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}
		return c.JSON(http.StatusOK, &contract.DataResponse{OK: true, Data: entries})
	}
}

// Export serves tab as a CSV attachment.
func (u *DefaultUtilRoute) Export(tab string) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, apierr := u.ExportService.Export(c.Request().Context(), tab)
		if apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}

		filename := strings.ToLower(tab) + "-" + time.Now().UTC().Format(validators.DateLayout) + ".csv"
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
	}
}

// Docker Compose healthcheck
func HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
