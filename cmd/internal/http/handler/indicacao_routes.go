package handler

import (
	"context"
	"github.com/labstack/echo/v4"
	"indicacoes/cmd/internal/contract"
	"indicacoes/cmd/internal/utils"
	"indicacoes/cmd/internal/utils/apierror"
	"net/http"
)

type IndicacaoService interface {
	List(ctx context.Context, params contract.ListParams) (*contract.ListResponse[*contract.IndicacaoResponse], apierror.ErrorResponse)
	Get(ctx context.Context, id string) (*contract.IndicacaoResponse, apierror.ErrorResponse)
	Create(ctx context.Context, actor string, req *contract.IndicacaoRequest) (*contract.IDResponse, apierror.ErrorResponse)
	Update(ctx context.Context, actor, id string, req *contract.UpdateIndicacaoRequest) (*contract.IDResponse, apierror.ErrorResponse)
	Delete(ctx context.Context, actor, id string) (*contract.IDResponse, apierror.ErrorResponse)
}

type DefaultIndicacaoRoute struct {
	IndicacaoService IndicacaoService
}

func NewIndicacaoRoute(indicacaoService IndicacaoService) *DefaultIndicacaoRoute {
	return &DefaultIndicacaoRoute{IndicacaoService: indicacaoService}
}

func (i *DefaultIndicacaoRoute) GetIndicacoes(c echo.Context) error {
	params, apierr := parseListParams(c, "indicador_id", "gerou_venda", "status_recompensa", "status")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := i.IndicacaoService.List(c.Request().Context(), params)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (i *DefaultIndicacaoRoute) GetIndicacao(c echo.Context) error {
	ind, apierr := i.IndicacaoService.Get(c.Request().Context(), c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &contract.DataResponse{OK: true, Data: ind})
}

func (i *DefaultIndicacaoRoute) CreateIndicacao(c echo.Context) error {
	var req contract.IndicacaoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	resp, apierr := i.IndicacaoService.Create(c.Request().Context(), utils.GetActorFromContext(c), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, &contract.DataResponse{OK: true, Data: resp})
}

func (i *DefaultIndicacaoRoute) UpdateIndicacao(c echo.Context) error {
	var req contract.UpdateIndicacaoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	resp, apierr := i.IndicacaoService.Update(c.Request().Context(), utils.GetActorFromContext(c), c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &contract.DataResponse{OK: true, Data: resp})
}

func (i *DefaultIndicacaoRoute) DeleteIndicacao(c echo.Context) error {
	resp, apierr := i.IndicacaoService.Delete(c.Request().Context(), utils.GetActorFromContext(c), c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &contract.DataResponse{OK: true, Data: resp})
}
