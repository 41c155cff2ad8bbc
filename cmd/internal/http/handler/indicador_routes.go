package handler

import (
	"context"
	"github.com/labstack/echo/v4"
	"indicacoes/cmd/internal/contract"
	"indicacoes/cmd/internal/utils"
	"indicacoes/cmd/internal/utils/apierror"
	"net/http"
)

type IndicadorService interface {
	List(ctx context.Context, params contract.ListParams) (*contract.ListResponse[*contract.IndicadorResponse], apierror.ErrorResponse)
	Get(ctx context.Context, id string) (*contract.IndicadorResponse, apierror.ErrorResponse)
	Create(ctx context.Context, actor string, req *contract.IndicadorRequest) (*contract.IDResponse, apierror.ErrorResponse)
	Update(ctx context.Context, actor, id string, req *contract.UpdateIndicadorRequest) (*contract.IDResponse, apierror.ErrorResponse)
	Delete(ctx context.Context, actor, id string) (*contract.IDResponse, apierror.ErrorResponse)
}

type DefaultIndicadorRoute struct {
	IndicadorService IndicadorService
}

func NewIndicadorRoute(indicadorService IndicadorService) *DefaultIndicadorRoute {
	return &DefaultIndicadorRoute{IndicadorService: indicadorService}
}

func (i *DefaultIndicadorRoute) GetIndicadores(c echo.Context) error {
	params, apierr := parseListParams(c, "nome", "telefone", "empresa", "status")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := i.IndicadorService.List(c.Request().Context(), params)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (i *DefaultIndicadorRoute) GetIndicador(c echo.Context) error {
	ind, apierr := i.IndicadorService.Get(c.Request().Context(), c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &contract.DataResponse{OK: true, Data: ind})
}

func (i *DefaultIndicadorRoute) CreateIndicador(c echo.Context) error {
	var req contract.IndicadorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	resp, apierr := i.IndicadorService.Create(c.Request().Context(), utils.GetActorFromContext(c), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, &contract.DataResponse{OK: true, Data: resp})
}

func (i *DefaultIndicadorRoute) UpdateIndicador(c echo.Context) error {
	var req contract.UpdateIndicadorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	resp, apierr := i.IndicadorService.Update(c.Request().Context(), utils.GetActorFromContext(c), c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &contract.DataResponse{OK: true, Data: resp})
}

func (i *DefaultIndicadorRoute) DeleteIndicador(c echo.Context) error {
	resp, apierr := i.IndicadorService.Delete(c.Request().Context(), utils.GetActorFromContext(c), c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &contract.DataResponse{OK: true, Data: resp})
}
