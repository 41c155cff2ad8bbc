package service

import (
	"context"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"indicacoes/cmd/internal/contract"
	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/domain/events"
	"indicacoes/cmd/internal/domain/sheetstore"
	"indicacoes/cmd/internal/domain/sheetstore/repository"
	"indicacoes/cmd/internal/domain/validation"
	"indicacoes/cmd/internal/utils/apierror"
	"indicacoes/cmd/internal/utils/ids"
	"net/http"
	"time"
)

type IndicadorRepository interface {
	List(ctx context.Context, q sheetstore.Query) (*repository.Page[*entity.Indicador], error)
	FindAll(ctx context.Context, filters map[string]string) ([]*entity.Indicador, error)
	FindByID(ctx context.Context, id string) (*entity.Indicador, error)
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, inds ...*entity.Indicador) error
	Update(ctx context.Context, ind *entity.Indicador, expectUpdatedAt string) (bool, error)
	Archive(ctx context.Context, id string) (bool, error)
}

var ErrIndicadorHasIndicacoes = apierror.New(http.StatusConflict, apierror.CodeConflict,
	"Indicador possui indicações ativas e não pode ser arquivado")

type DefaultIndicadorService struct {
	IndicadorRepo IndicadorRepository
	IndicacaoRepo IndicacaoRepository
	Engine        *validation.Engine
	Audit         *AuditLogger
	Validate      *validator.Validate
	Now           func() time.Time
}

func NewIndicadorService(
	indicadorRepo IndicadorRepository,
	indicacaoRepo IndicacaoRepository,
	engine *validation.Engine,
	audit *AuditLogger,
	validate *validator.Validate,
) *DefaultIndicadorService {
	return &DefaultIndicadorService{
		IndicadorRepo: indicadorRepo,
		IndicacaoRepo: indicacaoRepo,
		Engine:        engine,
		Audit:         audit,
		Validate:      validate,
		Now:           time.Now,
	}
}

func (s *DefaultIndicadorService) List(ctx context.Context, params contract.ListParams) (*contract.ListResponse[*contract.IndicadorResponse], apierror.ErrorResponse) {
	page, err := s.IndicadorRepo.List(ctx, listQuery(params, ""))
	if err != nil {
		log.Errorf("failed to list indicadores: %v", err)
		return nil, apierror.FromStoreError(err)
	}

	resp := &contract.ListResponse[*contract.IndicadorResponse]{
		OK:     true,
		Data:   make([]*contract.IndicadorResponse, len(page.Items)),
		Total:  page.Total,
		Cursor: page.NextCursor,
	}
	for i, ind := range page.Items {
		resp.Data[i] = toIndicadorResponse(ind)
	}
	return resp, nil
}

// Get finds archived referrers too.
func (s *DefaultIndicadorService) Get(ctx context.Context, id string) (*contract.IndicadorResponse, apierror.ErrorResponse) {
	ind, err := s.IndicadorRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch indicador %s: %v", id, err)
		return nil, apierror.FromStoreError(err)
	}

	if ind == nil {
		return nil, apierror.NotFoundError
	}
	return toIndicadorResponse(ind), nil
}

func (s *DefaultIndicadorService) Create(ctx context.Context, actor string, req *contract.IndicadorRequest) (*contract.IDResponse, apierror.ErrorResponse) {
	if apierr := checkRequest(s.Validate, req); apierr != nil {
		return nil, apierr
	}

	ind, err := s.Engine.CreateIndicador(ctx, &entity.Indicador{
		Nome:     req.Nome,
		Telefone: req.Telefone,
		Email:    req.Email,
		Empresa:  req.Empresa,
	})
	if err != nil {
		return nil, failureOrStoreError("failed to validate indicador", err)
	}

	total, err := s.IndicadorRepo.Count(ctx)
	if err != nil {
		log.Errorf("failed to count indicadores: %v", err)
		return nil, apierror.FromStoreError(err)
	}

	now := timestamp(s.Now)
	ind.ID = ids.Next(ids.PrefixIndicador, total+1)
	ind.CreatedAt = now
	ind.UpdatedAt = now
	ind.Status = entity.StatusActive

	if err := s.IndicadorRepo.Save(ctx, ind); err != nil {
		log.Errorf("failed to save indicador: %v", err)
		return nil, apierror.FromStoreError(err)
	}

	_ = s.Audit.Record(ctx, &events.IndicadorCreated{IndicadorResponse: toIndicadorResponse(ind)}, actor)
	return &contract.IDResponse{ID: ind.ID}, nil
}

func (s *DefaultIndicadorService) Update(ctx context.Context, actor, id string, req *contract.UpdateIndicadorRequest) (*contract.IDResponse, apierror.ErrorResponse) {
	if apierr := checkRequest(s.Validate, req); apierr != nil {
		return nil, apierr
	}

	current, err := s.IndicadorRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch indicador %s: %v", id, err)
		return nil, apierror.FromStoreError(err)
	}

	if current == nil {
		return nil, apierror.NotFoundError
	}

	next, err := s.Engine.UpdateIndicador(ctx, current, validation.IndicadorPatch{
		Nome:     req.Nome,
		Telefone: req.Telefone,
		Email:    req.Email,
		Empresa:  req.Empresa,
	})
	if err != nil {
		return nil, failureOrStoreError("failed to validate indicador", err)
	}

	next.UpdatedAt = timestamp(s.Now)
	ok, err := s.IndicadorRepo.Update(ctx, next, current.UpdatedAt)
	if err != nil {
		log.Errorf("failed to update indicador %s: %v", id, err)
		return nil, apierror.FromStoreError(err)
	}

	if !ok {
		return nil, apierror.NotFoundError
	}

	_ = s.Audit.Record(ctx, &events.IndicadorUpdated{IndicadorResponse: toIndicadorResponse(next)}, actor)
	return &contract.IDResponse{ID: id}, nil
}

// Delete archives the referrer. Referrers still holding active referrals
// are refused.
func (s *DefaultIndicadorService) Delete(ctx context.Context, actor, id string) (*contract.IDResponse, apierror.ErrorResponse) {
	current, err := s.IndicadorRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch indicador %s: %v", id, err)
		return nil, apierror.FromStoreError(err)
	}

	if current == nil {
		return nil, apierror.NotFoundError
	}

	active, err := s.IndicacaoRepo.CountActiveByIndicador(ctx, id)
	if err != nil {
		log.Errorf("failed to count indicacoes of %s: %v", id, err)
		return nil, apierror.FromStoreError(err)
	}

	if active > 0 {
		return nil, ErrIndicadorHasIndicacoes.With("indicacoes_ativas", active)
	}

	ok, err := s.IndicadorRepo.Archive(ctx, id)
	if err != nil {
		log.Errorf("failed to archive indicador %s: %v", id, err)
		return nil, apierror.FromStoreError(err)
	}

	if !ok {
		return nil, apierror.NotFoundError
	}

	_ = s.Audit.Record(ctx, &events.IndicadorArchived{IndicadorID: id}, actor)
	return &contract.IDResponse{ID: id}, nil
}

func toIndicadorResponse(ind *entity.Indicador) *contract.IndicadorResponse {
	return &contract.IndicadorResponse{
		ID:        ind.ID,
		Nome:      ind.Nome,
		Telefone:  ind.Telefone,
		Email:     ind.Email,
		Empresa:   ind.Empresa,
		CreatedAt: ind.CreatedAt,
		UpdatedAt: ind.UpdatedAt,
		Status:    string(ind.Status),
	}
}
