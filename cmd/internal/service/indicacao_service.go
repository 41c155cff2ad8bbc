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
	"time"
)

type IndicacaoRepository interface {
	List(ctx context.Context, q sheetstore.Query) (*repository.Page[*entity.Indicacao], error)
	FindAll(ctx context.Context, q sheetstore.Query) ([]*entity.Indicacao, error)
	FindByID(ctx context.Context, id string) (*entity.Indicacao, error)
	CountActiveByIndicador(ctx context.Context, indicadorID string) (int, error)
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, inds ...*entity.Indicacao) error
	Update(ctx context.Context, ind *entity.Indicacao, expectUpdatedAt string) (bool, error)
	Archive(ctx context.Context, id string) (bool, error)
}

type DefaultIndicacaoService struct {
	IndicacaoRepo IndicacaoRepository
	IndicadorRepo IndicadorRepository
	Engine        *validation.Engine
	Audit         *AuditLogger
	Validate      *validator.Validate
	Now           func() time.Time
}

func NewIndicacaoService(
	indicacaoRepo IndicacaoRepository,
	indicadorRepo IndicadorRepository,
	engine *validation.Engine,
	audit *AuditLogger,
	validate *validator.Validate,
) *DefaultIndicacaoService {
	return &DefaultIndicacaoService{
		IndicacaoRepo: indicacaoRepo,
		IndicadorRepo: indicadorRepo,
		Engine:        engine,
		Audit:         audit,
		Validate:      validate,
		Now:           time.Now,
	}
}

// List filters on data_indicacao with the inclusive from/to range.
func (s *DefaultIndicacaoService) List(ctx context.Context, params contract.ListParams) (*contract.ListResponse[*contract.IndicacaoResponse], apierror.ErrorResponse) {
	page, err := s.IndicacaoRepo.List(ctx, listQuery(params, "data_indicacao"))
	if err != nil {
		log.Errorf("failed to list indicacoes: %v", err)
		return nil, apierror.FromStoreError(err)
	}

	resp := &contract.ListResponse[*contract.IndicacaoResponse]{
		OK:     true,
		Data:   make([]*contract.IndicacaoResponse, len(page.Items)),
		Total:  page.Total,
		Cursor: page.NextCursor,
	}
	for i, ind := range page.Items {
		resp.Data[i] = toIndicacaoResponse(ind)
	}
	return resp, nil
}

func (s *DefaultIndicacaoService) Get(ctx context.Context, id string) (*contract.IndicacaoResponse, apierror.ErrorResponse) {
	ind, err := s.IndicacaoRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch indicacao %s: %v", id, err)
		return nil, apierror.FromStoreError(err)
	}

	if ind == nil {
		return nil, apierror.NotFoundError
	}
	return toIndicacaoResponse(ind), nil
}

func (s *DefaultIndicacaoService) Create(ctx context.Context, actor string, req *contract.IndicacaoRequest) (*contract.IDResponse, apierror.ErrorResponse) {
	if apierr := checkRequest(s.Validate, req); apierr != nil {
		return nil, apierr
	}

	if apierr := s.checkIndicador(ctx, req.IndicadorID); apierr != nil {
		return nil, apierr
	}

	ind, err := s.Engine.CreateIndicacao(&entity.Indicacao{
		IndicadorID:       req.IndicadorID,
		DataIndicacao:     req.DataIndicacao,
		NomeIndicado:      req.NomeIndicado,
		TelefoneIndicado:  req.TelefoneIndicado,
		GerouVenda:        req.GerouVenda,
		FaturamentoGerado: req.FaturamentoGerado,
		StatusRecompensa:  entity.RewardStatus(req.StatusRecompensa),
		Observacoes:       req.Observacoes,
	})
	if err != nil {
		return nil, failureOrStoreError("failed to validate indicacao", err)
	}

	total, err := s.IndicacaoRepo.Count(ctx)
	if err != nil {
		log.Errorf("failed to count indicacoes: %v", err)
		return nil, apierror.FromStoreError(err)
	}

	now := timestamp(s.Now)
	ind.ID = ids.Next(ids.PrefixIndicacao, total+1)
	ind.CreatedAt = now
	ind.UpdatedAt = now
	ind.CreatedBy = actor
	ind.UpdatedBy = actor
	ind.Status = entity.StatusActive

	if err := s.IndicacaoRepo.Save(ctx, ind); err != nil {
		log.Errorf("failed to save indicacao: %v", err)
		return nil, apierror.FromStoreError(err)
	}

	_ = s.Audit.Record(ctx, &events.IndicacaoCreated{IndicacaoResponse: toIndicacaoResponse(ind)}, actor)
	return &contract.IDResponse{ID: ind.ID}, nil
}

func (s *DefaultIndicacaoService) Update(ctx context.Context, actor, id string, req *contract.UpdateIndicacaoRequest) (*contract.IDResponse, apierror.ErrorResponse) {
	if apierr := checkRequest(s.Validate, req); apierr != nil {
		return nil, apierr
	}

	current, err := s.IndicacaoRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch indicacao %s: %v", id, err)
		return nil, apierror.FromStoreError(err)
	}

	if current == nil {
		return nil, apierror.NotFoundError
	}

	patch := validation.IndicacaoPatch{
		DataIndicacao:     req.DataIndicacao,
		NomeIndicado:      req.NomeIndicado,
		TelefoneIndicado:  req.TelefoneIndicado,
		GerouVenda:        req.GerouVenda,
		FaturamentoGerado: req.FaturamentoGerado,
		Observacoes:       req.Observacoes,
	}
	if req.StatusRecompensa != nil {
		status := entity.RewardStatus(*req.StatusRecompensa)
		patch.StatusRecompensa = &status
	}

	next, err := s.Engine.UpdateIndicacao(current, patch)
	if err != nil {
		return nil, failureOrStoreError("failed to validate indicacao", err)
	}

	next.UpdatedAt = timestamp(s.Now)
	next.UpdatedBy = actor

	ok, err := s.IndicacaoRepo.Update(ctx, next, current.UpdatedAt)
	if err != nil {
		log.Errorf("failed to update indicacao %s: %v", id, err)
		return nil, apierror.FromStoreError(err)
	}

	if !ok {
		return nil, apierror.NotFoundError
	}

	_ = s.Audit.Record(ctx, &events.IndicacaoUpdated{Patch: req, Result: toIndicacaoResponse(next)}, actor)
	return &contract.IDResponse{ID: id}, nil
}

func (s *DefaultIndicacaoService) Delete(ctx context.Context, actor, id string) (*contract.IDResponse, apierror.ErrorResponse) {
	ok, err := s.IndicacaoRepo.Archive(ctx, id)
	if err != nil {
		log.Errorf("failed to archive indicacao %s: %v", id, err)
		return nil, apierror.FromStoreError(err)
	}

	if !ok {
		return nil, apierror.NotFoundError
	}

	_ = s.Audit.Record(ctx, &events.IndicacaoArchived{IndicacaoID: id}, actor)
	return &contract.IDResponse{ID: id}, nil
}

// checkIndicador requires the referenced referrer to exist and be active.
func (s *DefaultIndicacaoService) checkIndicador(ctx context.Context, id string) apierror.ErrorResponse {
	ind, err := s.IndicadorRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch indicador %s: %v", id, err)
		return apierror.FromStoreError(err)
	}

	if ind == nil || !ind.Active() {
		return apierror.FromFailure(&validation.Failure{
			Kind:   validation.KindInvalid,
			Field:  "indicador_id",
			Reason: "Indicador não encontrado ou arquivado",
		})
	}
	return nil
}

func toIndicacaoResponse(ind *entity.Indicacao) *contract.IndicacaoResponse {
	return &contract.IndicacaoResponse{
		ID:                ind.ID,
		IndicadorID:       ind.IndicadorID,
		DataIndicacao:     ind.DataIndicacao,
		NomeIndicado:      ind.NomeIndicado,
		TelefoneIndicado:  ind.TelefoneIndicado,
		GerouVenda:        ind.GerouVenda,
		FaturamentoGerado: ind.FaturamentoGerado,
		StatusRecompensa:  string(ind.StatusRecompensa),
		Observacoes:       ind.Observacoes,
		CreatedAt:         ind.CreatedAt,
		UpdatedAt:         ind.UpdatedAt,
		CreatedBy:         ind.CreatedBy,
		UpdatedBy:         ind.UpdatedBy,
		Status:            string(ind.Status),
	}
}
