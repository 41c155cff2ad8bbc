package service

import (
	"context"
	"fmt"
	"github.com/labstack/gommon/log"
	"indicacoes/cmd/internal/domain/entity"
	"indicacoes/cmd/internal/domain/sheetstore"
	"indicacoes/cmd/internal/domain/sheetstore/repository"
	"indicacoes/cmd/internal/utils/ids"
	"indicacoes/cmd/internal/utils/phone"
	"indicacoes/cmd/internal/utils/validators"
	"strings"
	"time"
)

// MigrationActor is written to created_by/updated_by of migrated referrals.
const MigrationActor = "migracao"

var legacyTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	validators.DateLayout,
}

type LegacyRepository interface {
	FindIndicadores() ([]*entity.LegacyIndicador, error)
	FindIndicacoes() ([]*entity.LegacyIndicacao, error)
}

type SchemaChecker interface {
	CheckSchema(ctx context.Context, table string, expected []string) error
}

type MigrationReport struct {
	DryRun      bool
	Indicadores []*entity.Indicador
	Indicacoes  []*entity.Indicacao
	Warnings    []string
}

func (r *MigrationReport) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Warn(msg)
	r.Warnings = append(r.Warnings, msg)
}

// MigrationService copies the legacy relational database into the
// spreadsheet. New ids continue after the rows already present.
type MigrationService struct {
	Legacy        LegacyRepository
	Schema        SchemaChecker
	IndicadorRepo IndicadorRepository
	IndicacaoRepo IndicacaoRepository
	Now           func() time.Time
}

func NewMigrationService(
	legacy LegacyRepository,
	schema SchemaChecker,
	indicadorRepo IndicadorRepository,
	indicacaoRepo IndicacaoRepository,
) *MigrationService {
	return &MigrationService{
		Legacy:        legacy,
		Schema:        schema,
		IndicadorRepo: indicadorRepo,
		IndicacaoRepo: indicacaoRepo,
		Now:           time.Now,
	}
}

func (m *MigrationService) Run(ctx context.Context, dryRun bool) (*MigrationReport, error) {
	for _, table := range []string{repository.TableIndicadores, repository.TableIndicacoes} {
		if err := m.Schema.CheckSchema(ctx, table, repository.Columns(table)); err != nil {
			return nil, err
		}
	}

	legacyInds, err := m.Legacy.FindIndicadores()
	if err != nil {
		return nil, fmt.Errorf("read legacy indicadores: %w", err)
	}

	legacyIncs, err := m.Legacy.FindIndicacoes()
	if err != nil {
		return nil, fmt.Errorf("read legacy indicacoes: %w", err)
	}

	baseInd, err := m.IndicadorRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	baseInc, err := m.IndicacaoRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	report := &MigrationReport{DryRun: dryRun}
	now := timestamp(m.Now)

	idMap := make(map[string]string, len(legacyInds))
	for i, l := range legacyInds {
		ind := &entity.Indicador{
			ID:        ids.Next(ids.PrefixIndicador, baseInd+i+1),
			Nome:      strings.TrimSpace(l.Nome),
			Telefone:  m.normalizePhone(report, l.ID, l.Telefone),
			Email:     deref(l.Email),
			Empresa:   deref(l.Empresa),
			CreatedAt: legacyTimestamp(l.CreatedAt, now),
			UpdatedAt: legacyTimestamp(l.UpdatedAt, now),
			Status:    entity.StatusActive,
		}
		idMap[l.ID] = ind.ID
		report.Indicadores = append(report.Indicadores, ind)
	}

	for _, l := range legacyIncs {
		indicadorID, ok := idMap[l.IndicadorID]
		if !ok {
			report.warn("indicacao %s skipped: unknown indicador %s", l.ID, l.IndicadorID)
			continue
		}

		data, ok := legacyDate(l.DataIndicacao)
		if !ok {
			report.warn("indicacao %s skipped: unreadable data_indicacao %q", l.ID, l.DataIndicacao)
			continue
		}

		inc := &entity.Indicacao{
			ID:                ids.Next(ids.PrefixIndicacao, baseInc+len(report.Indicacoes)+1),
			IndicadorID:       indicadorID,
			DataIndicacao:     data,
			NomeIndicado:      strings.TrimSpace(l.NomeIndicado),
			TelefoneIndicado:  m.normalizePhone(report, l.ID, l.TelefoneIndicado),
			GerouVenda:        l.GerouVenda,
			FaturamentoGerado: float64(l.FaturamentoGerado) / 100,
			StatusRecompensa:  legacyRewardStatus(l.StatusRecompensa),
			Observacoes:       deref(l.Observacoes),
			CreatedAt:         legacyTimestamp(l.CreatedAt, now),
			UpdatedAt:         legacyTimestamp(l.UpdatedAt, now),
			CreatedBy:         MigrationActor,
			UpdatedBy:         MigrationActor,
			Status:            entity.StatusActive,
		}
		report.Indicacoes = append(report.Indicacoes, inc)
	}

	if dryRun {
		log.Infof("dry run: %d indicadores and %d indicacoes would be migrated", len(report.Indicadores), len(report.Indicacoes))
		return report, nil
	}

	if len(report.Indicadores) > 0 {
		if err := m.IndicadorRepo.Save(ctx, report.Indicadores...); err != nil {
			return nil, fmt.Errorf("write indicadores: %w", err)
		}
	}

	if len(report.Indicacoes) > 0 {
		if err := m.IndicacaoRepo.Save(ctx, report.Indicacoes...); err != nil {
			return nil, fmt.Errorf("write indicacoes: %w", err)
		}
	}

	log.Infof("migrated %d indicadores and %d indicacoes", len(report.Indicadores), len(report.Indicacoes))
	return report, nil
}

// normalizePhone keeps the raw value when it cannot be parsed.
func (m *MigrationService) normalizePhone(report *MigrationReport, legacyID, raw string) string {
	tel, err := phone.Normalize(raw)
	if err != nil {
		report.warn("%s: telefone %q kept as is", legacyID, raw)
		return strings.TrimSpace(raw)
	}
	return tel
}

func legacyRewardStatus(name *string) entity.RewardStatus {
	if name == nil {
		return entity.RewardNao
	}

	switch strings.ToUpper(strings.TrimSpace(*name)) {
	case "SIM":
		return entity.RewardSim
	case "EM_PROCESSAMENTO", "EMPROCESSAMENTO":
		return entity.RewardEmProcessamento
	}
	return entity.RewardNao
}

func parseLegacyTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range legacyTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func legacyDate(raw string) (string, bool) {
	t, ok := parseLegacyTime(raw)
	if !ok {
		return "", false
	}
	return t.Format(validators.DateLayout), true
}

func legacyTimestamp(raw *string, fallback string) string {
	if raw == nil {
		return fallback
	}

	t, ok := parseLegacyTime(*raw)
	if !ok {
		return fallback
	}
	return t.UTC().Format(sheetstore.TimeLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
