package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"

	"indicacoes/cmd/internal/config"
	"indicacoes/cmd/internal/domain/sheetstore"
	"indicacoes/cmd/internal/domain/sheetstore/repository"
	"indicacoes/cmd/internal/domain/sqlite"
	legacyrepo "indicacoes/cmd/internal/domain/sqlite/repository"
	"indicacoes/cmd/internal/service"
)

func main() {
	dbPath := flag.String("db", "app.db", "path to the legacy sqlite database")
	dryRun := flag.Bool("dry-run", false, "convert and report without writing to the spreadsheet")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadEnv(ctx); err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open legacy database: %v", err)
	}

	backend, err := config.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open spreadsheet: %v", err)
	}
	store := sheetstore.New(backend, repository.Schemas()...)

	migration := service.NewMigrationService(
		legacyrepo.NewLegacyRepository(db),
		store,
		repository.NewIndicadorRepository(store),
		repository.NewIndicacaoRepository(store),
	)

	report, err := migration.Run(ctx, *dryRun)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	for _, ind := range report.Indicadores {
		log.Infof("indicador %s: %s", ind.ID, ind.Nome)
	}
	for _, inc := range report.Indicacoes {
		log.Infof("indicacao %s -> %s: %s", inc.ID, inc.IndicadorID, inc.NomeIndicado)
	}
	if len(report.Warnings) > 0 {
		log.Warnf("%d warnings", len(report.Warnings))
	}
}
