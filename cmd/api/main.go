package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"indicacoes/cmd/internal/config"
	"indicacoes/cmd/internal/domain/policy"
	"indicacoes/cmd/internal/domain/sheetstore"
	"indicacoes/cmd/internal/domain/sheetstore/repository"
	"indicacoes/cmd/internal/domain/validation"
	"indicacoes/cmd/internal/http/handler"
	appmiddleware "indicacoes/cmd/internal/http/middleware"
	"indicacoes/cmd/internal/infrastructure/aws/storage"
	"indicacoes/cmd/internal/routes"
	"indicacoes/cmd/internal/service"
	"indicacoes/cmd/internal/service/jobs"
	"indicacoes/cmd/internal/utils/uid"
	"indicacoes/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	validators.Register(validate)

	// Loads env vars depending on environment
	if err := config.LoadEnv(ctx); err != nil {
		log.Fatalf("unable to load environment, %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	uid.Init(cfg.NodeID)

	// Spreadsheet backend + record store
	backend, err := config.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("unable to open spreadsheet: %v", err)
	}
	store := sheetstore.New(backend, repository.Schemas()...)

	// Getting repos
	indicadorRepo := repository.NewIndicadorRepository(store)
	indicacaoRepo := repository.NewIndicacaoRepository(store)
	logRepo := repository.NewLogRepository(store)
	permissaoRepo := repository.NewPermissaoRepository(store)

	// Getting services
	engine := validation.New(indicadorRepo)
	audit := service.NewAuditLogger(logRepo)
	exportService := service.NewExportService(backend)

	indicadorService := service.NewIndicadorService(indicadorRepo, indicacaoRepo, engine, audit, validate)
	indicacaoService := service.NewIndicacaoService(indicacaoRepo, indicadorRepo, engine, audit, validate)
	dashboardService := service.NewDashboardService(indicacaoRepo, indicadorRepo)
	utilService := service.NewUtilService(backend, logRepo)

	// Getting handler
	handlers := &routes.Handlers{
		Indicadores: handler.NewIndicadorRoute(indicadorService),
		Indicacoes:  handler.NewIndicacaoRoute(indicacaoService),
		Util:        handler.NewUtilRoute(dashboardService, utilService, exportService),
	}

	startSnapshots(ctx, cfg, exportService)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))

	actor := appmiddleware.NewActorMiddleware(&appmiddleware.ActorMiddlewareConfig{Secret: []byte(cfg.JWTSecret)})
	perms := appmiddleware.NewPermissionMiddleware(permissaoRepo, policy.NewPermissaoPolicy())
	routes.Register(e, handlers, actor, perms)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	go func() {
		if err := e.Start(":" + strconv.Itoa(cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shut down cleanly: %v", err)
	}
}

func startSnapshots(ctx context.Context, cfg *config.Config, encoder jobs.TableEncoder) {
	if cfg.S3Bucket == "" {
		log.Info("S3_BUCKET_NAME not set, snapshots disabled")
		return
	}

	s3Client, err := storage.NewStorageClient(ctx, cfg.S3Region, cfg.S3Bucket)
	if err != nil {
		log.Errorf("unable to create S3 client, snapshots disabled: %v", err)
		return
	}

	exporter := jobs.NewSnapshotExporter(encoder, s3Client, repository.Tables, cfg.SnapshotInterval)
	go exporter.Start(ctx)
}
