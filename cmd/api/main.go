package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/afero"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/history"
	"github.com/jhoicas/cotizador-api/internal/application/quote"
	"github.com/jhoicas/cotizador-api/internal/domain/pricing"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/csvstore"
	infrapdf "github.com/jhoicas/cotizador-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/render"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/storage"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/cotizador-api/internal/interfaces/http"
	"github.com/jhoicas/cotizador-api/pkg/config"
	"github.com/jhoicas/cotizador-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("history_driver", cfg.History.Driver).
		Str("pdf_engine", cfg.PDF.Engine).
		Msg("iniciando aplicación")
	if !cfg.PDF.HangulCapable() {
		log.Warn().
			Str("pdf_engine", cfg.PDF.Engine).
			Msg("PDF_FONT_PATH vacío: maroto usa helvetica, textos fijos en inglés y rechaza cotizaciones con hangul")
	}

	ctx := context.Background()
	historyRepo, closeHistory, err := openHistory(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir historial de cotizaciones")
	}
	defer closeHistory()

	renderer, err := render.New()
	if err != nil {
		log.Fatal().Err(err).Msg("cargar plantillas")
	}

	var exporter quote.QuoteExporter
	switch cfg.PDF.Engine {
	case config.PDFEngineWkhtmltopdf:
		exporter = infrapdf.NewWkhtmltopdfExporter(cfg.PDF.WkhtmltopdfPath, "")
	default:
		exporter = infrapdf.NewMarotoExporter(cfg.PDF.FontPath)
	}

	quoteUC := quote.NewUseCase(
		pricing.NewCalculatorService(cfg.Quote.VATRate),
		renderer,
		exporter,
		storage.NewPDFArchive(afero.NewOsFs(), cfg.Quote.ExportDir),
		historyRepo,
		log,
		quote.Config{
			DocPrefix: cfg.Quote.DocPrefix,
			OrgName:   cfg.Quote.OrgName,
			OrgCode:   cfg.Quote.OrgCode,
			ValidDays: cfg.Quote.ValidDays,
		},
	)
	historyUC := history.NewUseCase(historyRepo, xlsx.NewHistoryExporter())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60, // wkhtmltopdf puede tardar
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si existe el archivo)
	if _, err := os.Stat(cfg.App.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.DocsPath,
			Path:     "docs",
			Title:    "Cotizador API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		QuoteUC:   quoteUC,
		HistoryUC: historyUC,
		Pages:     renderer,
		Form:      dto.FormPage{OrgName: cfg.Quote.OrgName, DocPrefix: cfg.Quote.DocPrefix},
		Log:       log,
		AppName:   cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openHistory abre el almacén del historial según HISTORY_DRIVER. La función devuelta libera conexiones.
func openHistory(ctx context.Context, cfg *config.Config) (repository.HistoryRepository, func(), error) {
	switch cfg.History.Driver {
	case config.HistoryDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.History.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewHistoryRepository(db), func() { _ = db.Close() }, nil
	case config.HistoryDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewHistoryRepository(pool), pool.Close, nil
	default:
		return csvstore.NewHistoryRepository(cfg.History.CSVPath), func() {}, nil
	}
}
