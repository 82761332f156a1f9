// migrate_history copia el historial CSV de cotizaciones al almacén configurado
// (HISTORY_DRIVER=sqlite o postgres) en una sola transacción.
//
// Uso: go run ./cmd/migrate_history [ruta/historial.csv] [utf-8|euc-kr]
// Por defecto lee HISTORY_CSV_PATH en UTF-8. Los CSV guardados desde Excel en Windows
// coreano suelen venir en EUC-KR (CP949).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/csvstore"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/cotizador-api/pkg/config"
	"github.com/jhoicas/cotizador-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Service: cfg.App.Name + "-migrate", Env: cfg.App.Env, Level: cfg.App.LogLevel})

	csvPath := cfg.History.CSVPath
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	encoding := "utf-8"
	if len(os.Args) > 2 {
		encoding = os.Args[2]
	}

	records, err := readCSV(csvPath, encoding)
	if err != nil {
		log.Fatal().Err(err).Str("path", csvPath).Msg("leer historial CSV")
	}

	for _, r := range records {
		if r.CreatedAt.IsZero() {
			log.Warn().
				Str("document_number", r.DocumentNumber).
				Str("created_at", r.CreatedAtRaw).
				Msg("fecha no interpretable: se migra el texto original")
		}
	}

	ctx := context.Background()
	if err := migrate(ctx, cfg, records); err != nil {
		log.Fatal().Err(err).Str("driver", cfg.History.Driver).Msg("migrar historial")
	}
	log.Info().
		Str("path", csvPath).
		Str("driver", cfg.History.Driver).
		Int("records", len(records)).
		Msg("historial migrado")
}

func readCSV(path, encoding string) ([]entity.HistoryRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rd, err := decoderFor(f, encoding)
	if err != nil {
		return nil, err
	}
	return csvstore.Decode(rd)
}

func decoderFor(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "euc-kr", "euckr", "cp949":
		return transform.NewReader(r, korean.EUCKR.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %q", encoding)
	}
}

func migrate(ctx context.Context, cfg *config.Config, records []entity.HistoryRecord) error {
	appendAll := func(repo repository.HistoryRepository) error {
		for _, r := range records {
			if err := repo.Append(ctx, r); err != nil {
				return fmt.Errorf("registro %s: %w", r.DocumentNumber, err)
			}
		}
		return nil
	}

	switch cfg.History.Driver {
	case config.HistoryDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.History.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		return sqlite.RunHistory(ctx, db, func(repo *sqlite.HistoryRepo) error { return appendAll(repo) })
	case config.HistoryDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		return postgres.NewTxRunner(pool).RunHistory(ctx, appendAll)
	default:
		return fmt.Errorf("HISTORY_DRIVER=%s: el destino debe ser sqlite o postgres", cfg.History.Driver)
	}
}
