// Package sqlite historial de cotizaciones sobre SQLite embebido (modernc.org/sqlite, sin cgo).
//
// La tabla es de solo anexar: no hay UPDATE ni DELETE desde la aplicación.
// El esquema se crea en Open.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS quote_history (
	seq               INTEGER PRIMARY KEY AUTOINCREMENT,
	document_number   TEXT    NOT NULL,
	created_at        TEXT    NOT NULL,
	company_name      TEXT    NOT NULL,
	total_amount      INTEGER NOT NULL,
	engagement_status TEXT    NOT NULL DEFAULT 'NOT_ENGAGED'
)`

// Open abre (o crea) la base en path, activa WAL y migra el esquema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio sqlite: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// Un solo escritor: serializa los Append del proceso.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrar esquema sqlite: %w", err)
	}
	return db, nil
}

// RunHistory ejecuta fn con un repo atado a una transacción; Commit si fn no falla.
func RunHistory(ctx context.Context, db *sql.DB, fn func(repo *HistoryRepo) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewHistoryRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
