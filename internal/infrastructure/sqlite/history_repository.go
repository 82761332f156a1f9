package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

var historyColumns = []string{"document_number", "created_at", "company_name", "total_amount", "engagement_status"}

// Querier es lo común entre *sql.DB y *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// HistoryRepo implementación de HistoryRepository sobre SQLite (usable con db o tx).
type HistoryRepo struct {
	db Querier
}

// NewHistoryRepository construye el adaptador. La base debe venir de Open (esquema migrado).
func NewHistoryRepository(db Querier) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Append inserta un registro.
func (r *HistoryRepo) Append(ctx context.Context, record entity.HistoryRecord) error {
	status := record.EngagementStatus
	if status == "" {
		status = entity.EngagementNotEngaged
	}
	query, args, err := sq.Insert("quote_history").
		Columns(historyColumns...).
		Values(
			record.DocumentNumber,
			record.CreatedAtText(),
			record.CompanyName,
			record.TotalAmount,
			string(status),
		).ToSql()
	if err != nil {
		return fmt.Errorf("construir insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert quote_history: %w", err)
	}
	return nil
}

// ListAll devuelve todos los registros en orden de inserción.
func (r *HistoryRepo) ListAll(ctx context.Context) ([]entity.HistoryRecord, error) {
	query, args, err := sq.Select(historyColumns...).From("quote_history").OrderBy("seq").ToSql()
	if err != nil {
		return nil, fmt.Errorf("construir select: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quote_history: %w", err)
	}
	defer rows.Close()

	list := []entity.HistoryRecord{}
	for rows.Next() {
		var (
			rec       entity.HistoryRecord
			createdAt string
			status    string
		)
		if err := rows.Scan(&rec.DocumentNumber, &createdAt, &rec.CompanyName, &rec.TotalAmount, &status); err != nil {
			return nil, fmt.Errorf("scan quote_history: %w", err)
		}
		if t, ok := entity.ParseHistoryTime(createdAt); ok {
			rec.CreatedAt = t
		} else {
			rec.CreatedAtRaw = createdAt
		}
		rec.EngagementStatus = entity.ParseEngagementStatus(status)
		list = append(list, rec)
	}
	return list, rows.Err()
}
