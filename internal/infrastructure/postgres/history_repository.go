package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// created_at queda NULL cuando la fecha migrada no se pudo interpretar; el texto
// original va en created_at_raw.
var historySchema = []string{`
CREATE TABLE IF NOT EXISTS quote_history (
	seq               BIGSERIAL PRIMARY KEY,
	document_number   TEXT          NOT NULL,
	created_at        TIMESTAMPTZ,
	created_at_raw    TEXT          NOT NULL DEFAULT '',
	company_name      TEXT          NOT NULL,
	total_amount      NUMERIC(20,0) NOT NULL,
	engagement_status TEXT          NOT NULL DEFAULT 'NOT_ENGAGED'
)`,
	`ALTER TABLE quote_history ADD COLUMN IF NOT EXISTS created_at_raw TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE quote_history ALTER COLUMN created_at DROP NOT NULL`,
}

var historyColumns = []string{"document_number", "created_at", "created_at_raw", "company_name", "total_amount", "engagement_status"}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// HistoryRepo implementación de HistoryRepository (usable con pool o tx).
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// EnsureSchema crea la tabla quote_history si no existe.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range historySchema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("crear quote_history: %w", err)
		}
	}
	return nil
}

// Append inserta un registro. El total se guarda como NUMERIC.
func (r *HistoryRepo) Append(ctx context.Context, record entity.HistoryRecord) error {
	status := record.EngagementStatus
	if status == "" {
		status = entity.EngagementNotEngaged
	}
	var createdAt *time.Time
	if !record.CreatedAt.IsZero() {
		createdAt = &record.CreatedAt
	}
	query, args, err := psql.Insert("quote_history").
		Columns(historyColumns...).
		Values(record.DocumentNumber, createdAt, record.CreatedAtRaw, record.CompanyName,
			decimal.NewFromInt(record.TotalAmount), string(status)).
		ToSql()
	if err != nil {
		return fmt.Errorf("construir insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert quote_history: %w", err)
	}
	return nil
}

// ListAll devuelve todos los registros en orden de inserción.
func (r *HistoryRepo) ListAll(ctx context.Context) ([]entity.HistoryRecord, error) {
	query, args, err := psql.Select(historyColumns...).
		From("quote_history").
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("construir select: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quote_history: %w", err)
	}
	defer rows.Close()

	list := []entity.HistoryRecord{}
	for rows.Next() {
		var (
			rec       entity.HistoryRecord
			createdAt *time.Time
			total     decimal.Decimal
			status    string
		)
		if err := rows.Scan(&rec.DocumentNumber, &createdAt, &rec.CreatedAtRaw, &rec.CompanyName, &total, &status); err != nil {
			return nil, fmt.Errorf("scan quote_history: %w", err)
		}
		if createdAt != nil {
			rec.CreatedAt = createdAt.Local()
		}
		rec.TotalAmount = total.IntPart()
		rec.EngagementStatus = entity.ParseEngagementStatus(status)
		list = append(list, rec)
	}
	return list, rows.Err()
}
