package repository

import (
	"context"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

// HistoryRepository puerto del historial de cotizaciones (registro de solo anexar).
// Append debe ser atómico por registro: dos llamadas concurrentes nunca se pisan.
// ListAll devuelve los registros en orden de inserción; si el almacén aún no
// existe devuelve una lista vacía sin error.
type HistoryRepository interface {
	Append(ctx context.Context, record entity.HistoryRecord) error
	ListAll(ctx context.Context) ([]entity.HistoryRecord, error)
}
