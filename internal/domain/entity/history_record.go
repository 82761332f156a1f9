package entity

import (
	"strings"
	"time"
)

// EngagementStatus indica si la cotización terminó convirtiéndose en un encargo.
type EngagementStatus string

// Estados de encargo. Este sistema solo crea registros NOT_ENGAGED; el cambio
// a ENGAGED se hace editando el almacén fuera de la aplicación.
const (
	EngagementNotEngaged EngagementStatus = "NOT_ENGAGED"
	EngagementEngaged    EngagementStatus = "ENGAGED"
)

// HistoryTimeLayout formato de CreatedAt en el almacén plano.
const HistoryTimeLayout = "2006-01-02 15:04:05"

// historyTimeLayouts formatos aceptados al leer: el propio y los que deja Excel al
// guardar el CSV editado a mano (segundos omitidos, barras como separador).
var historyTimeLayouts = []string{
	HistoryTimeLayout,
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
}

// ParseHistoryTime interpreta un created_at almacenado como hora local. ok=false si
// ningún formato encaja.
func ParseHistoryTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range historyTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// HistoryRecord una entrada del historial de cotizaciones (solo anexar).
type HistoryRecord struct {
	DocumentNumber string
	CreatedAt      time.Time
	// CreatedAtRaw texto original cuando CreatedAt no se pudo interpretar; se conserva
	// tal cual al mostrar, exportar y migrar.
	CreatedAtRaw     string
	CompanyName      string
	TotalAmount      int64
	EngagementStatus EngagementStatus
}

// NewHistoryRecord crea el registro con el estado por defecto.
func NewHistoryRecord(documentNumber, companyName string, totalAmount int64, createdAt time.Time) HistoryRecord {
	return HistoryRecord{
		DocumentNumber:   documentNumber,
		CreatedAt:        createdAt,
		CompanyName:      companyName,
		TotalAmount:      totalAmount,
		EngagementStatus: EngagementNotEngaged,
	}
}

// CreatedAtText fecha para mostrar y almacenar: CreatedAt formateada, o el texto
// original si no se pudo interpretar.
func (r HistoryRecord) CreatedAtText() string {
	if r.CreatedAt.IsZero() {
		return r.CreatedAtRaw
	}
	return r.CreatedAt.Format(HistoryTimeLayout)
}

// ParseEngagementStatus acepta los valores actuales y las etiquetas en coreano
// que escribía la herramienta anterior ("미수임" / "수임"). Vacío o desconocido = NOT_ENGAGED.
func ParseEngagementStatus(s string) EngagementStatus {
	switch strings.TrimSpace(s) {
	case string(EngagementEngaged), "수임":
		return EngagementEngaged
	default:
		return EngagementNotEngaged
	}
}

// Label etiqueta legible para pantallas y exportaciones.
func (s EngagementStatus) Label() string {
	if s == EngagementEngaged {
		return "수임"
	}
	return "미수임"
}
