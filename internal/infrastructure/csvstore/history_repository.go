// Package csvstore implementa el historial de cotizaciones sobre un archivo CSV legible
// por personas (se puede abrir en Excel y editar a mano la columna de estado).
//
// Cada Append escribe un único registro con O_APPEND bajo un mutex del proceso y un
// bloqueo consultivo de archivo (<ruta>.lock), de modo que ni goroutines ni procesos
// concurrentes pierden registros.
package csvstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// Header columnas del archivo.
var Header = []string{"document_number", "created_at", "company_name", "total_amount", "engagement_status"}

const utf8BOM = "\ufeff"

// HistoryRepo historial en CSV.
type HistoryRepo struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewHistoryRepository construye el adaptador. El archivo se crea en el primer Append.
func NewHistoryRepository(path string) *HistoryRepo {
	return &HistoryRepo{path: path, lock: flock.New(path + ".lock")}
}

// Append agrega un registro al final del archivo (y la cabecera si el archivo es nuevo).
func (r *HistoryRepo) Append(ctx context.Context, record entity.HistoryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("crear directorio del historial: %w", err)
	}
	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("bloquear historial: %w", err)
	}
	defer func() { _ = r.lock.Unlock() }()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("abrir historial: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	needsNewline, isEmpty, err := inspectTail(f)
	if err != nil {
		return fmt.Errorf("leer historial: %w", err)
	}
	if needsNewline {
		buf.WriteByte('\n')
	}
	w := csv.NewWriter(&buf)
	if isEmpty {
		_ = w.Write(Header)
	}
	_ = w.Write(toRow(record))
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("codificar registro: %w", err)
	}

	// Una sola escritura por registro.
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("escribir historial: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sincronizar historial: %w", err)
	}
	return nil
}

// ListAll lee todos los registros en orden de archivo. Archivo inexistente = lista vacía.
func (r *HistoryRepo) ListAll(ctx context.Context) ([]entity.HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []entity.HistoryRecord{}, nil
		}
		return nil, fmt.Errorf("abrir historial: %w", err)
	}
	defer f.Close()

	if err := r.lock.RLock(); err != nil {
		return nil, fmt.Errorf("bloquear historial: %w", err)
	}
	defer func() { _ = r.lock.Unlock() }()

	return Decode(f)
}

// Decode lee un historial en CSV desde rd (la primera fila es la cabecera y se descarta).
// Acepta el formato de la herramienta anterior: cabecera en coreano, BOM, totales "165000.0".
func Decode(rd io.Reader) ([]entity.HistoryRecord, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	out := []entity.HistoryRecord{}
	first := true
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer historial: %w", err)
		}
		if first {
			// cabecera (en inglés o la de la herramienta anterior en coreano)
			first = false
			continue
		}
		if isBlank(row) {
			continue
		}
		out = append(out, fromRow(row))
	}
	return out, nil
}

func toRow(r entity.HistoryRecord) []string {
	status := r.EngagementStatus
	if status == "" {
		status = entity.EngagementNotEngaged
	}
	return []string{
		r.DocumentNumber,
		r.CreatedAtText(),
		r.CompanyName,
		decimal.NewFromInt(r.TotalAmount).String(),
		string(status),
	}
}

func fromRow(row []string) entity.HistoryRecord {
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimPrefix(row[i], utf8BOM)
		}
		return ""
	}
	rec := entity.HistoryRecord{
		DocumentNumber:   field(0),
		CompanyName:      field(2),
		TotalAmount:      parseTotal(field(3)),
		EngagementStatus: entity.ParseEngagementStatus(field(4)),
	}
	if t, ok := entity.ParseHistoryTime(field(1)); ok {
		rec.CreatedAt = t
	} else {
		rec.CreatedAtRaw = strings.TrimSpace(field(1))
	}
	return rec
}

// parseTotal acepta "165000", "165000.0" (pandas) y "165,000" (edición manual). Inválido = 0.
func parseTotal(s string) int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.IntPart()
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// inspectTail indica si el archivo está vacío y si le falta el salto de línea final
// (archivos editados a mano suelen no tenerlo).
func inspectTail(f *os.File) (needsNewline, isEmpty bool, err error) {
	info, err := f.Stat()
	if err != nil {
		return false, false, err
	}
	if info.Size() == 0 {
		return false, true, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, false, err
	}
	return last[0] != '\n', false, nil
}
