package history

import (
	"context"
	"fmt"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
	"github.com/jhoicas/cotizador-api/pkg/money"
)

// SpreadsheetBuilder genera una hoja de cálculo con los registros del historial.
type SpreadsheetBuilder interface {
	BuildHistoryXLSX(records []entity.HistoryRecord) ([]byte, error)
}

// UseCase consulta y exporta el historial de cotizaciones.
type UseCase struct {
	repo  repository.HistoryRepository
	sheet SpreadsheetBuilder
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.HistoryRepository, sheet SpreadsheetBuilder) *UseCase {
	return &UseCase{repo: repo, sheet: sheet}
}

// ListAll devuelve todo el historial en orden de inserción con el total formateado ("1,234,567").
// Si el almacén aún no existe devuelve una lista vacía.
func (uc *UseCase) ListAll(ctx context.Context) ([]dto.HistoryEntryView, error) {
	records, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("history: listar: %w", err)
	}
	out := make([]dto.HistoryEntryView, 0, len(records))
	for _, r := range records {
		out = append(out, toEntryView(r))
	}
	return out, nil
}

// ExportXLSX devuelve el historial completo como libro XLSX.
func (uc *UseCase) ExportXLSX(ctx context.Context) ([]byte, error) {
	records, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("history: listar: %w", err)
	}
	return uc.sheet.BuildHistoryXLSX(records)
}

func toEntryView(r entity.HistoryRecord) dto.HistoryEntryView {
	return dto.HistoryEntryView{
		DocumentNumber:   r.DocumentNumber,
		CreatedAt:        r.CreatedAtText(),
		CompanyName:      r.CompanyName,
		TotalAmount:      money.Format(r.TotalAmount),
		EngagementStatus: string(r.EngagementStatus),
		EngagementLabel:  r.EngagementStatus.Label(),
	}
}
