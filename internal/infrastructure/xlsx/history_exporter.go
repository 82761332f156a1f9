// Package xlsx exporta el historial de cotizaciones como libro de Excel.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/cotizador-api/internal/application/history"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

// SheetName hoja única del libro exportado.
const SheetName = "견적이력"

var _ history.SpreadsheetBuilder = (*HistoryExporter)(nil)

var headers = []string{"문서번호", "생성일시", "회사명", "견적합계", "수임여부"}

// HistoryExporter construye el XLSX del historial con excelize.
type HistoryExporter struct{}

// NewHistoryExporter construye el exportador.
func NewHistoryExporter() *HistoryExporter { return &HistoryExporter{} }

// BuildHistoryXLSX una fila por registro, en el orden recibido. El total va como número
// con formato de miles para que la hoja pueda sumarlo.
func (e *HistoryExporter) BuildHistoryXLSX(records []entity.HistoryRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	// 3 = "#,##0"
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	_ = f.SetCellStyle(SheetName, "A1", "E1", headerStyle)

	for i, r := range records {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		write(1, r.DocumentNumber)
		write(2, r.CreatedAtText())
		write(3, r.CompanyName)
		write(4, r.TotalAmount)
		write(5, r.EngagementStatus.Label())
	}
	if len(records) > 0 {
		last := fmt.Sprintf("D%d", len(records)+1)
		_ = f.SetCellStyle(SheetName, "D2", last, amountStyle)
	}

	_ = f.SetColWidth(SheetName, "A", "A", 14)
	_ = f.SetColWidth(SheetName, "B", "B", 20)
	_ = f.SetColWidth(SheetName, "C", "C", 30)
	_ = f.SetColWidth(SheetName, "D", "D", 14)
	_ = f.SetColWidth(SheetName, "E", "E", 10)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
