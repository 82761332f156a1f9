// Package pdf implementa los motores de exportación del documento de cotización.
//
// Layout de la página A4 (motor maroto):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón social emisora │ N° documento + fechas        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINATARIO: empresa cliente                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: N° | Servicio | Importe                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA / TOTAL (IVA incluido)              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/quote"
	"github.com/jhoicas/cotizador-api/pkg/money"
)

var _ quote.QuoteExporter = (*MarotoExporter)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const customFontFamily = "quote-utf8"

// ErrUnsupportedText la cotización tiene caracteres que helvetica no puede dibujar
// (hangul, por ejemplo) y no hay PDF_FONT_PATH configurado.
var ErrUnsupportedText = errors.New("pdf: texto no representable sin fuente UTF-8 (configurar PDF_FONT_PATH)")

// labels textos fijos del documento. Con fuente UTF-8 van en coreano; con helvetica en inglés.
type labels struct {
	Title, To, ToSuffix, Issued, ValidUntil, Service, Amount, Subtotal, VAT, Total, Currency string
}

var (
	koreanLabels = labels{
		Title: "과세자료 컨설팅 견적서", To: "수신", ToSuffix: " 귀하", Issued: "작성일: ", ValidUntil: "유효기간: ",
		Service: "서비스", Amount: "금액", Subtotal: "공급가액", VAT: "부가세", Total: "합계 (VAT 포함)", Currency: " 원",
	}
	latinLabels = labels{
		Title: "Tax data consulting quotation", To: "To", ToSuffix: "", Issued: "Issued: ", ValidUntil: "Valid until: ",
		Service: "Service", Amount: "Amount", Subtotal: "Subtotal", VAT: "VAT", Total: "Total (VAT incl.)", Currency: " KRW",
	}
)

// ── Exporter ──────────────────────────────────────────────────────────────────

// MarotoExporter implementa quote.QuoteExporter usando Maroto v2 (sin procesos externos).
type MarotoExporter struct {
	fontPath string
}

// NewMarotoExporter construye el motor. fontPath es un TTF UTF-8 con hangul; sin él se usa
// helvetica con textos fijos en inglés, y una cotización con hangul falla con ErrUnsupportedText.
func NewMarotoExporter(fontPath string) *MarotoExporter {
	return &MarotoExporter{fontPath: fontPath}
}

// Export genera el PDF desde la vista de la cotización y devuelve sus bytes.
func (g *MarotoExporter) Export(ctx context.Context, doc quote.RenderedQuote) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	view := doc.View
	if view == nil {
		return nil, fmt.Errorf("pdf: cotización vacía")
	}

	lb := koreanLabels
	if g.fontPath == "" {
		lb = latinLabels
		if err := checkLatin1(view); err != nil {
			return nil, err
		}
	}

	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithCompression(false).
		WithTitle(lb.Title+" "+view.DocumentNumber, true).
		WithAuthor(view.OrgName, true)

	font := &props.Font{Family: "helvetica", Size: 9}
	if g.fontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(customFontFamily, fontstyle.Normal, g.fontPath).
			AddUTF8Font(customFontFamily, fontstyle.Bold, g.fontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("pdf: cargar fuente %s: %w", g.fontPath, err)
		}
		builder = builder.WithCustomFonts(fonts)
		font = &props.Font{Family: customFontFamily, Size: 9}
	}

	m := maroto.New(builder.WithDefaultFont(font).Build())

	m.AddRows(headerRow(view, lb))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(recipientRow(view, lb))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(lb))
	m.AddRows(tableLineRows(view.Lines, lb)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(view, lb))

	pdfDoc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdfDoc.GetBytes(), nil
}

// checkLatin1 rechaza la vista si algún texto variable no existe en cp1252 (la codificación
// de las fuentes base de gofpdf); de lo contrario saldría como puntos.
func checkLatin1(view *dto.QuoteView) error {
	texts := []string{view.OrgName, view.CompanyName, view.DocumentNumber}
	for _, l := range view.Lines {
		texts = append(texts, l.Name)
	}
	for _, t := range texts {
		for _, r := range t {
			if r == utf8.RuneError {
				return ErrUnsupportedText
			}
			if r < utf8.RuneSelf {
				continue
			}
			if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
				return fmt.Errorf("%w: %q", ErrUnsupportedText, t)
			}
		}
	}
	return nil
}

func amount(n int64, lb labels) string {
	return money.Format(n) + lb.Currency
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y N° documento + fechas (der).
func headerRow(view *dto.QuoteView, lb labels) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(view.OrgName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(lb.Title, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("No. "+view.DocumentNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New(lb.Issued+view.GeneratedAt.Format("2006-01-02"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New(lb.ValidUntil+view.ValidUntil.Format("2006-01-02"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func recipientRow(view *dto.QuoteView, lb labels) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New(lb.To, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(view.CompanyName+lb.ToSuffix, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
	)
}

func tableHeaderRow(lb labels) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("No.", 1, align.Center),
		h(lb.Service, 8, align.Left),
		h(lb.Amount, 3, align.Right),
	)
}

// tableLineRows: una fila por línea de servicio, en el orden del formulario.
func tableLineRows(lines []dto.ServiceLineView, lb labels) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for i, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				strconv.Itoa(i+1),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(8).Add(text.New(
				l.Name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				amount(l.Price, lb),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(view *dto.QuoteView, lb labels) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, a align.Type) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: a,
			Color: colorPrimary, Right: 1, Top: 12,
		})
	}

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label(lb.Subtotal),
			text.New(lb.VAT, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
			grand(lb.Total, align.Right),
		),
		col.New(3).Add(
			value(amount(view.Subtotal, lb), 0),
			value(amount(view.VATAmount, lb), 6),
			grand(amount(view.VATTotal, lb), align.Right),
		),
	)
}
