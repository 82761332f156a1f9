// Package render produce las páginas HTML y el documento final de la cotización
// con html/template. Las plantillas van embebidas en el binario.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/quote"
	"github.com/jhoicas/cotizador-api/pkg/money"
)

//go:embed templates/*.html
var templateFS embed.FS

var _ quote.DocumentRenderer = (*Renderer)(nil)

// Renderer renderiza las plantillas embebidas. Es seguro para uso concurrente.
type Renderer struct {
	tpl *template.Template
}

// New parsea todas las plantillas; un error aquí es un error de programación.
func New() (*Renderer, error) {
	tpl, err := template.New("").Funcs(template.FuncMap{
		"money": money.Format,
		"won":   money.FormatWon,
		"date":  func(t time.Time) string { return t.Format("2006-01-02") },
		"inc":   func(i int) int { return i + 1 },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("render: parsear plantillas: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// RenderForm página de entrada (GET /).
func (r *Renderer) RenderForm(page dto.FormPage) (string, error) {
	if page.Rows <= 0 {
		page.Rows = 3
	}
	return r.execute("form.html", page)
}

// RenderPreview vista previa con el formulario oculto que reenvía los datos a /download.
func (r *Renderer) RenderPreview(view *dto.QuoteView) (string, error) {
	return r.execute("preview.html", view)
}

// RenderQuote documento final autocontenido (entrada del motor de PDF).
func (r *Renderer) RenderQuote(view *dto.QuoteView) (string, error) {
	return r.execute("quote.html", view)
}

// RenderHistory página del historial (GET /history).
func (r *Renderer) RenderHistory(page *dto.HistoryPage) (string, error) {
	return r.execute("history.html", page)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
