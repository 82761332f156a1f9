package pdf_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/quote"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/pdf"
)

func sampleQuote() quote.RenderedQuote {
	at := time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)
	return quote.RenderedQuote{
		View: &dto.QuoteView{
			OrgName:        "Hanyoung Customs",
			CompanyName:    "Acme Co",
			DocumentNumber: "HYQ-26001",
			Lines: []dto.ServiceLineView{
				{Name: "Tax data review", Price: 100000},
				{Name: "Consulting", Price: 50000},
			},
			Subtotal:    150000,
			VATAmount:   15000,
			VATTotal:    165000,
			GeneratedAt: at,
			ValidUntil:  at.AddDate(0, 0, 30),
		},
		HTML: "<html><body><h1>HYQ-26001</h1></body></html>",
	}
}

func TestMarotoExporter_GeneraPDF(t *testing.T) {
	data, err := pdf.NewMarotoExporter("").Export(context.Background(), sampleQuote())
	require.NoError(t, err)
	assert.True(t, len(data) > 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestMarotoExporter_TextoDeLaCotizacionEnElPDF(t *testing.T) {
	data, err := pdf.NewMarotoExporter("").Export(context.Background(), sampleQuote())
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, "Acme Co")
	assert.Contains(t, body, "Hanyoung Customs")
	assert.Contains(t, body, "HYQ-26001")
	assert.Contains(t, body, "165,000 KRW")
}

func TestMarotoExporter_HangulSinFuenteFalla(t *testing.T) {
	doc := sampleQuote()
	doc.View.OrgName = "한영관세"
	doc.View.CompanyName = "주식회사 에이씨엠이"

	_, err := pdf.NewMarotoExporter("").Export(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pdf.ErrUnsupportedText))
	assert.Contains(t, err.Error(), "한영관세")
}

func TestMarotoExporter_LineaConHangulSinFuenteFalla(t *testing.T) {
	doc := sampleQuote()
	doc.View.Lines[1].Name = "수출입 컨설팅"

	_, err := pdf.NewMarotoExporter("").Export(context.Background(), doc)
	assert.ErrorIs(t, err, pdf.ErrUnsupportedText)
}

func TestMarotoExporter_LatinoExtendidoSinFuente(t *testing.T) {
	doc := sampleQuote()
	doc.View.CompanyName = "Café Müller"

	data, err := pdf.NewMarotoExporter("").Export(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

// TEST_HANGUL_FONT apunta a un TTF con hangul (p. ej. NanumGothic.ttf).
func TestMarotoExporter_HangulConFuente(t *testing.T) {
	font := os.Getenv("TEST_HANGUL_FONT")
	if font == "" {
		t.Skip("TEST_HANGUL_FONT no definido")
	}
	doc := sampleQuote()
	doc.View.OrgName = "한영관세"
	doc.View.CompanyName = "주식회사 에이씨엠이"

	data, err := pdf.NewMarotoExporter(font).Export(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestMarotoExporter_SinLineas(t *testing.T) {
	doc := sampleQuote()
	doc.View.Lines = nil
	doc.View.Subtotal, doc.View.VATAmount, doc.View.VATTotal = 0, 0, 0

	data, err := pdf.NewMarotoExporter("").Export(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestMarotoExporter_FuenteInexistenteFalla(t *testing.T) {
	_, err := pdf.NewMarotoExporter(filepath.Join(t.TempDir(), "no-existe.ttf")).
		Export(context.Background(), sampleQuote())
	assert.Error(t, err)
}

func TestMarotoExporter_VistaNilFalla(t *testing.T) {
	_, err := pdf.NewMarotoExporter("").Export(context.Background(), quote.RenderedQuote{})
	assert.Error(t, err)
}

// fakeConverter escribe un script que imita a wkhtmltopdf: lee stdin y lo copia
// al último argumento (la ruta de salida) con cabecera %PDF.
func fakeConverter(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requiere /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "fake-wkhtmltopdf")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestWkhtmltopdfExporter_PasaHTMLPorStdin(t *testing.T) {
	bin := fakeConverter(t, `for last; do :; done
{ printf '%%PDF-1.4\n'; cat; } > "$last"
`)
	tmp := t.TempDir()

	data, err := pdf.NewWkhtmltopdfExporter(bin, tmp).Export(context.Background(), sampleQuote())
	require.NoError(t, err)
	assert.Contains(t, string(data), "%PDF-1.4")
	assert.Contains(t, string(data), "<h1>HYQ-26001</h1>")

	left, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, left, "el temporal se elimina")
}

func TestWkhtmltopdfExporter_SalidaNoCeroFalla(t *testing.T) {
	bin := fakeConverter(t, "echo 'boom' >&2\nexit 1\n")

	_, err := pdf.NewWkhtmltopdfExporter(bin, t.TempDir()).Export(context.Background(), sampleQuote())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestWkhtmltopdfExporter_BinarioInexistente(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "no-existe")
	_, err := pdf.NewWkhtmltopdfExporter(bin, t.TempDir()).Export(context.Background(), sampleQuote())
	assert.Error(t, err)
}

func TestWkhtmltopdfExporter_SinRutaFalla(t *testing.T) {
	_, err := pdf.NewWkhtmltopdfExporter("", "").Export(context.Background(), sampleQuote())
	assert.Error(t, err)
}
