package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/history"
	"github.com/jhoicas/cotizador-api/internal/application/quote"
	"github.com/jhoicas/cotizador-api/internal/domain/pricing"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/csvstore"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/render"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/storage"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/cotizador-api/internal/interfaces/http"
	"github.com/jhoicas/cotizador-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 10, 19, 10, 30, 0, 0, time.Local)

// stubExporter devuelve un PDF fijo o un error.
type stubExporter struct {
	err   error
	calls int
}

func (s *stubExporter) Export(_ context.Context, doc quote.RenderedQuote) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.4 " + doc.View.DocumentNumber), nil
}

type testEnv struct {
	app      *fiber.App
	exporter *stubExporter
	fs       afero.Fs
	history  *csvstore.HistoryRepo
}

// buildTestApp arma la aplicación completa con historial CSV en un directorio temporal,
// archivo de PDF en memoria y un exportador falso.
func buildTestApp(t *testing.T) *testEnv {
	t.Helper()
	renderer, err := render.New()
	require.NoError(t, err)

	env := &testEnv{
		exporter: &stubExporter{},
		fs:       afero.NewMemMapFs(),
		history:  csvstore.NewHistoryRepository(filepath.Join(t.TempDir(), "history.csv")),
	}

	quoteUC := quote.NewUseCase(
		pricing.NewCalculatorService(pricing.DefaultVATRate),
		renderer,
		env.exporter,
		storage.NewPDFArchive(env.fs, "exports"),
		env.history,
		logger.Nop(),
		quote.Config{DocPrefix: "HYQ", OrgName: "관세법인한영", OrgCode: "HYQ", ValidDays: 30},
	).WithClock(func() time.Time { return fixedNow })

	env.app = fiber.New()
	apphttp.Router(env.app, apphttp.RouterDeps{
		QuoteUC:   quoteUC,
		HistoryUC: history.NewUseCase(env.history, xlsx.NewHistoryExporter()),
		Pages:     renderer,
		Form:      dto.FormPage{OrgName: "관세법인한영", DocPrefix: "HYQ"},
		AppName:   "cotizador-test",
	})
	return env
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func acmeForm() url.Values {
	return url.Values{
		"company":    {"Acme Co"},
		"doc_number": {"001"},
		"totalCost":  {"999"},
		"service":    {"과세자료 분석", "컨설팅"},
		"price":      {"100000", "50000"},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	env := buildTestApp(t)
	resp := get(t, env.app, "/health")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"status":"ok"`)
}

func TestForm_DevuelveHTML(t *testing.T) {
	env := buildTestApp(t)
	resp := get(t, env.app, "/")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, readBody(t, resp), `action="/generate"`)
}

func TestGenerate_VistaPreviaSinEfectos(t *testing.T) {
	env := buildTestApp(t)

	resp := postForm(t, env.app, "/generate", acmeForm())
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "HYQ-26001")
	assert.Contains(t, body, "150,000 원")
	assert.Contains(t, body, "165,000 원", "totalCost del navegador se ignora")

	records, err := env.history.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, env.exporter.calls)
}

func TestGenerate_SinEmpresa400(t *testing.T) {
	env := buildTestApp(t)
	form := acmeForm()
	form.Set("company", "   ")

	resp := postForm(t, env.app, "/generate", form)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDownload_AdjuntoPDFYHistorial(t *testing.T) {
	env := buildTestApp(t)

	resp := postForm(t, env.app, "/download", acmeForm())
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="HYQ_AcmeCo_quote_261019.pdf"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 HYQ-26001", readBody(t, resp))

	archived, err := afero.ReadFile(env.fs, filepath.Join("exports", "HYQ_AcmeCo_quote_261019.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 HYQ-26001", string(archived))

	records, err := env.history.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "HYQ-26001", records[0].DocumentNumber)
	assert.Equal(t, int64(165000), records[0].TotalAmount)
}

func TestDownload_NombreEnHangulUsaFilenameEstrella(t *testing.T) {
	env := buildTestApp(t)
	form := acmeForm()
	form.Set("company", "한영 상사")

	resp := postForm(t, env.app, "/download", form)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cd := resp.Header.Get("Content-Disposition")
	assert.Contains(t, cd, `filename="HYQ_`)
	assert.Contains(t, cd, "filename*=UTF-8''HYQ_"+url.PathEscape("한영상사")+"_quote_261019.pdf")
}

func TestDownload_FalloDeConversion500SinHistorial(t *testing.T) {
	env := buildTestApp(t)
	env.exporter.err = errors.New("wkhtmltopdf: exit status 1")

	resp := postForm(t, env.app, "/download", acmeForm())
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	records, err := env.history.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	entries, _ := afero.ReadDir(env.fs, "exports")
	assert.Empty(t, entries)
}

func TestHistory_PaginaYAviso(t *testing.T) {
	env := buildTestApp(t)
	postForm(t, env.app, "/download", acmeForm())

	resp := get(t, env.app, "/history?filename=HYQ_AcmeCo_quote_261019.pdf")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "HYQ_AcmeCo_quote_261019.pdf")
	assert.Contains(t, body, "165,000")
	assert.Contains(t, body, "Acme Co")
}

func TestHistory_VacioSinArchivo(t *testing.T) {
	env := buildTestApp(t)
	resp := get(t, env.app, "/history")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "저장된 견적 이력이 없습니다.")
}

func TestAPIHistory_JSON(t *testing.T) {
	env := buildTestApp(t)
	postForm(t, env.app, "/download", acmeForm())
	form := acmeForm()
	form.Set("company", "Beta")
	form["price"] = []string{"1000000", "122334"}
	postForm(t, env.app, "/download", form)

	resp := get(t, env.app, "/api/history")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out []dto.HistoryEntryView
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "Acme Co", out[0].CompanyName)
	assert.Equal(t, "1,234,567", out[1].TotalAmount)
	assert.Equal(t, "NOT_ENGAGED", out[1].EngagementStatus)
}

func TestHistoryExportXLSX(t *testing.T) {
	env := buildTestApp(t)
	postForm(t, env.app, "/download", acmeForm())

	resp := get(t, env.app, "/history/export.xlsx")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")

	f, err := excelize.OpenReader(bytes.NewReader([]byte(readBody(t, resp))))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(xlsx.SheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "HYQ-26001", rows[1][0])
}
