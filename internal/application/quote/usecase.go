package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/internal/domain/document"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/pricing"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
	"github.com/jhoicas/cotizador-api/pkg/logger"
)

// Config parámetros de negocio del caso de uso.
type Config struct {
	DocPrefix string
	OrgName   string
	OrgCode   string
	ValidDays int
}

// PreviewResult vista previa renderizada (sin efectos secundarios).
type PreviewResult struct {
	View *dto.QuoteView
	HTML string
}

// DownloadResult PDF listo para enviar como adjunto.
type DownloadResult struct {
	View     *dto.QuoteView
	PDF      []byte
	Filename string
	Path     string // ruta del PDF archivado
}

// UseCase genera cotizaciones: vista previa y descarga en PDF con registro en el historial.
type UseCase struct {
	calc     *pricing.CalculatorService
	renderer DocumentRenderer
	exporter QuoteExporter
	archive  DocumentArchive
	history  repository.HistoryRepository
	log      *logger.Logger
	cfg      Config
	now      func() time.Time
}

// NewUseCase construye el caso de uso inyectando todas sus dependencias.
func NewUseCase(
	calc *pricing.CalculatorService,
	renderer DocumentRenderer,
	exporter QuoteExporter,
	archive DocumentArchive,
	history repository.HistoryRepository,
	log *logger.Logger,
	cfg Config,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		calc:     calc,
		renderer: renderer,
		exporter: exporter,
		archive:  archive,
		history:  history,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Preview calcula la cotización y renderiza la vista previa. No persiste nada.
//
// Retorna domain.ErrInvalidInput si el formulario no tiene empresa.
func (uc *UseCase) Preview(_ context.Context, form dto.QuoteForm) (*PreviewResult, error) {
	view, err := uc.build(form)
	if err != nil {
		return nil, err
	}
	html, err := uc.renderer.RenderPreview(view)
	if err != nil {
		return nil, fmt.Errorf("quote: renderizar vista previa: %w", err)
	}
	return &PreviewResult{View: view, HTML: html}, nil
}

// Download calcula la cotización, renderiza el documento final, lo convierte a PDF,
// lo archiva y registra la cotización en el historial.
//
// Orden de efectos: el historial se escribe solo después de que el PDF existe,
// así una conversión fallida no deja registros huérfanos. Un fallo al escribir el
// historial se registra en el log y no impide la descarga.
//
// Retorna:
//   - domain.ErrInvalidInput  si el formulario no tiene empresa.
//   - domain.ErrExport        (envuelto) si el motor de PDF falla.
func (uc *UseCase) Download(ctx context.Context, form dto.QuoteForm) (*DownloadResult, error) {
	view, err := uc.build(form)
	if err != nil {
		return nil, err
	}

	html, err := uc.renderer.RenderQuote(view)
	if err != nil {
		return nil, fmt.Errorf("quote: renderizar documento: %w", err)
	}

	pdfBytes, err := uc.exporter.Export(ctx, RenderedQuote{View: view, HTML: html})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExport, err)
	}

	filename := document.Filename(uc.cfg.OrgCode, view.CompanyName, view.GeneratedAt)
	path, err := uc.archive.Save(filename, pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("quote: archivar PDF: %w", err)
	}

	uc.appendHistory(ctx, view)

	return &DownloadResult{
		View:     view,
		PDF:      pdfBytes,
		Filename: filename,
		Path:     path,
	}, nil
}

func (uc *UseCase) appendHistory(ctx context.Context, view *dto.QuoteView) {
	record := entity.NewHistoryRecord(view.DocumentNumber, view.CompanyName, view.VATTotal, view.GeneratedAt)
	if err := uc.history.Append(ctx, record); err != nil {
		uc.log.Error().Err(err).
			Str("document_number", record.DocumentNumber).
			Str("company", record.CompanyName).
			Int64("total", record.TotalAmount).
			Msg("no se pudo guardar el historial de la cotización")
		return
	}
	uc.log.Info().
		Str("document_number", record.DocumentNumber).
		Int64("total", record.TotalAmount).
		Msg("historial de cotización guardado")
}

func (uc *UseCase) build(form dto.QuoteForm) (*dto.QuoteView, error) {
	form, err := form.Normalize()
	if err != nil {
		return nil, err
	}

	res := uc.calc.Calculate(form.Services, form.Prices)
	now := uc.now()

	q := entity.Quote{
		CompanyName:          form.Company,
		DocumentNumberSuffix: form.DocNumber,
		DocumentNumber:       document.Number(uc.cfg.DocPrefix, form.DocNumber, now),
		Lines:                res.Lines,
		Subtotal:             res.Subtotal,
		VATTotal:             res.VATTotal,
		GeneratedAt:          now,
		ValidUntil:           now.AddDate(0, 0, uc.cfg.ValidDays),
	}
	return toView(&q, uc.cfg.OrgName), nil
}

func toView(q *entity.Quote, orgName string) *dto.QuoteView {
	lines := make([]dto.ServiceLineView, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, dto.ServiceLineView{Name: l.Name, Price: l.Price})
	}
	return &dto.QuoteView{
		OrgName:        orgName,
		CompanyName:    q.CompanyName,
		DocumentNumber: q.DocumentNumber,
		DocumentSuffix: q.DocumentNumberSuffix,
		Lines:          lines,
		Subtotal:       q.Subtotal,
		VATAmount:      q.VATAmount(),
		VATTotal:       q.VATTotal,
		GeneratedAt:    q.GeneratedAt,
		ValidUntil:     q.ValidUntil,
	}
}

// IsClientError indica si err se debe a la entrada del usuario.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput)
}
