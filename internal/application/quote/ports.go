package quote

import (
	"context"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
)

// DocumentRenderer produce el HTML de la vista previa y del documento final.
type DocumentRenderer interface {
	RenderPreview(view *dto.QuoteView) (string, error)
	RenderQuote(view *dto.QuoteView) (string, error)
}

// RenderedQuote documento final: la vista y su HTML ya renderizado.
// Cada motor de PDF usa lo que necesita (maroto la vista, wkhtmltopdf el HTML).
type RenderedQuote struct {
	View *dto.QuoteView
	HTML string
}

// QuoteExporter convierte el documento final en PDF. Un error es definitivo:
// el caso de uso no archiva nada ni registra historial.
type QuoteExporter interface {
	Export(ctx context.Context, doc RenderedQuote) ([]byte, error)
}

// DocumentArchive guarda el PDF generado bajo name y devuelve la ruta final.
// La escritura es atómica: nunca queda un archivo a medias con ese nombre.
type DocumentArchive interface {
	Save(name string, data []byte) (string, error)
}
