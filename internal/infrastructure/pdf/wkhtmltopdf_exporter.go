package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/cotizador-api/internal/application/quote"
)

var _ quote.QuoteExporter = (*WkhtmltopdfExporter)(nil)

// WkhtmltopdfExporter convierte el HTML final con el binario wkhtmltopdf.
// La ruta del binario la decide quien construye el exporter (config WKHTMLTOPDF_PATH).
type WkhtmltopdfExporter struct {
	binPath string
	tmpDir  string
	args    []string
}

// NewWkhtmltopdfExporter construye el motor. tmpDir vacío usa os.TempDir().
func NewWkhtmltopdfExporter(binPath, tmpDir string) *WkhtmltopdfExporter {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &WkhtmltopdfExporter{
		binPath: binPath,
		tmpDir:  tmpDir,
		args:    []string{"--quiet", "--encoding", "utf-8", "--page-size", "A4"},
	}
}

// Export pasa el HTML por stdin y lee el PDF de un archivo temporal único.
// Un código de salida distinto de cero es error, aunque el archivo exista.
func (w *WkhtmltopdfExporter) Export(ctx context.Context, doc quote.RenderedQuote) ([]byte, error) {
	if w.binPath == "" {
		return nil, fmt.Errorf("wkhtmltopdf: ruta del binario no configurada")
	}
	if strings.TrimSpace(doc.HTML) == "" {
		return nil, fmt.Errorf("wkhtmltopdf: documento HTML vacío")
	}

	out := filepath.Join(w.tmpDir, "quote-"+uuid.NewString()+".pdf")
	defer func() { _ = os.Remove(out) }()

	args := append(append([]string{}, w.args...), "-", out)
	cmd := exec.CommandContext(ctx, w.binPath, args...)
	cmd.Stdin = strings.NewReader(doc.HTML)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("wkhtmltopdf: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("wkhtmltopdf: %w", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("wkhtmltopdf: leer salida: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("wkhtmltopdf: salida vacía")
	}
	return data, nil
}
