// Package storage guarda en disco los PDF generados.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/cotizador-api/internal/application/quote"
)

var _ quote.DocumentArchive = (*PDFArchive)(nil)

// PDFArchive escribe los PDF bajo un directorio base. El sistema de archivos es inyectable
// (afero.NewOsFs en producción, afero.NewMemMapFs en tests).
type PDFArchive struct {
	fs  afero.Fs
	dir string
}

// NewPDFArchive construye el archivo. dir vacío equivale al directorio de trabajo.
func NewPDFArchive(fs afero.Fs, dir string) *PDFArchive {
	if dir == "" {
		dir = "."
	}
	return &PDFArchive{fs: fs, dir: dir}
}

// Save escribe data en dir/name de forma atómica (temporal en el mismo directorio + rename)
// y devuelve la ruta final. Un archivo previo con el mismo nombre se reemplaza.
func (a *PDFArchive) Save(name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("archivo: nombre inválido %q", name)
	}
	if err := a.fs.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("archivo: crear %s: %w", a.dir, err)
	}

	tmp, err := afero.TempFile(a.fs, a.dir, ".quote-*.pdf.tmp")
	if err != nil {
		return "", fmt.Errorf("archivo: temporal: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = a.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("archivo: escribir: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("archivo: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("archivo: cerrar: %w", err)
	}

	final := filepath.Join(a.dir, name)
	if err := a.fs.Rename(tmpName, final); err != nil {
		return "", fmt.Errorf("archivo: renombrar a %s: %w", final, err)
	}
	committed = true
	return final, nil
}
