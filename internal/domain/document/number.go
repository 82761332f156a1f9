// Package document reglas de numeración y nombre de archivo de las cotizaciones.
package document

import (
	"strings"
	"time"
	"unicode"
)

// Number construye el número canónico del documento: prefijo + "-" + año (2 dígitos) + sufijo.
// Ej: Number("HYQ", "001", 2026-…) → "HYQ-26001". Sin prefijo: "26001".
// El sufijo no se valida; texto arbitrario (incluso vacío) es aceptado tal cual.
func Number(prefix, suffix string, at time.Time) string {
	year := at.Format("06")
	if prefix == "" {
		return year + suffix
	}
	return prefix + "-" + year + suffix
}

// Filename nombre del PDF descargable: <orgCode>_<empresa saneada>_quote_<AAMMDD>.pdf
func Filename(orgCode, company string, at time.Time) string {
	parts := make([]string, 0, 4)
	if orgCode != "" {
		parts = append(parts, SanitizeFilenamePart(orgCode))
	}
	parts = append(parts, SanitizeFilenamePart(company), "quote", at.Format("060102"))
	return strings.Join(parts, "_") + ".pdf"
}

// SanitizeFilenamePart elimina espacios, reemplaza "/" y "\" por "-" y descarta
// caracteres reservados de sistemas de archivos (: * ? " < > |) y de control.
// Si no queda nada devuelve "quote".
func SanitizeFilenamePart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '/' || r == '\\':
			b.WriteRune('-')
		case strings.ContainsRune(`:*?"<>|`, r), unicode.IsControl(r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "quote"
	}
	return out
}
