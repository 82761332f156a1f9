// Package money formatea importes enteros para mostrar en pantalla y en documentos.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format inserta separadores de miles con coma.
// Ej: 1234567 → "1,234,567", -1500 → "-1,500".
func Format(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatWon igual que Format con el sufijo de moneda usado en los documentos.
func FormatWon(n int64) string {
	return Format(n) + " 원"
}
