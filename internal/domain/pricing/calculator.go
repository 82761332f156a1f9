// Package pricing: cálculo de líneas, subtotal e IVA de una cotización.
// Política de entrada: un precio mal formado vale 0, nunca es un error.
package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

// MaxAmount mayor precio o subtotal aceptado (10^15 - 1). Con tasas de hasta el 100 %
// el total con IVA sigue cabiendo en int64.
const MaxAmount int64 = 999_999_999_999_999

// MaxVATRate tasa máxima admitida por NewCalculatorService.
var MaxVATRate = decimal.NewFromInt(1)

// DefaultVATRate IVA estándar del 10 %.
var DefaultVATRate = decimal.NewFromInt(10).Div(decimal.NewFromInt(100))

// Result líneas y totales calculados.
type Result struct {
	Lines    []entity.ServiceLine
	Subtotal int64
	VATTotal int64
}

// CalculatorService calcula totales con una tasa de IVA fija.
type CalculatorService struct {
	multiplier decimal.Decimal // 1 + tasa
}

// NewCalculatorService crea el servicio. La tasa se acota a [0, MaxVATRate].
func NewCalculatorService(vatRate decimal.Decimal) *CalculatorService {
	if vatRate.IsNegative() {
		vatRate = decimal.Zero
	}
	if vatRate.GreaterThan(MaxVATRate) {
		vatRate = MaxVATRate
	}
	return &CalculatorService{multiplier: decimal.NewFromInt(1).Add(vatRate)}
}

// Calculate empareja nombres y precios hasta la longitud de la lista más corta
// (los sobrantes se descartan), convierte cada precio con ParsePrice y acumula el subtotal.
// Una línea que llevaría el subtotal por encima de MaxAmount vale 0, igual que un precio
// mal formado: el subtotal siempre es la suma de los precios de las líneas.
func (s *CalculatorService) Calculate(names, prices []string) Result {
	n := min(len(names), len(prices))
	lines := make([]entity.ServiceLine, 0, n)
	var subtotal int64
	for i := 0; i < n; i++ {
		price := ParsePrice(prices[i])
		if price > MaxAmount-subtotal {
			price = 0
		}
		lines = append(lines, entity.ServiceLine{Name: names[i], Price: price})
		subtotal += price
	}
	return Result{
		Lines:    lines,
		Subtotal: subtotal,
		VATTotal: s.VAT(subtotal),
	}
}

// VAT total con impuesto: piso(subtotal × (1 + tasa)), en aritmética decimal exacta.
// subtotal fuera de [0, MaxAmount] se acota antes de calcular.
func (s *CalculatorService) VAT(subtotal int64) int64 {
	subtotal = max(0, min(subtotal, MaxAmount))
	return decimal.NewFromInt(subtotal).Mul(s.multiplier).Floor().IntPart()
}

// ParsePrice devuelve el entero representado por text si consiste solo en dígitos ASCII
// y no supera MaxAmount; cualquier otra cosa (vacío, signos, espacios, separadores,
// importes mayores) es 0.
func ParsePrice(text string) int64 {
	if text == "" {
		return 0
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return 0
		}
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil || n > MaxAmount {
		return 0
	}
	return n
}
