package entity

import "time"

// ServiceLine una línea de servicio cotizado. Price nunca es negativo.
type ServiceLine struct {
	Name  string
	Price int64
}

// Quote cotización calculada a partir del formulario.
type Quote struct {
	CompanyName          string
	DocumentNumberSuffix string
	DocumentNumber       string // número canónico: prefijo-AA+sufijo
	Lines                []ServiceLine
	Subtotal             int64
	VATTotal             int64 // piso(Subtotal × (1 + tasa))
	GeneratedAt          time.Time
	ValidUntil           time.Time
}

// VATAmount parte del total que corresponde al impuesto.
func (q *Quote) VATAmount() int64 {
	return q.VATTotal - q.Subtotal
}
