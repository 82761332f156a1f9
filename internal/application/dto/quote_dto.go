package dto

import (
	"strings"
	"time"

	"github.com/jhoicas/cotizador-api/internal/domain"
)

// QuoteForm cuerpo de POST /generate y POST /download (application/x-www-form-urlencoded o multipart).
// service y price se repiten una vez por línea, en el mismo orden.
type QuoteForm struct {
	Company   string   `form:"company"`
	DocNumber string   `form:"doc_number"`
	TotalCost string   `form:"totalCost"` // lo calcula el navegador; se ignora, el servidor recalcula
	Services  []string `form:"service"`
	Prices    []string `form:"price"`
}

// Normalize valida el formulario en la frontera: la empresa es obligatoria (se recorta),
// el sufijo del documento se acepta tal cual. Los precios se convierten después con pricing.ParsePrice.
func (f QuoteForm) Normalize() (QuoteForm, error) {
	f.Company = strings.TrimSpace(f.Company)
	if f.Company == "" {
		return f, domain.ErrInvalidInput
	}
	return f, nil
}

// ServiceLineView línea para plantillas y PDF.
type ServiceLineView struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// QuoteView cotización lista para renderizar (vista previa, HTML final o PDF).
type QuoteView struct {
	OrgName        string            `json:"org_name"`
	CompanyName    string            `json:"company_name"`
	DocumentNumber string            `json:"document_number"`
	DocumentSuffix string            `json:"document_suffix"` // tal como llegó en doc_number; la vista previa lo reenvía a /download
	Lines          []ServiceLineView `json:"lines"`
	Subtotal       int64             `json:"subtotal"`
	VATAmount      int64             `json:"vat_amount"`
	VATTotal       int64             `json:"vat_total"`
	GeneratedAt    time.Time         `json:"generated_at"`
	ValidUntil     time.Time         `json:"valid_until"`
}

// FormPage datos de la página del formulario (GET /).
type FormPage struct {
	OrgName   string
	DocPrefix string
	Rows      int // filas de servicio vacías iniciales
}
