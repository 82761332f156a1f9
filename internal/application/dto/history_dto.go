package dto

// HistoryEntryView registro del historial formateado para pantalla.
type HistoryEntryView struct {
	DocumentNumber   string `json:"document_number"`
	CreatedAt        string `json:"created_at"`
	CompanyName      string `json:"company_name"`
	TotalAmount      string `json:"total_amount"` // con separador de miles: "1,234,567"
	EngagementStatus string `json:"engagement_status"`
	EngagementLabel  string `json:"engagement_label"`
}

// HistoryPage datos de la página /history.
type HistoryPage struct {
	Entries  []HistoryEntryView
	Filename string // archivo recién generado (opcional, viene de ?filename=)
}
