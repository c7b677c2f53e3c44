package models

import (
	"time"

	"github.com/google/uuid"

	"dealer-admin-backend/internal/document"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	// EmptyState signals the client to render the empty-state view
	// instead of a failure toast.
	EmptyState bool `json:"empty_state,omitempty"`
}

type SessionResponse struct {
	SessionID     string                  `json:"session_id"`
	InvoiceNumber string                  `json:"invoice_number"`
	InvoiceDate   string                  `json:"invoice_date"`
	HasProduct    bool                    `json:"has_product"`
	ProductImage  ImageStatusResponse     `json:"product_image"`
	Signatures    map[string]SurfaceState `json:"signatures"`
	Notices       []string                `json:"notices,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

type ImageStatusResponse struct {
	Resolved bool `json:"resolved"`
	Embedded bool `json:"embedded"`
}

type SurfaceState struct {
	Present    bool       `json:"present"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`
}

type StrokeResponse struct {
	Accepted      bool   `json:"accepted"`
	ActiveSurface string `json:"active_surface,omitempty"`
}

type InvoiceRecord struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoiceNumber"`
	ProductData   document.ProductFacts `json:"productData"`
	CompanyInfo   document.CompanyFacts `json:"companyInfo"`
	InvoiceDate   string                `json:"invoiceDate"`
	PDFGenerated  bool                  `json:"pdfGenerated"`
	CreatedAt     time.Time             `json:"created_at"`
}

type HistoryResponse struct {
	Records []InvoiceRecord `json:"records"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
