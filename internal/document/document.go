package document

import "time"

// ImageOrigin records where an embedded image came from.
type ImageOrigin string

const (
	// OriginSourceURL marks an image converted from a remote URL.
	OriginSourceURL ImageOrigin = "source-url"
	// OriginCaptured marks an image exported from a signature surface.
	OriginCaptured ImageOrigin = "captured"
)

// EmbeddedImage is a self-contained data URI. Once populated it never needs
// network access again, so a document carrying it stays renderable offline.
type EmbeddedImage struct {
	Data   string      `json:"data"`
	Origin ImageOrigin `json:"origin"`
}

// Empty reports whether the image is the absent placeholder value.
func (e EmbeddedImage) Empty() bool {
	return e.Data == ""
}

// SignatureSnapshot is the captured state of one signature surface.
type SignatureSnapshot struct {
	Present    bool          `json:"present"`
	Raster     EmbeddedImage `json:"raster,omitempty"`
	CapturedAt time.Time     `json:"captured_at,omitempty"`
}

// ProductFacts holds the dealer-entered fields for one listed item.
// Every field is optional; defaults are applied when a document is built.
type ProductFacts struct {
	Brand       string   `json:"brand,omitempty"`
	Model       string   `json:"model,omitempty"`
	RefNo       string   `json:"ref_no,omitempty"`
	Year        string   `json:"year,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	Status      string   `json:"status,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	PriceListed float64  `json:"price_listed,omitempty"`
	PricePaid   float64  `json:"price_paid,omitempty"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// CompanyFacts is the static dealer profile printed on every invoice.
type CompanyFacts struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}

// InvoiceMeta carries the per-document identity fields. InvoiceNumber is
// generated once per session and never changes afterwards.
type InvoiceMeta struct {
	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"`
	AdminDate     string `json:"admin_date"`
	OrganizerDate string `json:"organizer_date"`
}

// InvoiceDocument is the canonical, render-ready aggregate handed to the
// paginated renderer. Treated as a value once built; re-drawing a signature
// produces a new document on the next export.
type InvoiceDocument struct {
	Company            CompanyFacts      `json:"company"`
	Meta               InvoiceMeta       `json:"meta"`
	Product            ProductFacts      `json:"product"`
	ProductImage       EmbeddedImage     `json:"product_image,omitempty"`
	AdminSignature     SignatureSnapshot `json:"admin_signature"`
	OrganizerSignature SignatureSnapshot `json:"organizer_signature"`
}
