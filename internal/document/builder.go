package document

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// ErrMissingProductFacts is returned when a document is requested with no
// product selected. Callers short-circuit to an empty-state view instead of
// calling the renderer.
var ErrMissingProductFacts = errors.New("no product facts supplied")

// Fallbacks applied at composition time so the renderer never sees an
// absent value for a field it displays.
const (
	DefaultBrand       = "Unknown Brand"
	DefaultModel       = "Unknown Model"
	DefaultStatus      = "Available"
	DefaultCurrency    = "USD"
	DefaultPlaceholder = "Not specified"
)

const invoiceDateLayout = "2006-01-02"

// NewInvoiceMeta generates the identity fields for one invoice session.
// The trailing three digits are drawn uniformly from [0, 999]; the caller
// holds the result fixed for the session so print and download of the same
// invoice carry the same number.
func NewInvoiceMeta(now time.Time) InvoiceMeta {
	date := now.Format(invoiceDateLayout)
	return InvoiceMeta{
		InvoiceNumber: fmt.Sprintf("INV-%s-%03d", now.Format("20060102"), rand.IntN(1000)),
		InvoiceDate:   date,
		AdminDate:     date,
		OrganizerDate: date,
	}
}

// Builder composes render-ready invoice documents for one dealer profile.
type Builder struct {
	company CompanyFacts
}

func NewBuilder(company CompanyFacts) *Builder {
	return &Builder{company: company}
}

// Company returns the dealer profile the builder stamps on documents.
func (b *Builder) Company() CompanyFacts {
	return b.company
}

// Build merges the current facts, the two signature snapshots and the
// (possibly still unresolved) product image into one InvoiceDocument.
// Returns ErrMissingProductFacts when product is nil.
func (b *Builder) Build(product *ProductFacts, meta InvoiceMeta, productImage EmbeddedImage, admin, organizer SignatureSnapshot) (*InvoiceDocument, error) {
	if product == nil {
		return nil, ErrMissingProductFacts
	}

	return &InvoiceDocument{
		Company:            b.company,
		Meta:               meta,
		Product:            withDefaults(*product),
		ProductImage:       productImage,
		AdminSignature:     admin,
		OrganizerSignature: organizer,
	}, nil
}

func withDefaults(p ProductFacts) ProductFacts {
	p.Brand = fallback(p.Brand, DefaultBrand)
	p.Model = fallback(p.Model, DefaultModel)
	p.RefNo = fallback(p.RefNo, DefaultPlaceholder)
	p.Year = fallback(p.Year, DefaultPlaceholder)
	p.Condition = fallback(p.Condition, DefaultPlaceholder)
	p.Description = fallback(p.Description, DefaultPlaceholder)
	p.Status = fallback(p.Status, DefaultStatus)
	p.Currency = fallback(p.Currency, DefaultCurrency)
	return p
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
