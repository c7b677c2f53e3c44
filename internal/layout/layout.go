// Package layout builds the declarative tree the paginated document
// renderer consumes: a fixed-size page with a two-column header, a product
// section, a price card, two signature boxes and a footer. The tree carries
// only values; nothing in it needs network access to render.
package layout

import (
	"fmt"
	"strings"

	"dealer-admin-backend/internal/document"
)

type Tree struct {
	Page       PageSpec
	Header     Header
	Product    ProductSection
	Price      PriceCard
	Signatures []SignatureBox
	Footer     Footer
}

type PageSpec struct {
	Size        string
	Orientation string
}

// KV is one label/value row in a fact list.
type KV struct {
	Label string
	Value string
}

type Header struct {
	Title        string
	CompanyLines []string
	MetaPairs    []KV
}

// ImageBlock holds either embedded image data or the placeholder text shown
// in its place.
type ImageBlock struct {
	DataURI     string
	Placeholder string
}

func (b ImageBlock) Empty() bool {
	return b.DataURI == ""
}

type ProductSection struct {
	Heading string
	Image   ImageBlock
	Facts   []KV
}

type PriceCard struct {
	Heading string
	Rows    []KV
}

type SignatureBox struct {
	Caption   string
	Hint      string
	Raster    ImageBlock
	DateLabel string
	DateValue string
}

type Footer struct {
	Lines []string
}

// Options adjust the tree for a specific export mode.
type Options struct {
	// PrintMode suppresses interactive-only hints for the duration of a
	// print export.
	PrintMode bool
}

// Build lays out one InvoiceDocument. The document is read, never mutated.
func Build(doc *document.InvoiceDocument, opts Options) *Tree {
	meta := doc.Meta
	product := doc.Product

	companyLines := []string{doc.Company.Name}
	for _, line := range []string{doc.Company.Address, doc.Company.Phone, doc.Company.Email, doc.Company.Website} {
		if line != "" {
			companyLines = append(companyLines, line)
		}
	}

	tree := &Tree{
		Page: PageSpec{Size: "A4", Orientation: "P"},
		Header: Header{
			Title:        "INVOICE",
			CompanyLines: companyLines,
			MetaPairs: []KV{
				{Label: "Invoice No.", Value: meta.InvoiceNumber},
				{Label: "Invoice Date", Value: meta.InvoiceDate},
			},
		},
		Product: ProductSection{
			Heading: "Product Details",
			Image:   imageBlock(doc.ProductImage, "No image available"),
			Facts: []KV{
				{Label: "Brand", Value: product.Brand},
				{Label: "Model", Value: product.Model},
				{Label: "Reference No.", Value: product.RefNo},
				{Label: "Year", Value: product.Year},
				{Label: "Condition", Value: product.Condition},
				{Label: "Status", Value: product.Status},
			},
		},
		Price: PriceCard{
			Heading: "Pricing",
			Rows: []KV{
				{Label: "Listed Price", Value: FormatPrice(product.Currency, product.PriceListed)},
				{Label: "Purchase Price", Value: FormatPrice(product.Currency, product.PricePaid)},
			},
		},
		Signatures: []SignatureBox{
			signatureBox("Administrator", doc.AdminSignature, meta.AdminDate, opts),
			signatureBox("Organizer", doc.OrganizerSignature, meta.OrganizerDate, opts),
		},
		Footer: Footer{
			Lines: []string{
				fmt.Sprintf("Generated by %s", doc.Company.Name),
				"This document was produced electronically and is valid with the signatures above.",
			},
		},
	}

	if product.Description != "" {
		tree.Product.Facts = append(tree.Product.Facts, KV{Label: "Description", Value: product.Description})
	}

	return tree
}

func signatureBox(role string, snap document.SignatureSnapshot, date string, opts Options) SignatureBox {
	box := SignatureBox{
		Caption:   fmt.Sprintf("%s Signature", role),
		Raster:    imageBlock(snap.Raster, ""),
		DateLabel: "Date",
		DateValue: date,
	}
	if !opts.PrintMode && !snap.Present {
		box.Hint = fmt.Sprintf("Awaiting %s signature", strings.ToLower(role))
	}
	return box
}

func imageBlock(img document.EmbeddedImage, placeholder string) ImageBlock {
	if img.Empty() {
		return ImageBlock{Placeholder: placeholder}
	}
	return ImageBlock{DataURI: img.Data}
}

// FormatPrice renders an amount with its currency, or the defined
// placeholder when no amount was entered.
func FormatPrice(currency string, amount float64) string {
	if amount == 0 {
		return document.DefaultPlaceholder
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}
