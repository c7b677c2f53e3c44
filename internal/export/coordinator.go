// Package export drives the two terminal outcomes of a completed invoice
// document: print (ephemeral, inline) and download (named file plus
// detached persistence of the invoice record).
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dealer-admin-backend/internal/database"
	"dealer-admin-backend/internal/document"
	"dealer-admin-backend/internal/layout"
	"dealer-admin-backend/internal/logger"
	"dealer-admin-backend/internal/models"
	"dealer-admin-backend/internal/platform"
	"dealer-admin-backend/internal/render"
	"dealer-admin-backend/internal/storage"
)

// Notifier receives soft, non-blocking notices raised by detached work.
type Notifier func(notice string)

// Artifact is a rendered document ready to be offered to the user.
type Artifact struct {
	Filename    string
	ContentType string
	Disposition string
	Data        []byte
}

// Coordinator renders documents and, on the download path, fires the
// persistence work without awaiting it. Every collaborator except the
// renderer is optional; a nil client simply skips that persistence target.
type Coordinator struct {
	renderer       *render.PDFRenderer
	platformClient *platform.Client
	dbClient       *database.Client
	archiveClient  *storage.ArchiveClient
	persistRetries int
	persistTimeout time.Duration
	log            zerolog.Logger
}

func NewCoordinator(renderer *render.PDFRenderer, platformClient *platform.Client, dbClient *database.Client, archiveClient *storage.ArchiveClient) *Coordinator {
	return &Coordinator{
		renderer:       renderer,
		platformClient: platformClient,
		dbClient:       dbClient,
		archiveClient:  archiveClient,
		persistRetries: 3,
		persistTimeout: 30 * time.Second,
		log:            logger.WithComponent("export"),
	}
}

// SetPersistRetries overrides the retry count for the detached
// persistence call.
func (c *Coordinator) SetPersistRetries(n int) {
	if n > 0 {
		c.persistRetries = n
	}
}

// Print renders the document for the platform print facility. Interactive
// hints are suppressed through per-call layout options, so nothing lingers
// after the export regardless of how printing ends. No record is
// persisted; printing is ephemeral and local.
func (c *Coordinator) Print(doc *document.InvoiceDocument) (*Artifact, error) {
	tree := layout.Build(doc, layout.Options{PrintMode: true})
	data, err := c.renderer.Render(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to render print document: %w", err)
	}

	return &Artifact{
		Filename:    fmt.Sprintf("Invoice-%s.pdf", doc.Meta.InvoiceNumber),
		ContentType: "application/pdf",
		Disposition: "inline",
		Data:        data,
	}, nil
}

// Download renders the document as a named file and fires the
// invoice-record persistence detached. The artifact is returned as soon as
// the bytes exist; persistence failure is logged, surfaced through notify
// and never rolls the file back.
func (c *Coordinator) Download(doc *document.InvoiceDocument, notify Notifier) (*Artifact, error) {
	tree := layout.Build(doc, layout.Options{})
	data, err := c.renderer.Render(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}

	artifact := &Artifact{
		Filename:    fmt.Sprintf("Invoice-%s.pdf", doc.Meta.InvoiceNumber),
		ContentType: "application/pdf",
		Disposition: "attachment",
		Data:        data,
	}

	record := models.InvoiceRecord{
		ID:            uuid.New(),
		InvoiceNumber: doc.Meta.InvoiceNumber,
		ProductData:   doc.Product,
		CompanyInfo:   doc.Company,
		InvoiceDate:   doc.Meta.InvoiceDate,
		PDFGenerated:  true,
		CreatedAt:     time.Now(),
	}

	go c.persist(record, artifact.Filename, data, notify)

	return artifact, nil
}

func (c *Coordinator) persist(record models.InvoiceRecord, filename string, pdfData []byte, notify Notifier) {
	if c.platformClient != nil {
		err := c.platformClient.RetryWithBackoff(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), c.persistTimeout)
			defer cancel()
			return c.platformClient.SaveInvoiceRecord(ctx, record)
		}, c.persistRetries)
		if err != nil {
			c.log.Warn().Err(err).Str("invoice_number", record.InvoiceNumber).Msg("invoice record persistence failed")
			c.notify(notify, fmt.Sprintf("Invoice %s was downloaded, but saving it to history failed.", record.InvoiceNumber))
		}
	}

	if c.dbClient != nil {
		if err := c.dbClient.InsertInvoiceRecord(&record); err != nil {
			c.log.Warn().Err(err).Str("invoice_number", record.InvoiceNumber).Msg("invoice archive insert failed")
			c.notify(notify, fmt.Sprintf("Invoice %s could not be archived locally.", record.InvoiceNumber))
		}
	}

	if c.archiveClient != nil {
		if _, _, err := c.archiveClient.UploadInvoicePDF(record.InvoiceNumber, filename, pdfData); err != nil {
			// Best-effort only; the user already has the file.
			c.log.Warn().Err(err).Str("invoice_number", record.InvoiceNumber).Msg("invoice PDF archive upload failed")
		}
	}
}

func (c *Coordinator) notify(notify Notifier, notice string) {
	if notify != nil {
		notify(notice)
	}
}
