package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"dealer-admin-backend/internal/models"
)

// Client is the local invoice-history archive. It is optional
// infrastructure: when no DATABASE_URL is configured the rest of the
// pipeline runs without it.
type Client struct {
	db *sql.DB
}

func NewClient(connectionString string) (*Client, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) InsertInvoiceRecord(record *models.InvoiceRecord) error {
	productJSON, err := json.Marshal(record.ProductData)
	if err != nil {
		return fmt.Errorf("failed to marshal product data: %w", err)
	}
	companyJSON, err := json.Marshal(record.CompanyInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal company info: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT INTO invoice_history (id, invoice_number, product_data, company_info, invoice_date, pdf_generated)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.InvoiceNumber, productJSON, companyJSON, record.InvoiceDate, record.PDFGenerated)
	if err != nil {
		return fmt.Errorf("failed to insert invoice record: %w", err)
	}

	return nil
}

func (c *Client) GetInvoiceRecord(invoiceNumber string) (*models.InvoiceRecord, error) {
	var record models.InvoiceRecord
	var productJSON, companyJSON []byte

	err := c.db.QueryRow(`
		SELECT id, invoice_number, product_data, company_info, invoice_date, pdf_generated, created_at
		FROM invoice_history
		WHERE invoice_number = $1
	`, invoiceNumber).Scan(
		&record.ID, &record.InvoiceNumber, &productJSON, &companyJSON,
		&record.InvoiceDate, &record.PDFGenerated, &record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice record: %w", err)
	}

	if err := json.Unmarshal(productJSON, &record.ProductData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product data: %w", err)
	}
	if err := json.Unmarshal(companyJSON, &record.CompanyInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal company info: %w", err)
	}

	return &record, nil
}

func (c *Client) ListInvoiceRecords(limit int) ([]models.InvoiceRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := c.db.Query(`
		SELECT id, invoice_number, product_data, company_info, invoice_date, pdf_generated, created_at
		FROM invoice_history
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice records: %w", err)
	}
	defer rows.Close()

	var records []models.InvoiceRecord
	for rows.Next() {
		var record models.InvoiceRecord
		var productJSON, companyJSON []byte
		err := rows.Scan(
			&record.ID, &record.InvoiceNumber, &productJSON, &companyJSON,
			&record.InvoiceDate, &record.PDFGenerated, &record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice record: %w", err)
		}
		if err := json.Unmarshal(productJSON, &record.ProductData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product data: %w", err)
		}
		if err := json.Unmarshal(companyJSON, &record.CompanyInfo); err != nil {
			return nil, fmt.Errorf("failed to unmarshal company info: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}
