// Package storage archives generated invoice PDFs to object storage.
// Uploads run best-effort on the download path; the user already holds the
// file by the time one happens.
package storage

import (
	"bytes"
	"fmt"
	"time"

	storagego "github.com/supabase-community/storage-go"
)

type ArchiveClient struct {
	client  *storagego.Client
	bucket  string
	baseURL string
}

func NewArchiveClient(storageURL, serviceKey, bucket string) (*ArchiveClient, error) {
	baseURL := storageURL
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	client := storagego.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &ArchiveClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// UploadInvoicePDF stores one generated document under
// invoices/{year}/{month}/{filename} and returns the storage path and
// public URL.
func (a *ArchiveClient) UploadInvoicePDF(invoiceNumber, filename string, data []byte) (string, string, error) {
	now := time.Now()
	storagePath := fmt.Sprintf("invoices/%04d/%02d/%s", now.Year(), int(now.Month()), filename)

	contentType := "application/pdf"
	upsert := true
	_, err := a.client.UploadFile(a.bucket, storagePath, bytes.NewReader(data), storagego.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload invoice %s: %w", invoiceNumber, err)
	}

	return storagePath, a.PublicURL(storagePath), nil
}

func (a *ArchiveClient) PublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", a.baseURL, a.bucket, storagePath)
}

func (a *ArchiveClient) DeleteFile(storagePath string) error {
	_, err := a.client.RemoveFile(a.bucket, []string{storagePath})
	return err
}
