package embed

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/rs/zerolog"

	"dealer-admin-backend/internal/document"
	"dealer-admin-backend/internal/logger"
)

// DefaultTimeout bounds the whole embed attempt, probe and load together.
// If it elapses first the attempt is aborted and the empty result is
// returned.
const DefaultTimeout = 10 * time.Second

const maxImageBytes = 20 << 20

// Embedder converts a remotely hosted image into a self-contained data URI
// so the exported document never depends on the host again. Every failure
// mode collapses into the empty EmbeddedImage; it never surfaces an error
// to the caller, who renders the no-image placeholder instead.
type Embedder struct {
	httpClient *http.Client
	timeout    time.Duration
	log        zerolog.Logger
}

func NewEmbedder(timeout time.Duration) *Embedder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Embedder{
		// Anonymous client: no cookies, no credentials.
		httpClient: &http.Client{},
		timeout:    timeout,
		log:        logger.WithComponent("embed"),
	}
}

// Embed fetches url and returns it as an embedded PNG data URI, or the
// empty EmbeddedImage on any failure.
//
// A lightweight existence probe runs first; a failed probe is not final,
// because some hosts reject HEAD requests but still serve full fetches, so
// the load is attempted regardless.
func (e *Embedder) Embed(ctx context.Context, url string) document.EmbeddedImage {
	if url == "" {
		return document.EmbeddedImage{}
	}

	// One deadline covers the probe and the load together.
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if err := e.probe(ctx, url); err != nil {
		e.log.Debug().Err(err).Str("url", url).Msg("reachability probe failed, attempting full load anyway")
	}

	data, err := e.load(ctx, url)
	if err != nil {
		e.log.Warn().Err(err).Str("url", url).Msg("image load failed, degrading to placeholder")
		return document.EmbeddedImage{}
	}

	uri, err := reencode(data)
	if err != nil {
		e.log.Warn().Err(err).Str("url", url).Msg("image decode failed, degrading to placeholder")
		return document.EmbeddedImage{}
	}

	return document.EmbeddedImage{Data: uri, Origin: document.OriginSourceURL}
}

func (e *Embedder) probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("probe returned status %d", resp.StatusCode)
	}
	return nil
}

func (e *Embedder) load(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return data, nil
}

// reencode decodes the fetched bytes, redraws them into an off-screen RGBA
// raster at the image's natural size and serializes that raster as a PNG
// data URI. The intermediate draw normalizes whatever encoding the host
// served into the one representation the document renderer consumes.
func reencode(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	surface := image.NewRGBA(bounds)
	draw.Draw(surface, bounds, img, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, surface); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
