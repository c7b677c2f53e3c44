package models

import "dealer-admin-backend/internal/document"

type CreateSessionRequest struct {
	// Product is optional; a session without one can still capture
	// signatures but refuses to export.
	Product *document.ProductFacts `json:"product,omitempty"`
	// ProductImageURL is resolved asynchronously into embedded image data.
	ProductImageURL string `json:"product_image_url,omitempty" example:"https://cdn.example.com/watches/omega-speedmaster.jpg"`
	// Surfaces overrides the default backing resolution of the two
	// signature surfaces.
	Surfaces *SurfaceConfig `json:"surfaces,omitempty"`
}

type SurfaceConfig struct {
	BackingWidth  int `json:"backing_width" example:"600"`
	BackingHeight int `json:"backing_height" example:"200"`
}

type StrokeRequest struct {
	// Type accepts mouse and touch event names; both streams normalize to
	// down/move/up/leave.
	Type          string  `json:"type" binding:"required" example:"move"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	SurfaceLeft   float64 `json:"surface_left"`
	SurfaceTop    float64 `json:"surface_top"`
	DisplayWidth  float64 `json:"display_width" example:"300"`
	DisplayHeight float64 `json:"display_height" example:"100"`
}

type ExportRequest struct {
	// Mode is "print" (ephemeral, inline) or "download" (attachment plus
	// invoice-history persistence).
	Mode string `json:"mode" binding:"required" example:"download"`
}
