package entity

import "time"

// SignatureAnchor is a document-space coordinate derived from a pixel click.
// X and Y are pixel coordinates divided by Scale.
type SignatureAnchor struct {
	PageIndex      int     `json:"page"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Scale          float64 `json:"scale"`
	ViewportWidth  int     `json:"viewport_width"`
	ViewportHeight int     `json:"viewport_height"`
}

// Position is the part of the anchor the sign endpoint receives
func (a SignatureAnchor) Position() SignPosition {
	return SignPosition{Page: a.PageIndex, X: a.X, Y: a.Y}
}

// SigningResult is the terminal value of a successful sign call
type SigningResult struct {
	SignatureID string    `json:"signature_id"`
	SignedAt    time.Time `json:"signed_at"`
	DocumentID  string    `json:"document_id"`
	Filename    string    `json:"filename"`
}

// ========== Remote API structures ==========

// SignPosition is the JSON "position" field of POST {document}/sign-pdf
type SignPosition struct {
	Page int     `json:"page"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// SignResponse is the envelope of POST {document}/sign-pdf
type SignResponse struct {
	Data *SignData `json:"data"`
}

type SignData struct {
	SignatureID FlexibleID `json:"signature_id"`
	SignedAt    string     `json:"signed_at"`
	DocumentID  FlexibleID `json:"document_id"`
	Filename    string     `json:"filename"`
}
