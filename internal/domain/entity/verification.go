package entity

import (
	"strings"
	"time"
)

// CertificateMaterial is an opaque certificate/public-key blob. It is never
// parsed or trusted client-side; it is forwarded verbatim to the verify endpoint.
type CertificateMaterial string

// IsEmpty reports whether there is nothing to forward
func (c CertificateMaterial) IsEmpty() bool {
	return strings.TrimSpace(string(c)) == ""
}

// CertificateSource records where the active certificate came from
type CertificateSource string

const (
	CertificateFromServer CertificateSource = "server"
	CertificateFromFile   CertificateSource = "file"
)

// VerificationResult keeps transport success and the cryptographic verdict
// apart: a well-formed answer can succeed while reporting an invalid signature.
type VerificationResult struct {
	Success          bool       `json:"success"`
	IsValid          bool       `json:"is_valid"`
	Message          string     `json:"message"`
	VerificationTime *time.Time `json:"verification_time,omitempty"`
	// FailureKind tells a transport failure from a server rejection when Success is false
	FailureKind NoticeKind `json:"failure_kind,omitempty"`
}

// ========== Remote API structures ==========

// VerifyResponse is the envelope of POST {document}/verify-pdf
type VerifyResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    *VerifyData `json:"data"`
}

type VerifyData struct {
	IsValid          bool   `json:"is_valid"`
	VerificationTime string `json:"verification_time"`
}

// Succeeded reports whether the envelope is a success envelope
func (r *VerifyResponse) Succeeded() bool {
	switch strings.ToLower(r.Status) {
	case "success", "ok":
		return r.Data != nil
	case "":
		return r.Data != nil
	default:
		return false
	}
}
