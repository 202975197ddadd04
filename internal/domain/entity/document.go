package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"
)

// DocumentStatus is the client-local view of the server's document status
type DocumentStatus string

const (
	StatusUploaded           DocumentStatus = "Uploaded"
	StatusSigned             DocumentStatus = "Signed"
	StatusVerified           DocumentStatus = "Verified"
	StatusVerificationFailed DocumentStatus = "VerificationFailed"
)

// ParseDocumentStatus normalizes a server status code. ok is false for codes
// the client does not know; those fall back to StatusUploaded.
func ParseDocumentStatus(code string) (DocumentStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "uploaded":
		return StatusUploaded, true
	case "signed":
		return StatusSigned, true
	case "verified":
		return StatusVerified, true
	case "verification_failed":
		return StatusVerificationFailed, true
	default:
		return StatusUploaded, false
	}
}

// DocumentSummary is one row of the document list. It is an immutable
// snapshot; the list is replaced wholesale on every refresh.
type DocumentSummary struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"name"`
	Format      string         `json:"format"`
	Filename    string         `json:"filename"`
	CreatedAt   time.Time      `json:"created_at"`
	Status      DocumentStatus `json:"status"`
}

// SplitFilename returns the display name (extension stripped) and the
// uppercased extension without the dot.
func SplitFilename(filename string) (name, format string) {
	ext := path.Ext(filename)
	if ext == "" || ext == filename {
		return filename, ""
	}
	return strings.TrimSuffix(filename, ext), strings.ToUpper(strings.TrimPrefix(ext, "."))
}

// DocumentContent is the raw document fetched for a single operation
type DocumentContent struct {
	Bytes    []byte `json:"-"`
	MimeType string `json:"mime_type"`
	Filename string `json:"filename"`
}

// Size returns the content length in bytes
func (c *DocumentContent) Size() int {
	if c == nil {
		return 0
	}
	return len(c.Bytes)
}

// Release drops the buffer once the consuming view closes
func (c *DocumentContent) Release() {
	if c != nil {
		c.Bytes = nil
	}
}

// ========== Remote API structures ==========

// DocumentRecord is one entry of GET {document}/
type DocumentRecord struct {
	DocumentID FlexibleID `json:"document_id"`
	Filename   string     `json:"filename"`
	CreatedAt  string     `json:"created_at"`
	Status     string     `json:"status"`
}

// DocumentContentResponse is the body of GET {document}/{id}/content
type DocumentContentResponse struct {
	Content  string `json:"content"`
	MimeType string `json:"mime_type"`
	Filename string `json:"filename"`
}

// MessageResponse is a bare {message} body
type MessageResponse struct {
	Message string `json:"message"`
}

// FlexibleID accepts identifiers sent either as JSON numbers or strings
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid identifier %s: %w", b, err)
	}
	*f = FlexibleID(n.String())
	return nil
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts the timestamp shapes the service emits. Zero time on failure.
func ParseTimestamp(value string) time.Time {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
