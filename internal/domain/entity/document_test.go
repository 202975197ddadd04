package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFilename(t *testing.T) {
	tests := []struct {
		filename   string
		wantName   string
		wantFormat string
	}{
		{"contract.pdf", "contract", "PDF"},
		{"Report.Final.Pdf", "Report.Final", "PDF"},
		{"README", "README", ""},
		{".pdf", ".pdf", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			name, format := SplitFilename(tt.filename)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantFormat, format)
		})
	}
}

func TestParseDocumentStatus(t *testing.T) {
	status, ok := ParseDocumentStatus("verification_failed")
	assert.True(t, ok)
	assert.Equal(t, StatusVerificationFailed, status)

	status, ok = ParseDocumentStatus(" Signed ")
	assert.True(t, ok)
	assert.Equal(t, StatusSigned, status)

	status, ok = ParseDocumentStatus("archived")
	assert.False(t, ok)
	assert.Equal(t, StatusUploaded, status)
}

func TestDocumentRecordAcceptsNumericID(t *testing.T) {
	var records []DocumentRecord
	body := `[{"document_id": 42, "filename": "a.pdf", "created_at": "2024-05-01T10:00:00", "status": "uploaded"},
	          {"document_id": "b-7", "filename": "b.pdf", "created_at": "2024-05-01 10:00:00.123456", "status": "signed"}]`

	require.NoError(t, json.Unmarshal([]byte(body), &records))
	assert.Equal(t, FlexibleID("42"), records[0].DocumentID)
	assert.Equal(t, FlexibleID("b-7"), records[1].DocumentID)

	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), ParseTimestamp(records[0].CreatedAt))
	assert.False(t, ParseTimestamp(records[1].CreatedAt).IsZero())
	assert.True(t, ParseTimestamp("yesterday").IsZero())
}

func TestFlexibleIDDecodesStringsAndNumbers(t *testing.T) {
	tests := []struct {
		raw  string
		want FlexibleID
	}{
		{`42`, "42"},
		{`"42"`, "42"},
		{`"doc\"7"`, `doc"7`},
		{`"a\u002fb"`, "a/b"},
		{`null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var id FlexibleID
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id FlexibleID
	assert.Error(t, json.Unmarshal([]byte(`{"id":1}`), &id))
}

func TestVerifyResponseSucceeded(t *testing.T) {
	assert.True(t, (&VerifyResponse{Status: "success", Data: &VerifyData{}}).Succeeded())
	assert.False(t, (&VerifyResponse{Status: "error", Message: "signature mismatch"}).Succeeded())
	assert.False(t, (&VerifyResponse{Status: "success"}).Succeeded())
}
