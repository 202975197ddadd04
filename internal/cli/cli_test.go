package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsign-client/internal/domain/entity"
)

func TestPromptConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\r\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		confirm := promptConfirm(strings.NewReader(tt.input), &out)

		assert.Equal(t, tt.want, confirm(context.Background(), "Delete contract.pdf?"), "input %q", tt.input)
		assert.Equal(t, "Delete contract.pdf? [y/N]: ", out.String())
	}
}

func TestReadLine(t *testing.T) {
	line, err := readLine(strings.NewReader("s3cret\nrest"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", line)

	line, err = readLine(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", line)
}

func TestPrintDocuments(t *testing.T) {
	var out bytes.Buffer
	printDocuments(&out, nil)
	assert.Equal(t, "No documents\n", out.String())

	out.Reset()
	printDocuments(&out, []entity.DocumentSummary{
		{ID: "1", DisplayName: "contract", Format: "PDF", Status: entity.StatusSigned, CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)},
		{ID: "12", DisplayName: "invoice", Format: "PDF", Status: entity.StatusUploaded},
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "contract")
	assert.Contains(t, lines[1], "Signed")
	assert.Contains(t, lines[1], "2026-03-01 10:00")
	assert.Contains(t, lines[2], "Uploaded")
	assert.True(t, strings.HasSuffix(lines[2], "-"))
}

func TestCommandsAreRegistered(t *testing.T) {
	want := []string{"login", "signup", "logout", "whoami", "list", "upload", "download", "delete", "render", "sign", "verify", "cert"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
