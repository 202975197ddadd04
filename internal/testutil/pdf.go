package testutil

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDF builds an A4 document with the given number of pages, each carrying a
// heading and a framed signature box.
func PDF(pages int) ([]byte, error) {
	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 14)

	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.Text(72, 96, fmt.Sprintf("Contract page %d", i))
		doc.Rect(72, 640, 200, 80, "D")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to build fixture pdf: %w", err)
	}
	return buf.Bytes(), nil
}
