package pdftext

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onePagePDF writes a single page document with one line of Helvetica text and
// a cross-reference table that points at the real object offsets.
func onePagePDF(text string) []byte {
	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buffer bytes.Buffer
	buffer.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for index, object := range objects {
		offsets[index] = buffer.Len()
		fmt.Fprintf(&buffer, "%d 0 obj\n%s\nendobj\n", index+1, object)
	}
	xref := buffer.Len()
	fmt.Fprintf(&buffer, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, offset := range offsets {
		fmt.Fprintf(&buffer, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buffer, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buffer.Bytes()
}

func TestExtractTextReadsPageText(t *testing.T) {
	t.Parallel()

	text, err := Extractor{}.ExtractText(onePagePDF("Ada Lovelace Analyst"))
	require.NoError(t, err)
	assert.Contains(t, text, "Ada Lovelace")
}

func TestExtractTextRejectsGarbage(t *testing.T) {
	t.Parallel()

	for name, content := range map[string][]byte{
		"empty":     {},
		"plain":     []byte("this is not a pdf"),
		"truncated": onePagePDF("Ada")[:40],
	} {
		_, err := Extractor{}.ExtractText(content)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrUnreadable, name)
	}
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ada Lovelace\nAnalyst", clean("  Ada   Lovelace \n\n\tAnalyst \n"))
}
