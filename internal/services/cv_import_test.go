package services

import (
	"errors"
	"strings"
	"testing"
)

type stubPDFText struct {
	text     string
	err      error
	received []byte
}

func (stub *stubPDFText) ExtractText(content []byte) (string, error) {
	stub.received = content
	return stub.text, stub.err
}

func TestCVImportExtractsPDFText(t *testing.T) {
	t.Parallel()

	extractor := &stubPDFText{text: "Ada Lovelace\nAnalyst"}
	service := NewCVImportService(extractor, 64)

	text, err := service.ExtractText("Ada CV.PDF", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "Ada Lovelace\nAnalyst" || string(extractor.received) != "%PDF-1.4 fake" {
		t.Fatalf("unexpected text %q from %q", text, extractor.received)
	}
}

func TestCVImportRejectsUnusableFiles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		filename  string
		body      string
		extractor *stubPDFText
		want      error
	}{
		{name: "not a pdf", filename: "cv.docx", body: "x", extractor: &stubPDFText{text: "x"}, want: ErrCVUnreadable},
		{name: "too large", filename: "cv.pdf", body: strings.Repeat("x", 65), extractor: &stubPDFText{text: "x"}, want: ErrDocumentTooLarge},
		{name: "parser failure", filename: "cv.pdf", body: "x", extractor: &stubPDFText{err: errors.New("bad xref")}, want: ErrCVUnreadable},
		{name: "scanned", filename: "cv.pdf", body: "x", extractor: &stubPDFText{text: "  \n"}, want: ErrCVUnreadable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := NewCVImportService(tc.extractor, 64)
			if _, err := service.ExtractText(tc.filename, strings.NewReader(tc.body)); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
