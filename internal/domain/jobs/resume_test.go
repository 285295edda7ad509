package jobs

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
)

func pdfBytes() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
}

func newUpload(name string, data []byte) *ResumeUpload {
	return &ResumeUpload{Filename: name, Size: int64(len(data)), Content: bytes.NewReader(data)}
}

func TestInspectResumeAcceptsPDF(t *testing.T) {
	t.Parallel()

	upload := newUpload("cv.pdf", pdfBytes())

	inspected, err := inspectResume(upload, 1024)
	if err != nil {
		t.Fatalf("inspectResume returned error: %v", err)
	}

	if inspected.contentType != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", inspected.contentType)
	}

	if inspected.extension != ".pdf" {
		t.Fatalf("expected .pdf extension, got %q", inspected.extension)
	}

	// Detection must leave the reader rewound for storage.
	data, err := io.ReadAll(upload.Content)
	if err != nil {
		t.Fatalf("reading upload failed: %v", err)
	}
	if !bytes.Equal(data, pdfBytes()) {
		t.Fatalf("expected full content after inspection")
	}
}

func TestInspectResumeAcceptsPlainText(t *testing.T) {
	t.Parallel()

	inspected, err := inspectResume(newUpload("resume.txt", []byte("Ada Lovelace\nAnalytical engines\n")), 1024)
	if err != nil {
		t.Fatalf("inspectResume returned error: %v", err)
	}

	if inspected.contentType != "text/plain" {
		t.Fatalf("expected text/plain, got %q", inspected.contentType)
	}
}

func TestInspectResumeRequiresFile(t *testing.T) {
	t.Parallel()

	for _, upload := range []*ResumeUpload{nil, {Filename: "cv.pdf"}, newUpload("cv.pdf", nil)} {
		if _, err := inspectResume(upload, 1024); !eris.Is(err, ErrResumeRequired) {
			t.Fatalf("expected ErrResumeRequired, got %v", err)
		}
	}
}

func TestInspectResumeRejectsLargeFile(t *testing.T) {
	t.Parallel()

	_, err := inspectResume(newUpload("cv.pdf", pdfBytes()), 10)
	if !eris.Is(err, ErrInvalidResume) {
		t.Fatalf("expected ErrInvalidResume, got %v", err)
	}

	if !strings.Contains(err.Error(), "exceeds limit") {
		t.Fatalf("expected size message, got %v", err)
	}
}

func TestInspectResumeRejectsDisallowedType(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
	_, err := inspectResume(newUpload("cv.pdf", png), 1024)
	if !eris.Is(err, ErrInvalidResume) {
		t.Fatalf("expected ErrInvalidResume, got %v", err)
	}
}

func TestCleanFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "cv.pdf", want: "cv.pdf"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: `C:\Users\ada\cv.pdf`, want: "cv.pdf"},
		{in: "we\"ird\n.pdf", want: "weird.pdf"},
		{in: "", want: "resume.pdf"},
	}

	for _, tt := range tests {
		if got := cleanFilename(tt.in, ".pdf"); got != tt.want {
			t.Fatalf("cleanFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
