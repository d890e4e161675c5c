package docextract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// buildPDF writes a minimal PDF with one Helvetica text line per page and a
// correct cross-reference table.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	n := len(pages)
	fontObj := 3 + 2*n
	var objs []string
	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")
	kids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	for i, text := range pages {
		contentObj := 4 + 2*i
		objs = append(objs, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontObj, contentObj))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}
	objs = append(objs, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestExtractPDFConcatenatesPages(t *testing.T) {
	one := buildPDF(t, "Senior Go engineer")
	two := buildPDF(t, "Senior Go engineer", "Kubernetes and Terraform")

	d1, err := Extract("cv.pdf", "application/pdf", one)
	if err != nil {
		t.Fatalf("Extract one page: %v", err)
	}
	d2, err := Extract("cv.pdf", "application/pdf", two)
	if err != nil {
		t.Fatalf("Extract two pages: %v", err)
	}
	if d1.Format != FormatPDF || d2.Pages != 2 {
		t.Fatalf("unexpected docs: %+v / %+v", d1, d2)
	}
	if !strings.Contains(d1.Text, "Senior Go engineer") {
		t.Fatalf("page text missing: %q", d1.Text)
	}
	if !strings.Contains(d2.Text, "Kubernetes and Terraform") {
		t.Fatalf("second page missing: %q", d2.Text)
	}
	if strings.Index(d2.Text, "Senior") > strings.Index(d2.Text, "Kubernetes") {
		t.Fatalf("pages out of order: %q", d2.Text)
	}
	if len(d2.Text) <= len(d1.Text) {
		t.Fatalf("more pages should give more text: %d <= %d", len(d2.Text), len(d1.Text))
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	data := buildPDF(t, "Python", "AWS Lambda")
	a, err := Extract("a.pdf", "", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	b, err := Extract("a.pdf", "", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if a != b {
		t.Fatalf("extraction not deterministic: %+v vs %+v", a, b)
	}
}

func TestExtractDOCX(t *testing.T) {
	data := buildDOCX(t, "Jane Doe", "Data engineer &amp; analyst")
	doc, err := Extract("cv.docx", "", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Format != FormatDOCX {
		t.Fatalf("format=%q", doc.Format)
	}
	if doc.Text != "Jane Doe\nData engineer & analyst" {
		t.Fatalf("text=%q", doc.Text)
	}
}

func TestExtractTXT(t *testing.T) {
	doc, err := Extract("notes.txt", "text/plain; charset=utf-8", []byte("\ufeff  React, TypeScript \n"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Text != "React, TypeScript" || doc.Format != FormatTXT {
		t.Fatalf("unexpected doc: %+v", doc)
	}
}

func TestExtractErrors(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		ct       string
		data     []byte
		reason   string
	}{
		{"empty", "cv.pdf", "application/pdf", nil, ReasonEmpty},
		{"whitespace only", "cv.txt", "text/plain", []byte("  \n\t"), ReasonEmpty},
		{"garbage pdf", "cv.pdf", "application/pdf", []byte("%PDF-1.4\nthis is not a pdf"), ReasonUnreadable},
		{"blank pages", "scan.pdf", "", buildPDF(t, "", ""), ReasonNoText},
		{"unsupported", "photo.png", "image/png", []byte("\x89PNG\r\n\x1a\n"), ReasonUnsupported},
		{"invalid utf8", "cv.txt", "text/plain", []byte{0xff, 0xfe, 0xfd}, ReasonUnreadable},
		{"broken zip", "cv.docx", "", []byte("PK\x03\x04garbage"), ReasonUnreadable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extract(tc.filename, tc.ct, tc.data)
			var xe *ExtractionError
			if !errors.As(err, &xe) {
				t.Fatalf("err=%v, want *ExtractionError", err)
			}
			if xe.Reason != tc.reason {
				t.Fatalf("reason=%q want %q", xe.Reason, tc.reason)
			}
		})
	}
}

func TestDetectPrefersMagicBytes(t *testing.T) {
	if got := Detect("resume.txt", "text/plain", []byte("%PDF-1.7 ...")); got != FormatPDF {
		t.Fatalf("Detect=%q want pdf", got)
	}
	if got := Detect("RESUME.DOCX", "", []byte("hello")); got != FormatDOCX {
		t.Fatalf("Detect=%q want docx", got)
	}
	if got := Detect("resume", "application/octet-stream", []byte("hello")); got != "" {
		t.Fatalf("Detect=%q want empty", got)
	}
}
