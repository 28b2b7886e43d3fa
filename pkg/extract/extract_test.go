package extract

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/translationhub/server/internal/errors"
	"github.com/translationhub/server/pkg/docx"
)

func TestFromDataURIPlainText(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello world\n"))

	tests := []struct {
		name string
		uri  string
	}{
		{"bare base64", payload},
		{"data uri", "data:text/plain;base64," + payload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := FromDataURI(tt.uri)
			if err != nil {
				t.Fatalf("FromDataURI failed: %v", err)
			}
			if text != "hello world" {
				t.Errorf("Expected trimmed text, got %q", text)
			}
		})
	}
}

func TestFromDataURIDocx(t *testing.T) {
	builder, err := docx.NewBuilder("test")
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	data, err := builder.Build("title", "first paragraph\nsecond paragraph")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	text, err := FromDataURI(base64.StdEncoding.EncodeToString(data))
	if err != nil {
		t.Fatalf("FromDataURI failed: %v", err)
	}
	if !strings.Contains(text, "first paragraph") || !strings.Contains(text, "second paragraph") {
		t.Errorf("Expected both paragraphs, got %q", text)
	}
	if strings.Contains(text, "<w:") {
		t.Errorf("Markup leaked into extracted text: %q", text)
	}
}

func TestFromDataURIPDF(t *testing.T) {
	// Minimal uncompressed content stream.
	pdf := "%PDF-1.4\n1 0 obj\nstream\nBT (Hello) Tj (World) Tj ET\nendstream\nendobj\n%%EOF"

	text, err := FromDataURI(base64.StdEncoding.EncodeToString([]byte(pdf)))
	if err != nil {
		t.Fatalf("FromDataURI failed: %v", err)
	}
	if text != "Hello World" {
		t.Errorf("Expected %q, got %q", "Hello World", text)
	}
}

func TestFromDataURIPDFEscapes(t *testing.T) {
	pdf := `%PDF-1.4 (a\(b\)c) Tj`

	text, err := FromDataURI(base64.StdEncoding.EncodeToString([]byte(pdf)))
	if err != nil {
		t.Fatalf("FromDataURI failed: %v", err)
	}
	if text != "a(b)c" {
		t.Errorf("Expected unescaped parens, got %q", text)
	}
}

func TestFromDataURIErrors(t *testing.T) {
	binary := append([]byte{0x00, 0x01, 0x02, 0xff}, make([]byte, 64)...)

	tests := []struct {
		name    string
		uri     string
		wantErr error
	}{
		{"invalid base64", "!!!not-base64!!!", apperrors.ErrInvalidInput},
		{"binary garbage", base64.StdEncoding.EncodeToString(binary), apperrors.ErrUnsupportedFile},
		{"pdf without text", base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 nothing here")), apperrors.ErrUnsupportedFile},
		{"zip without document", base64.StdEncoding.EncodeToString([]byte("PK\x03\x04 not a real zip")), apperrors.ErrUnsupportedFile},
		{"empty payload", base64.StdEncoding.EncodeToString(nil), apperrors.ErrUnsupportedFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromDataURI(tt.uri)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
