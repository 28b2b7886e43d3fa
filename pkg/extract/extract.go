// Package extract pulls plain text out of uploaded documents.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"regexp"
	"strings"

	apperrors "github.com/translationhub/server/internal/errors"
)

var (
	pdfTextRe  = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)\s*Tj`)
	xmlTagRe   = regexp.MustCompile(`<[^>]+>`)
	wParaRe    = regexp.MustCompile(`</w:p>`)
	pdfEscapes = strings.NewReplacer(`\(`, "(", `\)`, ")", `\\`, `\`, `\n`, "\n", `\r`, "", `\t`, "\t")
)

// FromDataURI decodes a base64 payload (bare or data-URI form), sniffs the
// format, and returns the contained text. PDF extraction is best effort and
// only covers uncompressed text streams.
func FromDataURI(uri string) (string, error) {
	payload := uri
	if idx := strings.Index(uri, ";base64,"); idx >= 0 {
		payload = uri[idx+len(";base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInvalidInput, err)
	}

	switch {
	case bytes.HasPrefix(raw, []byte("%PDF")):
		return fromPDF(raw)
	case bytes.HasPrefix(raw, []byte("PK")):
		return fromDocx(raw)
	default:
		if !isProbablyText(raw) {
			return "", apperrors.ErrUnsupportedFile
		}
		return string(bytes.TrimSpace(raw)), nil
	}
}

func fromPDF(raw []byte) (string, error) {
	matches := pdfTextRe.FindAllSubmatch(raw, -1)
	if len(matches) == 0 {
		return "", apperrors.ErrUnsupportedFile
	}

	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString(pdfEscapes.Replace(string(m[1])))
		sb.WriteByte(' ')
	}
	return strings.TrimSpace(sb.String()), nil
}

func fromDocx(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrUnsupportedFile, err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", apperrors.WrapError(apperrors.ErrUnsupportedFile, err)
		}
		var buf bytes.Buffer
		_, copyErr := buf.ReadFrom(rc)
		rc.Close()
		if copyErr != nil {
			return "", apperrors.WrapError(apperrors.ErrUnsupportedFile, copyErr)
		}

		// Paragraph closes become newlines, then tags are stripped.
		text := wParaRe.ReplaceAllString(buf.String(), "\n")
		text = xmlTagRe.ReplaceAllString(text, "")
		text = strings.ReplaceAll(text, "&amp;", "&")
		text = strings.ReplaceAll(text, "&lt;", "<")
		text = strings.ReplaceAll(text, "&gt;", ">")
		text = strings.ReplaceAll(text, "&quot;", `"`)
		text = strings.ReplaceAll(text, "&apos;", "'")
		return strings.TrimSpace(text), nil
	}

	return "", apperrors.ErrUnsupportedFile
}

func isProbablyText(raw []byte) bool {
	if len(raw) == 0 {
		return false
	}
	sample := raw
	if len(sample) > 512 {
		sample = sample[:512]
	}
	control := 0
	for _, b := range sample {
		if b == 0 {
			return false
		}
		if b < 0x09 || (b > 0x0d && b < 0x20) {
			control++
		}
	}
	return control*20 < len(sample)
}
