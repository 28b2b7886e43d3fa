// Package docx builds minimal WordprocessingML documents in memory.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

const coreTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <dc:title>{{ .Title }}</dc:title>
  <dc:creator>{{ .Creator }}</dc:creator>
  <dcterms:created xsi:type="dcterms:W3CDTF">{{ .Created | date "2006-01-02T15:04:05Z" }}</dcterms:created>
</cp:coreProperties>`

const documentTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
{{- range .Paragraphs }}
    <w:p><w:r><w:t xml:space="preserve">{{ . }}</w:t></w:r></w:p>
{{- end }}
    <w:sectPr/>
  </w:body>
</w:document>`

type coreProps struct {
	Title   string
	Creator string
	Created time.Time
}

type documentData struct {
	Paragraphs []string
}

// Builder renders text content into a .docx archive.
type Builder struct {
	coreTmpl *template.Template
	docTmpl  *template.Template
	creator  string
}

func NewBuilder(creator string) (*Builder, error) {
	coreTmpl, err := template.New("core").Funcs(sprig.TxtFuncMap()).Parse(coreTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse core properties template: %w", err)
	}
	docTmpl, err := template.New("document").Parse(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document template: %w", err)
	}
	return &Builder{coreTmpl: coreTmpl, docTmpl: docTmpl, creator: creator}, nil
}

// Build produces a .docx file. Each line of text becomes one paragraph,
// blank lines included so spacing survives the round trip.
func (b *Builder) Build(title, text string) ([]byte, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		paragraphs = append(paragraphs, escapeXML(line))
	}

	var docBuf bytes.Buffer
	if err := b.docTmpl.Execute(&docBuf, documentData{Paragraphs: paragraphs}); err != nil {
		return nil, fmt.Errorf("failed to render document body: %w", err)
	}

	var coreBuf bytes.Buffer
	props := coreProps{Title: escapeXML(title), Creator: escapeXML(b.creator), Created: time.Now().UTC()}
	if err := b.coreTmpl.Execute(&coreBuf, props); err != nil {
		return nil, fmt.Errorf("failed to render core properties: %w", err)
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)

	entries := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(relsXML)},
		{"docProps/core.xml", coreBuf.Bytes()},
		{"word/document.xml", docBuf.Bytes()},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry %s: %w", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, fmt.Errorf("failed to write archive entry %s: %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return out.Bytes(), nil
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}
