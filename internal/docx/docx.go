// Package docx reads and writes the small slice of OOXML this application
// needs: loading a .docx container, locating a placeholder paragraph in the
// document body and splicing in generated content.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

const bodyEntry = "word/document.xml"

// Document is a .docx container held in memory. Entry order is preserved so
// a saved copy keeps the original layout.
type Document struct {
	names []string
	files map[string][]byte
}

// Open reads a .docx file from disk.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return Parse(data)
}

// Parse loads a .docx container from raw bytes.
func Parse(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx container: %w", err)
	}

	d := &Document{files: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
		}
		d.names = append(d.names, f.Name)
		d.files[f.Name] = content
	}

	if _, ok := d.files[bodyEntry]; !ok {
		return nil, fmt.Errorf("not a docx document: missing %s", bodyEntry)
	}
	return d, nil
}

// Body returns the raw XML of the document body part.
func (d *Document) Body() []byte {
	return d.files[bodyEntry]
}

// SetBody replaces the document body part.
func (d *Document) SetBody(body []byte) {
	d.files[bodyEntry] = body
}

// WriteTo serializes the container, keeping the original entry order.
func (d *Document) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, name := range d.names {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("create entry %s: %w", name, err)
		}
		if _, err := fw.Write(d.files[name]); err != nil {
			return fmt.Errorf("write entry %s: %w", name, err)
		}
	}
	return zw.Close()
}

// Save writes the document to a new file. The source template is never
// mutated on disk.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := d.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
