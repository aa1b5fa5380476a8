// Package fsmfile reads and writes diagram documents and converts them to
// and from other automaton formats.
package fsmfile

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/fsm-draw/pkg/diagram"
)

// Format is an on-disk document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"

	// FormatArchive is a zip holding diagram.yaml and layout.toml.
	FormatArchive Format = "fsmd"
)

// ErrUnsupportedFormat is returned for file extensions and formats the
// package cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Archive member names.
const (
	archiveDiagram = "diagram.yaml"
	archiveLayout  = "layout.toml"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".fsmd":
		return FormatArchive, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// ParseFormat converts a format name, as given on a command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatArchive:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
}

// ReadDocument decodes a document from r.
func ReadDocument(r io.Reader, format Format) (diagram.Document, error) {
	var d diagram.Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&d); err != nil {
			return d, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return d, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatArchive:
		data, err := io.ReadAll(r)
		if err != nil {
			return d, err
		}
		return readArchive(data)
	default:
		return d, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	return d, nil
}

// WriteDocument encodes d to w.
func WriteDocument(w io.Writer, d diagram.Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case FormatArchive:
		return writeArchive(w, d)
	}
	return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
}

// ReadFile reads a document, choosing the format from the extension.
func ReadFile(path string) (diagram.Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return diagram.Document{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return diagram.Document{}, err
	}
	defer file.Close()

	d, err := ReadDocument(file, format)
	if err != nil {
		return d, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// WriteFile writes a document, choosing the format from the extension.
// The file is replaced atomically.
func WriteFile(path string, d diagram.Document) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := WriteDocument(&buf, d, format); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func writeArchive(w io.Writer, d diagram.Document) error {
	zw := zip.NewWriter(w)

	dw, err := zw.Create(archiveDiagram)
	if err != nil {
		return err
	}
	if err := WriteDocument(dw, d, FormatYAML); err != nil {
		return err
	}

	lw, err := zw.Create(archiveLayout)
	if err != nil {
		return err
	}
	if err := GenerateLayout(lw, NewLayout(d, EditorMeta{})); err != nil {
		return err
	}

	return zw.Close()
}

func readArchive(data []byte) (diagram.Document, error) {
	var d diagram.Document
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return d, err
	}

	var diagramData, layoutData []byte
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return d, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return d, err
		}
		switch f.Name {
		case archiveDiagram:
			diagramData = content
		case archiveLayout:
			layoutData = content
		}
	}

	if diagramData == nil {
		return d, fmt.Errorf("%s not found in archive", archiveDiagram)
	}
	d, err = ReadDocument(bytes.NewReader(diagramData), FormatYAML)
	if err != nil {
		return d, err
	}
	if layoutData != nil {
		l, err := ParseLayout(layoutData)
		if err != nil {
			return d, err
		}
		l.Apply(&d)
	}
	return d, nil
}
