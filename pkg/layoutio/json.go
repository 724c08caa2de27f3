package layoutio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/einkplacer/pkg/element"
	"github.com/matzehuels/einkplacer/pkg/errors"
)

// WriteJSON encodes records as an indented {"elements": [...]} document.
func WriteJSON(w io.Writer, records []Record) error {
	return WriteDocument(w, &Document{Elements: records})
}

// WriteDocument encodes doc with two-space indentation.
func WriteDocument(w io.Writer, doc *Document) error {
	if doc.Elements == nil {
		doc.Elements = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a layout from r. Both a bare array of records and a
// {"elements": [...]} document are accepted; metadata, if present, is
// returned on the document.
func ReadJSON(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidLayout, "empty layout")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "read layout")
	}

	var doc Document
	switch first {
	case '[':
		err = json.NewDecoder(br).Decode(&doc.Elements)
	case '{':
		err = json.NewDecoder(br).Decode(&doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidLayout, "layout must be a JSON array or object, got %q", first)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode layout")
	}
	return &doc, nil
}

// Unmarshal decodes a layout held in memory. See [ReadJSON].
func Unmarshal(data []byte) (*Document, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportFile reads a device-space layout file.
func ImportFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ExportFile writes records to path as a layout document.
func ExportFile(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, records)
}

// workspace is the on-disk form of a layout in display space.
type workspace struct {
	Elements []element.Element `json:"elements"`
}

// WriteElements encodes display-space elements as {"elements": [...]}.
func WriteElements(w io.Writer, elements []element.Element) error {
	if elements == nil {
		elements = []element.Element{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(workspace{Elements: elements}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadElements decodes display-space elements written by [WriteElements].
// A bare array is accepted too. Missing values are defaulted.
func ReadElements(r io.Reader) ([]element.Element, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "read elements")
	}

	var ws workspace
	switch first {
	case '[':
		err = json.NewDecoder(br).Decode(&ws.Elements)
	case '{':
		err = json.NewDecoder(br).Decode(&ws)
	default:
		return nil, errors.New(errors.ErrCodeInvalidLayout, "elements must be a JSON array or object, got %q", first)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode elements")
	}
	for i, e := range ws.Elements {
		ws.Elements[i] = e.Normalize()
	}
	return ws.Elements, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b, br.UnreadByte()
	}
}
