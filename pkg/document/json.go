package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ohler55/ojg/oj"
)

// ParseJSON decodes a JSON object into a Document, preserving key order.
func ParseJSON(data []byte) (*Document, error) {
	return DecodeJSON(bytes.NewReader(data))
}

// DecodeJSON reads one JSON object from r into a Document, preserving
// key order. The stdlib token stream is used here because whole-value
// JSON parsers hand back Go maps, which lose ordering.
func DecodeJSON(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode json: expected object, got %v", tok)
	}
	return decodeObject(dec)
}

// DecodeJSONList reads a JSON array of objects from r.
func DecodeJSONList(r io.Reader) ([]*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("decode json: expected array, got %v", tok)
	}
	docs := []*Document{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '{' {
			return nil, fmt.Errorf("decode json: expected object element, got %v", tok)
		}
		doc, err := decodeObject(dec)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return docs, nil
}

// decodeObject consumes tokens after an opening '{' up to and including
// the matching '}'.
func decodeObject(dec *json.Decoder) (*Document, error) {
	doc := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode json: expected key, got %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		doc.Put(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return doc, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			list := []any{}
			for dec.More() {
				elem, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, elem)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("decode json: %w", err)
			}
			return Normalize(list), nil
		}
		return nil, fmt.Errorf("decode json: unexpected delimiter %v", t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("decode json: bad number %q: %w", t.String(), err)
		}
		return f, nil
	default:
		// string, bool, or nil
		return t, nil
	}
}

// MarshalJSON encodes the document with keys in insertion order.
// Leaf values are encoded with ojg, nested containers recursively.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(oj.JSON(k))
		b.WriteByte(':')
		if err := encodeValue(&b, d.values[k]); err != nil {
			return nil, err
		}
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func encodeValue(b *strings.Builder, v any) error {
	switch t := v.(type) {
	case *Document:
		data, err := t.MarshalJSON()
		if err != nil {
			return err
		}
		b.Write(data)
	case []*Document:
		b.WriteByte('[')
		for i, doc := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			data, err := doc.MarshalJSON()
			if err != nil {
				return err
			}
			b.Write(data)
		}
		b.WriteByte(']')
	case []string:
		b.WriteByte('[')
		for i, s := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(oj.JSON(s))
		}
		b.WriteByte(']')
	case [][]string:
		b.WriteByte('[')
		for i, row := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := encodeValue(b, row); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case []any:
		b.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := encodeValue(b, e); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	default:
		b.WriteString(oj.JSON(v))
	}
	return nil
}
