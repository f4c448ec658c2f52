package subst

import (
	"strings"

	"github.com/getsubst/subst/pkg/coerce"
	"github.com/getsubst/subst/pkg/document"
)

// ErrShapeUnspecified is returned by the scalar entry points when no
// target shape was chosen. Re-exported so callers need not import
// pkg/coerce just to classify the error.
var ErrShapeUnspecified = coerce.ErrShapeUnspecified

// Engine performs placeholder substitution. It is stateless apart from
// the injected global scope handle and is safe for concurrent use.
type Engine struct {
	globals GlobalScope
}

// New creates an engine backed by the given global scope. A nil globals
// handle is allowed; global lookups then always miss.
func New(globals GlobalScope) *Engine {
	return &Engine{globals: globals}
}

// Substitute resolves the placeholders in template and returns a value
// of the requested shape.
//
// When the whole template is a single placeholder the resolved value is
// coerced to the target shape, so "%n%" can produce an int64. If the
// key exists but resolves to nil, def (coerced) stands in; if the key
// does not exist at all, the entire original template text is coerced
// instead.
//
// Otherwise each embedded placeholder is replaced by its resolved text,
// the default text, or its own literal %key% token, in that order of
// preference. Embedded composition only makes sense as text: any other
// target shape yields nil.
func (e *Engine) Substitute(template string, shape coerce.Shape, def any, sel Selector, scopes ...*document.Document) (any, error) {
	if shape == coerce.ShapeUnspecified {
		return nil, coerce.ErrShapeUnspecified
	}
	return e.substituteString(template, shape, def, sel, scopes)
}

// SubstituteList applies Substitute to each element, preserving order
// and length. A nil list returns nil.
func (e *Engine) SubstituteList(list []string, shape coerce.Shape, def any, sel Selector, scopes ...*document.Document) ([]any, error) {
	if list == nil {
		return nil, nil
	}
	if shape == coerce.ShapeUnspecified {
		return nil, coerce.ErrShapeUnspecified
	}
	out := make([]any, len(list))
	for i, s := range list {
		v, err := e.substituteString(s, shape, def, sel, scopes)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// SubstituteTable applies SubstituteList to each row.
func (e *Engine) SubstituteTable(table [][]string, shape coerce.Shape, def any, sel Selector, scopes ...*document.Document) ([][]any, error) {
	if table == nil {
		return nil, nil
	}
	if shape == coerce.ShapeUnspecified {
		return nil, coerce.ErrShapeUnspecified
	}
	out := make([][]any, len(table))
	for i, row := range table {
		cells, err := e.SubstituteList(row, shape, def, sel, scopes...)
		if err != nil {
			return nil, err
		}
		out[i] = cells
	}
	return out, nil
}

// SubstituteDocument substitutes every value of doc and returns a fresh
// document with the same key order. String, string-list, and
// string-table values are substituted unconditionally; nested documents
// and document lists only when recurse is set, using the same scopes as
// the parent call. Keys whose transformed value is nil are omitted
// unless includeNulls is set.
//
// With no scopes the document substitutes against itself, so values can
// reference sibling keys. A nil doc returns nil. Any conversion error
// aborts the whole call; no partial document is returned.
func (e *Engine) SubstituteDocument(doc *document.Document, def any, recurse, includeNulls bool, sel Selector, scopes ...*document.Document) (*document.Document, error) {
	if doc == nil {
		return nil, nil
	}
	if len(scopes) == 0 {
		scopes = []*document.Document{doc}
	}

	out := document.New()
	for key, value := range doc.All() {
		v := value
		if v != nil {
			var err error
			switch document.KindOf(v) {
			case document.KindDocument:
				if recurse {
					v, err = e.SubstituteDocument(v.(*document.Document), def, recurse, includeNulls, sel, scopes...)
				}
			case document.KindDocumentList:
				if recurse {
					v, err = e.SubstituteDocuments(v.([]*document.Document), def, recurse, includeNulls, sel, scopes...)
				}
			case document.KindString:
				v, err = e.substituteString(v.(string), coerce.ShapeString, def, sel, scopes)
			case document.KindStringList:
				v, err = e.substituteElements(v.([]string), def, sel, scopes)
			case document.KindStringTable:
				v, err = e.substituteRows(v.([][]string), def, sel, scopes)
			case document.KindOther:
				// Non-template value; passes through untouched.
			}
			if err != nil {
				return nil, err
			}
		}
		if !isNil(v) || includeNulls {
			out.Put(key, v)
		}
	}
	return out, nil
}

// SubstituteDocuments applies SubstituteDocument element-wise, order
// and length preserved.
func (e *Engine) SubstituteDocuments(docs []*document.Document, def any, recurse, includeNulls bool, sel Selector, scopes ...*document.Document) ([]*document.Document, error) {
	if docs == nil {
		return nil, nil
	}
	out := make([]*document.Document, len(docs))
	for i, doc := range docs {
		sub, err := e.SubstituteDocument(doc, def, recurse, includeNulls, sel, scopes...)
		if err != nil {
			return nil, err
		}
		out[i] = sub
	}
	return out, nil
}

// substituteString implements the scalar algorithm shared by every
// entry point. shape is already validated.
func (e *Engine) substituteString(template string, shape coerce.Shape, def any, sel Selector, scopes []*document.Document) (any, error) {
	if key, ok := MatchWhole(template); ok {
		if !e.exists(key, sel, scopes) {
			// Whole-template miss: the entire original text stands in,
			// not a per-placeholder literal.
			return coerce.Coerce(template, shape)
		}
		raw, _ := e.resolve(key, sel, scopes)
		out, err := coerce.Coerce(raw, shape)
		if err != nil {
			return nil, err
		}
		return coerce.ApplyDefault(out, def, shape)
	}

	if shape != coerce.ShapeString {
		return nil, nil
	}

	var b strings.Builder
	last := 0
	for span := range ScanAll(template) {
		b.WriteString(template[last:span.Start])
		switch raw, _ := e.resolve(span.Key, sel, scopes); {
		case raw != nil:
			text, err := coerce.Coerce(raw, coerce.ShapeString)
			if err != nil {
				return nil, err
			}
			b.WriteString(text.(string))
		case def != nil:
			text, err := coerce.Coerce(def, coerce.ShapeString)
			if err != nil {
				return nil, err
			}
			b.WriteString(text.(string))
		default:
			// Unresolved embedded placeholder stays verbatim,
			// delimiters included.
			b.WriteString(template[span.Start:span.End])
		}
		last = span.End
	}
	b.WriteString(template[last:])
	return b.String(), nil
}

// substituteElements substitutes a string list inside a document,
// narrowing the result back to []string when no element resolved to
// nil.
func (e *Engine) substituteElements(list []string, def any, sel Selector, scopes []*document.Document) (any, error) {
	out := make([]any, len(list))
	for i, s := range list {
		v, err := e.substituteString(s, coerce.ShapeString, def, sel, scopes)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return document.Normalize(out), nil
}

func (e *Engine) substituteRows(table [][]string, def any, sel Selector, scopes []*document.Document) (any, error) {
	out := make([]any, len(table))
	for i, row := range table {
		cells, err := e.substituteElements(row, def, sel, scopes)
		if err != nil {
			return nil, err
		}
		out[i] = cells
	}
	return document.Normalize(out), nil
}

// isNil treats typed nil documents and document lists like nil so the
// includeNulls rule sees them as absent values.
func isNil(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case *document.Document:
		return t == nil
	case []*document.Document:
		return t == nil
	default:
		return false
	}
}
