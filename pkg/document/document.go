package document

import "iter"

// Document is a keyed document with insertion-ordered keys.
// Putting an existing key replaces its value in place; putting a new key
// appends it. Iteration and encoding always follow key order.
//
// A Document is not safe for concurrent mutation; the substitution
// engine treats documents handed to it as read-only.
type Document struct {
	keys   []string
	values map[string]any
}

// New creates an empty document.
func New() *Document {
	return &Document{values: make(map[string]any)}
}

// Len returns the number of keys.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Has reports whether key is present, even when its value is nil.
func (d *Document) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.values[key]
	return ok
}

// Get returns the value for key and whether the key is present.
func (d *Document) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Value returns the value for key, or nil when absent.
func (d *Document) Value(key string) any {
	v, _ := d.Get(key)
	return v
}

// Put sets key to value, appending the key if it is new.
func (d *Document) Put(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Delete removes key, preserving the order of the remaining keys.
func (d *Document) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The slice is a copy.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// All iterates over (key, value) pairs in insertion order.
func (d *Document) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if d == nil {
			return
		}
		for _, k := range d.keys {
			if !yield(k, d.values[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy. Nested documents, document lists, string
// lists and tables are copied; other values are shared.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := New()
	for k, v := range d.All() {
		out.Put(k, cloneValue(v))
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Document:
		return t.Clone()
	case []*Document:
		out := make([]*Document, len(t))
		for i, d := range t {
			out[i] = d.Clone()
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case [][]string:
		out := make([][]string, len(t))
		for i, row := range t {
			out[i] = make([]string, len(row))
			copy(out[i], row)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Map projects the document onto plain map/slice types, for consumers
// that don't care about key order (JSONPath evaluation, YAML round
// trips through third-party tools). Key order is lost.
func (d *Document) Map() map[string]any {
	if d == nil {
		return nil
	}
	out := make(map[string]any, len(d.keys))
	for k, v := range d.All() {
		out[k] = mapValue(v)
	}
	return out
}

func mapValue(v any) any {
	switch t := v.(type) {
	case *Document:
		return t.Map()
	case []*Document:
		out := make([]any, len(t))
		for i, d := range t {
			out[i] = d.Map()
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = mapValue(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two documents have the same keys in the same
// order with equal values.
func (d *Document) Equal(other *Document) bool {
	if d.Len() != other.Len() {
		return false
	}
	if d == nil || other == nil {
		return d.Len() == other.Len()
	}
	for i, k := range d.keys {
		if other.keys[i] != k {
			return false
		}
		if !valueEqual(d.values[k], other.values[k]) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	ad, aok := a.(*Document)
	bd, bok := b.(*Document)
	if aok || bok {
		return aok && bok && ad.Equal(bd)
	}
	al, alok := a.([]*Document)
	bl, blok := b.([]*Document)
	if alok || blok {
		if !alok || !blok || len(al) != len(bl) {
			return false
		}
		for i := range al {
			if !al[i].Equal(bl[i]) {
				return false
			}
		}
		return true
	}
	switch at := a.(type) {
	case []string:
		bt, ok := b.([]string)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if at[i] != bt[i] {
				return false
			}
		}
		return true
	case [][]string:
		bt, ok := b.([][]string)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !valueEqual(at[i], bt[i]) {
				return false
			}
		}
		return true
	case []any:
		bt, ok := b.([]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !valueEqual(at[i], bt[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
