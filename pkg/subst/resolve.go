package subst

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/getsubst/subst/pkg/document"
)

// Selector chooses which scopes are eligible when resolving a key.
type Selector int

const (
	// SelectAll consults local scopes first, then the global scope.
	SelectAll Selector = iota
	// SelectLocal consults only the per-call local scopes.
	SelectLocal
	// SelectGlobal consults only the global scope.
	SelectGlobal
)

// String returns the selector name as accepted by ParseSelector.
func (s Selector) String() string {
	switch s {
	case SelectLocal:
		return "local"
	case SelectGlobal:
		return "global"
	default:
		return "all"
	}
}

// ParseSelector parses a selector name, case-insensitively. The empty
// string normalizes to SelectAll.
func ParseSelector(name string) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return SelectAll, nil
	case "local":
		return SelectLocal, nil
	case "global":
		return SelectGlobal, nil
	default:
		return SelectAll, fmt.Errorf("unknown scope selector %q", name)
	}
}

// GlobalScope is the process-wide variable store consulted after local
// scopes miss. Implementations must be safe for concurrent access;
// vars.Store satisfies this interface.
type GlobalScope interface {
	Exists(key string) bool
	Lookup(key string) (any, bool)
}

// exists reports whether key is resolvable under the selector. A scope
// has a key even when the mapped value is nil.
func (e *Engine) exists(key string, sel Selector, scopes []*document.Document) bool {
	_, ok := e.resolve(key, sel, scopes)
	return ok
}

// resolve walks the eligible scopes in order and returns the first hit.
// Local scopes always shadow the global scope under SelectAll.
func (e *Engine) resolve(key string, sel Selector, scopes []*document.Document) (any, bool) {
	path := pathExpr(key)

	if sel == SelectAll || sel == SelectLocal {
		for _, scope := range scopes {
			if v, ok := scope.Get(key); ok {
				return v, true
			}
			if path != nil {
				if results := path.Get(scope.Map()); len(results) > 0 {
					return results[0], true
				}
			}
		}
	}

	if sel == SelectAll || sel == SelectGlobal {
		if e.globals != nil {
			if v, ok := e.globals.Lookup(key); ok {
				return v, true
			}
			if path != nil {
				if snap, ok := e.globals.(interface{ Snapshot() map[string]any }); ok {
					if results := path.Get(snap.Snapshot()); len(results) > 0 {
						return results[0], true
					}
				}
			}
		}
	}

	return nil, false
}

// pathExpr parses keys of the form "$.a.b[0]" as JSONPath. Plain keys
// and malformed expressions return nil and fall back to direct lookup.
func pathExpr(key string) jp.Expr {
	if !strings.HasPrefix(key, "$") {
		return nil
	}
	expr, err := jp.ParseString(key)
	if err != nil {
		return nil
	}
	return expr
}
