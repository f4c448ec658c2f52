// Package subst performs dynamic placeholder substitution on strings
// and structured documents.
//
// Templates mark variables with percent delimiters: %key%. The engine
// resolves each key against an ordered list of caller-supplied local
// scopes and, depending on the selector, a process-wide global scope,
// then rebuilds the template with the resolved values.
//
// # Whole-template vs. embedded placeholders
//
// A template that consists of exactly one placeholder can produce a
// typed value:
//
//	engine.Substitute("%port%", coerce.ShapeInt, nil, subst.SelectAll, scope)
//
// returns int64(8080) when the scope maps "port" to "8080". A template
// with placeholders embedded in surrounding text always composes back
// into a string:
//
//	engine.Substitute("Hello %name%!", coerce.ShapeString, nil, subst.SelectAll, scope)
//
// The two modes fall back differently when a key cannot be resolved: a
// whole-template miss coerces the entire original template text, while
// an embedded miss leaves that one placeholder, delimiters included,
// verbatim. Both behaviors are long-standing contract and are kept
// deliberately asymmetric.
//
// # Documents
//
// SubstituteDocument walks an ordered document, substituting string,
// string-list, and string-table values unconditionally and nested
// documents only when recurse is enabled. Keys whose values resolve to
// nil are dropped from the output unless includeNulls is set. When no
// scopes are supplied the document resolves against its own top-level
// keys, so documents can reference themselves:
//
//	{"host": "db1", "url": "tcp://%host%:5432"}
//
// # Scopes and selectors
//
// Local scopes are consulted in the order given; the first scope that
// has the key wins, even when the mapped value is nil. The global scope
// is consulted only after every local scope misses, and only under
// SelectAll or SelectGlobal. Keys beginning with "$" are treated as
// JSONPath expressions and evaluated against each scope in turn.
//
// Inputs are never mutated; every substitution builds a fresh output.
package subst
