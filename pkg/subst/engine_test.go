package subst

import (
	"errors"
	"testing"

	"github.com/getsubst/subst/pkg/coerce"
	"github.com/getsubst/subst/pkg/document"
	"github.com/getsubst/subst/pkg/vars"
)

func scopeOf(pairs ...any) *document.Document {
	doc := document.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		doc.Put(pairs[i].(string), pairs[i+1])
	}
	return doc
}

// =============================================================================
// Scalar Substitution Tests
// =============================================================================

func TestSubstituteIdentity(t *testing.T) {
	engine := New(nil)

	tests := []string{
		"",
		"plain text",
		"100% organic",
		"unclosed %token",
	}
	for _, template := range tests {
		result, err := engine.Substitute(template, coerce.ShapeString, nil, SelectAll, scopeOf("k", "v"))
		if err != nil {
			t.Fatalf("Substitute(%q) error = %v", template, err)
		}
		if result != template {
			t.Errorf("Substitute(%q) = %v, want unchanged", template, result)
		}
	}
}

func TestSubstituteWholeMatch(t *testing.T) {
	engine := New(nil)

	result, err := engine.Substitute("%name%", coerce.ShapeString, nil, SelectAll, scopeOf("name", "amy"))
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if result != "amy" {
		t.Errorf("result = %v, want amy", result)
	}
}

func TestSubstituteWholeMatchTyped(t *testing.T) {
	engine := New(nil)

	result, err := engine.Substitute("%n%", coerce.ShapeInt, nil, SelectAll, scopeOf("n", "42"))
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if n, ok := result.(int64); !ok || n != 42 {
		t.Errorf("result = %v (%T), want int64(42)", result, result)
	}
}

func TestSubstituteWholeMatchMissingKey(t *testing.T) {
	engine := New(nil)

	// A whole-template miss coerces the entire original text.
	result, err := engine.Substitute("%missing%", coerce.ShapeString, nil, SelectAll, scopeOf())
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if result != "%missing%" {
		t.Errorf("result = %v, want %%missing%%", result)
	}
}

func TestSubstituteWholeMatchMissingKeyIgnoresDefault(t *testing.T) {
	engine := New(nil)

	// The default applies only when the key exists with a nil value,
	// not when the key is absent.
	result, err := engine.Substitute("%missing%", coerce.ShapeString, "dflt", SelectAll, scopeOf())
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if result != "%missing%" {
		t.Errorf("result = %v, want %%missing%%", result)
	}
}

func TestSubstituteWholeMatchNullValueUsesDefault(t *testing.T) {
	engine := New(nil)

	result, err := engine.Substitute("%k%", coerce.ShapeString, "dflt", SelectAll, scopeOf("k", nil))
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if result != "dflt" {
		t.Errorf("result = %v, want dflt", result)
	}
}

func TestSubstituteEmbedded(t *testing.T) {
	engine := New(nil)

	tests := []struct {
		name     string
		template string
		scope    *document.Document
		def      any
		want     string
	}{
		{"resolved", "Hello %name%!", scopeOf("name", "amy"), nil, "Hello amy!"},
		{"missing no default", "Hello %name%!", scopeOf(), nil, "Hello %name%!"},
		{"missing with default", "Hello %name%!", scopeOf(), "you", "Hello you!"},
		{"mixed", "%a%-%b%", scopeOf("a", "1"), nil, "1-%b%"},
		{"numeric value", "port=%port%", scopeOf("port", int64(8080)), nil, "port=8080"},
		{"replacement with metacharacters", "v=%v%", scopeOf("v", "$1\\2"), nil, "v=$1\\2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Substitute(tt.template, coerce.ShapeString, tt.def, SelectAll, tt.scope)
			if err != nil {
				t.Fatalf("Substitute() error = %v", err)
			}
			if result != tt.want {
				t.Errorf("result = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestSubstituteEmbeddedNonTextShape(t *testing.T) {
	engine := New(nil)

	// Embedded placeholders compose into text only; any other target
	// shape yields nil.
	result, err := engine.Substitute("n=%n%", coerce.ShapeInt, nil, SelectAll, scopeOf("n", "1"))
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if result != nil {
		t.Errorf("result = %v, want nil", result)
	}
}

func TestSubstituteShapeRequired(t *testing.T) {
	engine := New(nil)

	_, err := engine.Substitute("%k%", coerce.ShapeUnspecified, nil, SelectAll, scopeOf("k", "v"))
	if !errors.Is(err, coerce.ErrShapeUnspecified) {
		t.Errorf("error = %v, want ErrShapeUnspecified", err)
	}
}

func TestSubstituteConversionError(t *testing.T) {
	engine := New(nil)

	_, err := engine.Substitute("%k%", coerce.ShapeInt, nil, SelectAll, scopeOf("k", "not a number"))
	var convErr *coerce.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("error = %v, want *coerce.ConversionError", err)
	}
}

// =============================================================================
// Scope Precedence Tests
// =============================================================================

func TestScopePrecedence(t *testing.T) {
	globals := vars.New()
	globals.Set("k", "global")
	engine := New(globals)
	local := scopeOf("k", "local")

	tests := []struct {
		name string
		sel  Selector
		want string
	}{
		{"all prefers local", SelectAll, "local"},
		{"local only", SelectLocal, "local"},
		{"global only", SelectGlobal, "global"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Substitute("%k%", coerce.ShapeString, nil, tt.sel, local)
			if err != nil {
				t.Fatalf("Substitute() error = %v", err)
			}
			if result != tt.want {
				t.Errorf("result = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestScopeOrderFirstWins(t *testing.T) {
	engine := New(nil)

	result, err := engine.Substitute("%k%", coerce.ShapeString, nil, SelectAll,
		scopeOf("k", "first"), scopeOf("k", "second"))
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if result != "first" {
		t.Errorf("result = %v, want first", result)
	}
}

func TestGlobalFallback(t *testing.T) {
	globals := vars.New()
	globals.Set("region", "eu-west-1")
	engine := New(globals)

	result, err := engine.Substitute("%region%", coerce.ShapeString, nil, SelectAll, scopeOf("other", "x"))
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if result != "eu-west-1" {
		t.Errorf("result = %v, want eu-west-1", result)
	}
}

func TestLocalSelectorSkipsGlobal(t *testing.T) {
	globals := vars.New()
	globals.Set("k", "global")
	engine := New(globals)

	result, err := engine.Substitute("%k%", coerce.ShapeString, nil, SelectLocal, scopeOf())
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if result != "%k%" {
		t.Errorf("result = %v, want literal %%k%%", result)
	}
}

// A scope that has a key mapped to nil shadows later scopes and the
// global store: null is a resolved value, not an absence.
func TestNullValueShadows(t *testing.T) {
	globals := vars.New()
	globals.Set("k", "global")
	engine := New(globals)

	result, err := engine.Substitute("%k%", coerce.ShapeString, nil, SelectAll,
		scopeOf("k", nil), scopeOf("k", "second"))
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if result != nil {
		t.Errorf("result = %v, want nil", result)
	}
}

func TestJSONPathKey(t *testing.T) {
	engine := New(nil)
	scope := scopeOf("user", scopeOf("name", "amy"))

	result, err := engine.Substitute("Hi %$.user.name%", coerce.ShapeString, nil, SelectAll, scope)
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if result != "Hi amy" {
		t.Errorf("result = %v, want Hi amy", result)
	}
}

// =============================================================================
// List and Table Tests
// =============================================================================

func TestSubstituteList(t *testing.T) {
	engine := New(nil)
	scope := scopeOf("a", "1", "b", "2")

	result, err := engine.SubstituteList([]string{"%a%", "x %b%", "plain"}, coerce.ShapeString, nil, SelectAll, scope)
	if err != nil {
		t.Fatalf("SubstituteList() error = %v", err)
	}
	want := []any{"1", "x 2", "plain"}
	if len(result) != len(want) {
		t.Fatalf("result = %v, want %v", result, want)
	}
	for i := range want {
		if result[i] != want[i] {
			t.Errorf("result[%d] = %v, want %v", i, result[i], want[i])
		}
	}
}

func TestSubstituteListNil(t *testing.T) {
	engine := New(nil)

	result, err := engine.SubstituteList(nil, coerce.ShapeString, nil, SelectAll)
	if err != nil {
		t.Fatalf("SubstituteList() error = %v", err)
	}
	if result != nil {
		t.Errorf("result = %v, want nil", result)
	}
}

func TestSubstituteListTyped(t *testing.T) {
	engine := New(nil)
	scope := scopeOf("a", "1", "b", "2")

	result, err := engine.SubstituteList([]string{"%a%", "%b%"}, coerce.ShapeInt, nil, SelectAll, scope)
	if err != nil {
		t.Fatalf("SubstituteList() error = %v", err)
	}
	if result[0] != int64(1) || result[1] != int64(2) {
		t.Errorf("result = %v, want [1 2]", result)
	}
}

func TestSubstituteTable(t *testing.T) {
	engine := New(nil)
	scope := scopeOf("a", "1")

	result, err := engine.SubstituteTable([][]string{{"%a%", "x"}, {"y"}}, coerce.ShapeString, nil, SelectAll, scope)
	if err != nil {
		t.Fatalf("SubstituteTable() error = %v", err)
	}
	if len(result) != 2 || len(result[0]) != 2 || len(result[1]) != 1 {
		t.Fatalf("result = %v, want shape preserved", result)
	}
	if result[0][0] != "1" || result[0][1] != "x" || result[1][0] != "y" {
		t.Errorf("result = %v, want [[1 x] [y]]", result)
	}
}
