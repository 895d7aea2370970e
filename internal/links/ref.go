package links

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRef indicates text that is not fragment@Namespace.Symbol
	ErrInvalidRef = errors.New("invalid reference")

	// ErrUnknownFragment indicates a fragment gi-docgen does not define
	ErrUnknownFragment = errors.New("unknown reference fragment")
)

// Fragment is the kind of symbol a reference points at.
type Fragment string

// Fragments recognized by ParseRef. Type-like fragments name a type in the
// namespace; the rest name a member of a type or of the namespace itself.
const (
	FragmentAlias    Fragment = "alias"    // Type alias
	FragmentCallback Fragment = "callback" // Callback type
	FragmentClass    Fragment = "class"    // GObject class
	FragmentConst    Fragment = "const"    // Namespace constant
	FragmentCtor     Fragment = "ctor"     // Constructor of a type
	FragmentEnum     Fragment = "enum"     // Enumeration
	FragmentError    Fragment = "error"    // Error domain
	FragmentFlags    Fragment = "flags"    // Bit field
	FragmentFunc     Fragment = "func"     // Namespace or type function
	FragmentIface    Fragment = "iface"    // Interface
	FragmentMethod   Fragment = "method"   // Instance method
	FragmentProperty Fragment = "property" // Property, written Type:name
	FragmentSignal   Fragment = "signal"   // Signal, written Type::name
	FragmentStruct   Fragment = "struct"   // Plain or boxed structure
	FragmentVfunc    Fragment = "vfunc"    // Virtual function
)

// fragmentShapes records how the symbol part of each fragment is laid out.
var fragmentShapes = map[Fragment]shape{
	FragmentAlias:    shapeType,
	FragmentCallback: shapeType,
	FragmentClass:    shapeType,
	FragmentConst:    shapeType,
	FragmentEnum:     shapeType,
	FragmentError:    shapeType,
	FragmentFlags:    shapeType,
	FragmentIface:    shapeType,
	FragmentStruct:   shapeType,
	FragmentCtor:     shapeMember,
	FragmentMethod:   shapeMember,
	FragmentVfunc:    shapeMember,
	FragmentFunc:     shapeFunc,
	FragmentProperty: shapeProperty,
	FragmentSignal:   shapeSignal,
}

type shape int

const (
	shapeType     shape = iota // Name
	shapeMember                // Type.name
	shapeFunc                  // name or Type.name
	shapeProperty              // Type:name
	shapeSignal                // Type::name
)

// Ref is a parsed cross-reference.
type Ref struct {
	Fragment  Fragment
	Namespace string
	Type      string // Owning type; empty for namespace-level symbols
	Name      string // Symbol name
}

// ParseRef parses "[fragment@Namespace.Symbol]"; the brackets are optional.
func ParseRef(text string) (Ref, error) {
	raw := strings.TrimSpace(text)
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		raw = raw[1 : len(raw)-1]
	}

	fragment, target, ok := strings.Cut(raw, "@")
	if !ok || fragment == "" || target == "" {
		return Ref{}, fmt.Errorf("%w: %q (expected fragment@Namespace.Symbol)", ErrInvalidRef, text)
	}

	sh, known := fragmentShapes[Fragment(fragment)]
	if !known {
		return Ref{}, fmt.Errorf("%w: %q", ErrUnknownFragment, fragment)
	}

	namespace, symbol, ok := strings.Cut(target, ".")
	if !ok || namespace == "" || symbol == "" {
		return Ref{}, fmt.Errorf("%w: %q has no namespace", ErrInvalidRef, text)
	}

	ref := Ref{Fragment: Fragment(fragment), Namespace: namespace}
	if err := ref.splitSymbol(sh, symbol); err != nil {
		return Ref{}, fmt.Errorf("%w: %q: %v", ErrInvalidRef, text, err)
	}
	return ref, nil
}

func (r *Ref) splitSymbol(sh shape, symbol string) error {
	switch sh {
	case shapeType:
		if !isIdent(symbol) {
			return fmt.Errorf("%s expects a single name, got %q", r.Fragment, symbol)
		}
		r.Name = symbol

	case shapeMember:
		typ, name, ok := strings.Cut(symbol, ".")
		if !ok || !isIdent(typ) || !isIdent(name) {
			return fmt.Errorf("%s expects Type.name, got %q", r.Fragment, symbol)
		}
		r.Type, r.Name = typ, name

	case shapeFunc:
		if typ, name, ok := strings.Cut(symbol, "."); ok {
			if !isIdent(typ) || !isIdent(name) {
				return fmt.Errorf("func expects name or Type.name, got %q", symbol)
			}
			r.Type, r.Name = typ, name
			return nil
		}
		if !isIdent(symbol) {
			return fmt.Errorf("func expects name or Type.name, got %q", symbol)
		}
		r.Name = symbol

	case shapeProperty:
		typ, name, ok := strings.Cut(symbol, ":")
		if !ok || !isIdent(typ) || !isPropName(name) {
			return fmt.Errorf("property expects Type:name, got %q", symbol)
		}
		r.Type, r.Name = typ, name

	case shapeSignal:
		typ, name, ok := strings.Cut(symbol, "::")
		if !ok || !isIdent(typ) || !isPropName(name) {
			return fmt.Errorf("signal expects Type::name, got %q", symbol)
		}
		r.Type, r.Name = typ, name
	}
	return nil
}

// Page returns the page name relative to the namespace's base URL.
func (r Ref) Page() string {
	switch {
	case r.Fragment == FragmentFunc && r.Type != "":
		return "type_func." + r.Type + "." + r.Name + ".html"
	case r.Type != "":
		return string(r.Fragment) + "." + r.Type + "." + r.Name + ".html"
	default:
		return string(r.Fragment) + "." + r.Name + ".html"
	}
}

// Symbol returns the reference target as written, without the fragment.
func (r Ref) Symbol() string {
	switch {
	case r.Fragment == FragmentProperty:
		return r.Namespace + "." + r.Type + ":" + r.Name
	case r.Fragment == FragmentSignal:
		return r.Namespace + "." + r.Type + "::" + r.Name
	case r.Type != "":
		return r.Namespace + "." + r.Type + "." + r.Name
	default:
		return r.Namespace + "." + r.Name
	}
}

// String returns the reference in bracketed gi-docgen syntax.
func (r Ref) String() string {
	return "[" + string(r.Fragment) + "@" + r.Symbol() + "]"
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// isPropName accepts GObject property and signal names, which use dashes.
func isPropName(s string) bool {
	if s == "" || s[0] == '-' {
		return false
	}
	return isIdent(strings.ReplaceAll(s, "-", "_"))
}
