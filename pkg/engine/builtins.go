package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/pizzamaker/pkg/geometry"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites preset source before it reaches zygomys:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols and cannot clash with user variables.
//  2. kebab-case identifiers become snake_case (crust-thickness ->
//     crust_thickness); zygomys reads a hyphen as subtraction.
//  3. ; line comments become // comments.
//
// String literals are left untouched.
func preprocessSource(source string) string {
	out := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		switch c := b[i]; {
		case c == '"':
			j := skipQuoted(b, i)
			out = append(out, b[i:j]...)
			i = j

		case c == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			if j < len(b) {
				j++
			}
			out = append(out, b[i:j]...)
			i = j

		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// skipQuoted returns the index just past the double-quoted literal that
// starts at b[i], honoring backslash escapes.
func skipQuoted(b []byte, i int) int {
	j := i + 1
	for j < len(b) && b[j] != '"' {
		if b[j] == '\\' && j+1 < len(b) {
			j++
		}
		j++
	}
	if j < len(b) {
		j++
	}
	return j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Keyword arguments
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	order      []string
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A keyword
// at the end of the list gets a null value.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		var val zygo.Sexp = zygo.SexpNull
		if i+1 < len(args) {
			val = args[i+1]
			i++
		}
		if _, seen := result.kw[name]; !seen {
			result.order = append(result.order, name)
		}
		result.kw[name] = val
	}
	return result
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer. Floats are accepted when they have no
// fractional part.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Parameter fields
// ---------------------------------------------------------------------------

// paramField binds a script keyword to one field of geometry.Params.
type paramField struct {
	get func(p *geometry.Params) zygo.Sexp
	set func(p *geometry.Params, v zygo.Sexp) error
}

func intField(field func(p *geometry.Params) *int) paramField {
	return paramField{
		get: func(p *geometry.Params) zygo.Sexp {
			return &zygo.SexpInt{Val: int64(*field(p))}
		},
		set: func(p *geometry.Params, v zygo.Sexp) error {
			n, err := toInt(v)
			if err != nil {
				return err
			}
			*field(p) = n
			return nil
		},
	}
}

func floatField(field func(p *geometry.Params) *float64) paramField {
	return paramField{
		get: func(p *geometry.Params) zygo.Sexp {
			return &zygo.SexpFloat{Val: *field(p)}
		},
		set: func(p *geometry.Params, v zygo.Sexp) error {
			f, err := toFloat64(v)
			if err != nil {
				return err
			}
			*field(p) = f
			return nil
		},
	}
}

// paramFields maps script keywords to parameter fields.
var paramFields = map[string]paramField{
	"sides":           intField(func(p *geometry.Params) *int { return &p.Sides }),
	"height":          floatField(func(p *geometry.Params) *float64 { return &p.ExtrusionHeight }),
	"crust-thickness": floatField(func(p *geometry.Params) *float64 { return &p.CrustThickness }),
	"crust":           floatField(func(p *geometry.Params) *float64 { return &p.CrustProportion }),
	"slices":          intField(func(p *geometry.Params) *int { return &p.NumSlices }),
}

// knownKeywords lists the paramFields keys for error messages.
func knownKeywords() string {
	names := make([]string, 0, len(paramFields))
	for k := range paramFields {
		names = append(names, ":"+k)
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}

// sexpParams wraps a Params snapshot so builtins can return it.
type sexpParams struct {
	p geometry.Params
}

func (s *sexpParams) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pizza :sides %d :height %g :crust-thickness %g :crust %g :slices %d)",
		s.p.Sides, s.p.ExtrusionHeight, s.p.CrustThickness, s.p.CrustProportion, s.p.NumSlices)
}
func (s *sexpParams) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// registerBuiltins installs the preset builtins into a zygomys environment.
// They read and write p, which holds the running parameters.
func registerBuiltins(env *zygo.Zlisp, p *geometry.Params) {

	// (pizza :sides 6 :height 0.5 :crust-thickness 0.3 :crust 0.2 :slices 4)
	// Every keyword is optional; unnamed fields keep their running value.
	env.AddFunction("pizza", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("pizza: unexpected positional argument %s", pa.positional[0].SexpString(nil))
		}
		next := *p
		for _, kw := range pa.order {
			f, ok := paramFields[kw]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("pizza: unknown keyword :%s (want one of %s)", kw, knownKeywords())
			}
			if err := f.set(&next, pa.kw[kw]); err != nil {
				return zygo.SexpNull, fmt.Errorf("pizza: %s: %w", kw, err)
			}
		}
		*p = next
		return &sexpParams{p: next}, nil
	})

	// (defaults)
	env.AddFunction("defaults", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) > 0 {
			return zygo.SexpNull, fmt.Errorf("defaults: takes no arguments, got %d", len(args))
		}
		*p = geometry.DefaultParams()
		return &sexpParams{p: *p}, nil
	})

	// (param :sides) reads one running value.
	env.AddFunction("param", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("param: expected one keyword, got %d arguments", len(args))
		}
		kw, ok := isKW(args[0])
		if !ok {
			return zygo.SexpNull, fmt.Errorf("param: expected keyword, got %s", args[0].SexpString(nil))
		}
		f, ok := paramFields[kw]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("param: unknown keyword :%s (want one of %s)", kw, knownKeywords())
		}
		return f.get(p), nil
	})
}
