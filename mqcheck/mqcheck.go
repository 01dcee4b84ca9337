// Package mqcheck loads YAML-encoded resolved mq programs and type checks them.
package mqcheck

import (
	"io/fs"
	"strings"

	"github.com/cottand/mqcheck/frontend"
	"github.com/cottand/mqcheck/frontend/builtin"
	"github.com/cottand/mqcheck/frontend/hir"
	"github.com/cottand/mqcheck/frontend/types"
	"github.com/pkg/errors"
)

// LoadProgram reads and decodes the program at path in fsys
func LoadProgram(fsys fs.FS, path string) (*hir.Program, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", path)
	}
	prog, err := hir.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode %s", path)
	}
	if err := checkBuiltins(prog, builtin.Default()); err != nil {
		return nil, errors.Wrapf(err, "invalid program %s", path)
	}
	return prog, nil
}

// checkBuiltins makes sure every builtin symbol of prog has a signature in table
func checkBuiltins(prog *hir.Program, table *builtin.Table) error {
	for _, sym := range prog.SortedSymbols() {
		if sym.Kind != hir.BuiltinSymbol {
			continue
		}
		if _, ok := table.Lookup(sym.Name); !ok {
			return errors.Errorf("unknown builtin %q", sym.Name)
		}
	}
	return nil
}

// CheckBytes decodes data and checks it against the default builtin table.
// The error is only non-nil when data is not a valid program encoding.
func CheckBytes(data []byte, opts ...frontend.Option) (*hir.Program, *frontend.Result, error) {
	prog, err := hir.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	if err := checkBuiltins(prog, builtin.Default()); err != nil {
		return nil, nil, err
	}
	return prog, frontend.Check(prog, builtin.Default(), opts...), nil
}

// CheckFile is LoadProgram followed by frontend.Check
func CheckFile(fsys fs.FS, path string, opts ...frontend.Option) (*hir.Program, *frontend.Result, error) {
	prog, err := LoadProgram(fsys, path)
	if err != nil {
		return nil, nil, err
	}
	return prog, frontend.Check(prog, builtin.Default(), opts...), nil
}

// ParseInputType reads the type of a program's input as written in
// configuration: "any", "markdown", a primitive name, or a primitive in
// brackets for an array of it. "any" and "" yield nil, which leaves the
// input to be inferred.
func ParseInputType(s string) (types.Type, error) {
	switch s {
	case "", "any":
		return nil, nil
	case "markdown":
		return types.Node, nil
	}
	if inner, ok := strings.CutPrefix(s, "["); ok {
		inner, ok = strings.CutSuffix(inner, "]")
		if !ok {
			return nil, errors.Errorf("unclosed array in input type %q", s)
		}
		elem, err := ParseInputType(inner)
		if err != nil {
			return nil, err
		}
		if elem == nil {
			return nil, errors.Errorf("input type %q: array elements must be known", s)
		}
		return types.ArrayOf(elem), nil
	}
	if p, ok := types.ParsePrim(s); ok {
		return p, nil
	}
	return nil, errors.Errorf("unknown input type %q", s)
}
