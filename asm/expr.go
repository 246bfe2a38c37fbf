package asm

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// eval computes a constant expression with labels and equates in scope.
// During the first pass a reference that cannot be resolved yet evaluates to
// 0 unless strict is set.
func (a *Assembler) eval(expr string, strict bool) (uint64, error) {
	value, err := a.starlarkEval(expr)
	if err != nil && a.pass == 0 && !strict {
		return 0, nil
	}
	return value, err
}

func (a *Assembler) starlarkEval(expr string) (uint64, error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for name, value := range a.equates {
		pred[name] = starlark.MakeUint64(value)
	}
	for name, value := range a.labels {
		pred[name] = starlark.MakeUint64(value)
	}

	prog := "rc = (" + expr + ")\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadExpression, err)
	}

	rc, ok := dict["rc"].(starlark.Int)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrBadExpression, expr)
	}
	if v, ok := rc.Int64(); ok {
		return uint64(v), nil
	}
	if v, ok := rc.Uint64(); ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s does not fit in 64 bits", ErrBadExpression, expr)
}
