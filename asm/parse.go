package asm

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sarchlab/y86sim/insts"
)

// statement is one parsed source line.
type statement struct {
	labels []string
	op     string
	args   []string
}

func parseLine(text string) (statement, error) {
	var stmt statement

	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	rest := strings.TrimSpace(text)

	for {
		i := strings.IndexByte(rest, ':')
		if i < 0 {
			break
		}
		label := strings.TrimSpace(rest[:i])
		if !isIdent(label) {
			return stmt, fmt.Errorf("%w: bad label %q", ErrBadOperand, label)
		}
		stmt.labels = append(stmt.labels, label)
		rest = strings.TrimSpace(rest[i+1:])
	}

	if rest == "" {
		return stmt, nil
	}

	op, args := rest, ""
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		op, args = rest[:i], rest[i+1:]
	}
	stmt.op = strings.ToLower(op)
	stmt.args = splitOperands(args)

	return stmt, nil
}

// splitOperands splits on commas outside parentheses.
func splitOperands(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var args []string
	depth, start := 0, 0
	for i, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}
	return append(args, strings.TrimSpace(text[start:]))
}

// reserved holds the words the expression evaluator cannot take as names.
var reserved = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "load": true, "nonlocal": true, "not": true,
	"or": true, "pass": true, "raise": true, "return": true, "try": true,
	"while": true, "with": true, "yield": true,
}

// isIdent reports whether s can name a label or equate.
func isIdent(s string) bool {
	if s == "" || reserved[s] {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

func register(operand string) (insts.Register, error) {
	operand = strings.TrimSpace(operand)
	if !strings.HasPrefix(operand, "%") {
		return insts.RNone, fmt.Errorf("%w: %q is not a register", ErrBadOperand, operand)
	}
	reg, ok := insts.ParseRegister(operand)
	if !ok {
		return insts.RNone, fmt.Errorf("%w: unknown register %q", ErrBadOperand, operand)
	}
	return reg, nil
}

// immediate strips the optional '$' of an immediate operand.
func immediate(operand string) string {
	return strings.TrimPrefix(strings.TrimSpace(operand), "$")
}

// memory parses D(%reg), (%reg) or a bare address D.
func (a *Assembler) memory(operand string) (uint64, insts.Register, error) {
	operand = strings.TrimSpace(operand)
	disp, base := operand, insts.RNone

	if open := strings.LastIndexByte(operand, '('); open >= 0 && strings.HasSuffix(operand, ")") {
		inner := strings.TrimSpace(operand[open+1 : len(operand)-1])
		if strings.HasPrefix(inner, "%") {
			reg, err := register(inner)
			if err != nil {
				return 0, insts.RNone, err
			}
			disp, base = strings.TrimSpace(operand[:open]), reg
		}
	}

	if disp == "" {
		return 0, base, nil
	}
	if strings.HasPrefix(disp, "$") || strings.HasPrefix(disp, "%") {
		return 0, insts.RNone, fmt.Errorf("%w: %q is not a memory operand", ErrBadOperand, operand)
	}

	value, err := a.eval(disp, false)
	if err != nil {
		return 0, insts.RNone, err
	}
	return value, base, nil
}
