package layout

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/javajack/xlsheet"
)

const (
	exprBegin = "${"
	exprEnd   = "}"
)

// hyperlinkFunc exposes hyperlink(url) to expressions.
var hyperlinkFunc = expr.Function("hyperlink",
	func(params ...any) (any, error) {
		raw, ok := params[0].(string)
		if !ok {
			return nil, fmt.Errorf("hyperlink: want a string, got %T", params[0])
		}
		return hyperlink(raw)
	},
	new(func(string) xlsheet.URL),
)

// Programs are compiled without an environment, so a cached program does
// not depend on the types of the values bound when it was first compiled.
func compileOptions() []expr.Option {
	return []expr.Option{expr.AllowUndefinedVariables(), hyperlinkFunc}
}

// evaluator compiles expressions once and runs them against any environment.
type evaluator struct {
	cache sync.Map // expression -> *vm.Program
}

func (e *evaluator) eval(expression string, env map[string]any) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, nil
	}
	program, err := e.compile(expression)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", expression, err)
	}
	return out, nil
}

func (e *evaluator) compile(expression string) (*vm.Program, error) {
	if p, ok := e.cache.Load(expression); ok {
		return p.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, compileOptions()...)
	if err != nil {
		return nil, err
	}
	p, _ := e.cache.LoadOrStore(expression, program)
	return p.(*vm.Program), nil
}

// checkSyntax compiles expression the way eval does, without running it.
func checkSyntax(expression string) error {
	_, err := expr.Compile(expression, compileOptions()...)
	return err
}

// segment is literal text or the body of one ${...} expression.
type segment struct {
	expr bool
	text string
}

// splitSegments splits "Total: ${sum} items" into literal and expression
// parts. Braces nested inside an expression are balanced.
func splitSegments(s string) []segment {
	var out []segment
	rest := s
	for {
		start := strings.Index(rest, exprBegin)
		if start < 0 {
			break
		}
		body := start + len(exprBegin)
		end := matchingEnd(rest[body:])
		if end < 0 {
			break
		}
		end += body

		if start > 0 {
			out = append(out, segment{text: rest[:start]})
		}
		out = append(out, segment{expr: true, text: rest[body:end]})
		rest = rest[end+len(exprEnd):]
	}
	if rest != "" {
		out = append(out, segment{text: rest})
	}
	return out
}

func matchingEnd(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// singleExpression returns the body of s when s is exactly one ${...}.
func singleExpression(s string) (string, bool) {
	t := strings.TrimSpace(s)
	segs := splitSegments(t)
	if len(segs) != 1 || !segs[0].expr {
		return "", false
	}
	return segs[0].text, true
}

// hasExpression reports whether s contains at least one ${...}.
func hasExpression(s string) bool {
	for _, seg := range splitSegments(s) {
		if seg.expr {
			return true
		}
	}
	return false
}
