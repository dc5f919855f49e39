package layout

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/javajack/xlsheet"
)

// scope holds the render data plus the loop variables currently bound.
// Loop variables shadow data keys of the same name.
type scope struct {
	data   map[string]any
	vars   map[string]any
	ev     *evaluator
	cached map[string]any
}

func newScope(data map[string]any) *scope {
	if data == nil {
		data = make(map[string]any)
	}
	return &scope{data: data, vars: make(map[string]any), ev: &evaluator{}}
}

// env returns the merged environment. It is rebuilt after a variable changes.
func (s *scope) env() map[string]any {
	if s.cached != nil {
		return s.cached
	}
	m := make(map[string]any, len(s.data)+len(s.vars))
	for k, v := range s.data {
		m[k] = v
	}
	for k, v := range s.vars {
		m[k] = v
	}
	s.cached = m
	return m
}

func (s *scope) set(name string, v any) {
	s.vars[name] = v
	s.cached = nil
}

func (s *scope) unset(name string) {
	delete(s.vars, name)
	s.cached = nil
}

func (s *scope) eval(expression string) (any, error) {
	return s.ev.eval(expression, s.env())
}

// interpolate evaluates the ${...} parts of v. A string that is exactly one
// expression keeps the type of its result; mixed content becomes text.
func (s *scope) interpolate(v any) (any, error) {
	str, ok := v.(string)
	if !ok {
		return v, nil
	}
	if body, ok := singleExpression(str); ok {
		return s.eval(body)
	}
	segs := splitSegments(str)
	if !hasExpression(str) {
		return str, nil
	}
	var b strings.Builder
	for _, seg := range segs {
		if !seg.expr {
			b.WriteString(seg.text)
			continue
		}
		out, err := s.eval(seg.text)
		if err != nil {
			return nil, err
		}
		if out != nil {
			fmt.Fprintf(&b, "%v", out)
		}
	}
	return b.String(), nil
}

// interpolateString is interpolate for fields that are always text.
func (s *scope) interpolateString(str string) (string, error) {
	out, err := s.interpolate(str)
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	return fmt.Sprint(out), nil
}

// binding binds a loop variable and an optional index variable, restoring
// whatever they shadowed on close. Use with defer.
type binding struct {
	s              *scope
	name, index    string
	prev, prevIdx  any
	hadPrev, hadIx bool
}

func (s *scope) bind(name, index string) *binding {
	b := &binding{s: s, name: name, index: index}
	b.prev, b.hadPrev = s.vars[name]
	if index != "" {
		b.prevIdx, b.hadIx = s.vars[index]
	}
	return b
}

func (b *binding) set(item any, i int) {
	b.s.set(b.name, item)
	if b.index != "" {
		b.s.set(b.index, i)
	}
}

func (b *binding) close() {
	if b.hadPrev {
		b.s.set(b.name, b.prev)
	} else {
		b.s.unset(b.name)
	}
	if b.index == "" {
		return
	}
	if b.hadIx {
		b.s.set(b.index, b.prevIdx)
	} else {
		b.s.unset(b.index)
	}
}

// items converts the result of an each expression to a slice.
func items(v any) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot iterate over %T", v)
	}
}

// hyperlink backs the hyperlink(url) expression function. The URL value it
// yields makes the cell a link.
func hyperlink(raw string) (xlsheet.URL, error) {
	return xlsheet.ParseURL(raw)
}
