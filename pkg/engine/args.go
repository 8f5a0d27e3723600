package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/kerf/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// value carries a Go value through the zygomys environment from one builtin
// to another.
type value[T any] struct {
	v    T
	show string
}

func (w *value[T]) SexpString(*zygo.PrintState) string { return w.show }
func (w *value[T]) Type() *zygo.RegisteredType         { return nil }

func wrap[T any](v T, show string) *value[T] {
	return &value[T]{v: v, show: show}
}

func nodeRef(id graph.NodeID, name string) *value[graph.NodeID] {
	if name != "" {
		return wrap(id, fmt.Sprintf("(noderef %q)", name))
	}
	return wrap(id, fmt.Sprintf("(noderef %s)", id.Short()))
}

func unwrap[T any](s zygo.Sexp, what string) (T, error) {
	if w, ok := s.(*value[T]); ok {
		return w.v, nil
	}
	var zero T
	return zero, fmt.Errorf("expected %s, got %s", what, s.SexpString(nil))
}

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	return strings.CutPrefix(str.S, kwPrefix)
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", s.SexpString(nil))
}

// toSymbol accepts :z as well as "z".
func toSymbol(s zygo.Sexp) (string, error) {
	str, err := toString(s)
	if err != nil {
		return "", err
	}
	name, _ := strings.CutPrefix(str, kwPrefix)
	return name, nil
}

var axes = map[string]graph.Axis{"x": graph.AxisX, "y": graph.AxisY, "z": graph.AxisZ}

// setter stores one keyword argument.
type setter func(zygo.Sexp) error

func numberArg(dst *float64) setter {
	return func(s zygo.Sexp) (err error) {
		*dst, err = toFloat64(s)
		return err
	}
}

func textArg(dst *string) setter {
	return func(s zygo.Sexp) (err error) {
		*dst, err = toString(s)
		return err
	}
}

func axisArg(dst *graph.Axis) setter {
	return func(s zygo.Sexp) error {
		name, err := toSymbol(s)
		if err != nil {
			return fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
		}
		a, ok := axes[name]
		if !ok {
			return fmt.Errorf("invalid axis %q, expected x, y, or z", name)
		}
		*dst = a
		return nil
	}
}

func faceArg(dst *graph.FaceID) setter {
	return func(s zygo.Sexp) error {
		name, err := toSymbol(s)
		if err != nil {
			return fmt.Errorf("expected face keyword: %w", err)
		}
		if !graph.ValidFaceIDs[graph.FaceID(name)] {
			return fmt.Errorf("invalid face %q, expected top/bottom/left/right/front/back", name)
		}
		*dst = graph.FaceID(name)
		return nil
	}
}

func materialArg(dst *graph.MaterialSpec) setter {
	return func(s zygo.Sexp) (err error) {
		*dst, err = unwrap[graph.MaterialSpec](s, "material")
		return err
	}
}

func refArg(dst *graph.NodeID) setter {
	return func(s zygo.Sexp) (err error) {
		*dst, err = unwrap[graph.NodeID](s, "node reference")
		return err
	}
}

func pointArg(dst *graph.Vec3) setter {
	return func(s zygo.Sexp) (err error) {
		*dst, err = unwrap[graph.Vec3](s, "vec3")
		return err
	}
}

// optPointArg leaves dst nil unless the keyword is given.
func optPointArg(dst **graph.Vec3) setter {
	return func(s zygo.Sexp) error {
		v, err := unwrap[graph.Vec3](s, "vec3")
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

// refsArg reads a list or array of node references.
func refsArg(dst *[]graph.NodeID) setter {
	return func(s zygo.Sexp) error {
		var items []zygo.Sexp
		switch v := s.(type) {
		case *zygo.SexpPair:
			var err error
			if items, err = zygo.ListToArray(v); err != nil {
				return err
			}
		case *zygo.SexpArray:
			items = v.Val
		case *zygo.SexpSentinel:
			if v != zygo.SexpNull {
				return fmt.Errorf("expected list, got %s", s.SexpString(nil))
			}
		default:
			return fmt.Errorf("expected list, got %s", s.SexpString(nil))
		}
		for i, item := range items {
			id, err := unwrap[graph.NodeID](item, "node reference")
			if err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
			*dst = append(*dst, id)
		}
		return nil
	}
}

// keywords maps the keywords a form accepts to where their values go.
type keywords map[string]setter

// bind applies every keyword argument in order and returns the positional
// arguments left over. Unknown keywords and keywords without a value are
// errors.
func (k keywords) bind(form string, args []zygo.Sexp) ([]zygo.Sexp, error) {
	var positional []zygo.Sexp
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			positional = append(positional, args[i])
			continue
		}
		set, known := k[name]
		if !known {
			return nil, fmt.Errorf("%s: unknown keyword :%s", form, name)
		}
		if i+1 == len(args) {
			return nil, fmt.Errorf("%s: :%s needs a value", form, name)
		}
		i++
		if err := set(args[i]); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", form, name, err)
		}
	}
	return positional, nil
}

// only is bind for forms that take no positional arguments.
func (k keywords) only(form string, args []zygo.Sexp) error {
	rest, err := k.bind(form, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%s: unexpected argument %s", form, rest[0].SexpString(nil))
	}
	return nil
}
