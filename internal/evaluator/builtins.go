package evaluator

import (
	"fmt"
	"io"
	"strings"

	"eva/internal/object"
)

const Version = "0.1"

func (e *Evaluator) newGlobalEnvironment() *object.Environment {
	env := object.NewNamedEnvironment(object.ScopeEnv, "global", nil)

	env.Define("null", NIL)
	env.Define("true", TRUE)
	env.Define("false", FALSE)
	env.Define("VERSION", object.NewString(Version))

	for _, b := range []*object.Builtin{
		// math
		funcAdd(),
		funcSub(),
		arithmetic("*", func(a, b float64) float64 { return a * b }),
		arithmetic("/", func(a, b float64) float64 { return a / b }),

		// comparison
		comparison(">", func(c int) bool { return c > 0 }),
		comparison("<", func(c int) bool { return c < 0 }),
		comparison(">=", func(c int) bool { return c >= 0 }),
		comparison("<=", func(c int) bool { return c <= 0 }),
		funcEquals(),

		// console output
		funcPrint(e),
	} {
		env.Define(b.Name, b)
	}
	return env
}

func funcAdd() *object.Builtin {
	return &object.Builtin{
		Name: "+",
		Fn: func(args ...object.Object) (object.Object, error) {
			if len(args) != 2 {
				return nil, &object.ArityError{Name: "+", Expected: "2", Got: len(args)}
			}
			if l, ok := args[0].(*object.String); ok {
				if r, ok := args[1].(*object.String); ok {
					return object.NewString(l.Value + r.Value), nil
				}
			}
			a, b, err := numberPair("+", args)
			if err != nil {
				return nil, err
			}
			return object.NewNumber(a + b), nil
		},
	}
}

// funcSub subtracts, or negates when called with one operand.
func funcSub() *object.Builtin {
	return &object.Builtin{
		Name: "-",
		Fn: func(args ...object.Object) (object.Object, error) {
			switch len(args) {
			case 1:
				n, err := number("-", args[0])
				if err != nil {
					return nil, err
				}
				return object.NewNumber(-n), nil
			case 2:
				a, b, err := numberPair("-", args)
				if err != nil {
					return nil, err
				}
				return object.NewNumber(a - b), nil
			default:
				return nil, &object.ArityError{Name: "-", Expected: "1 or 2", Got: len(args)}
			}
		},
	}
}

func arithmetic(name string, op func(a, b float64) float64) *object.Builtin {
	return &object.Builtin{
		Name: name,
		Fn: func(args ...object.Object) (object.Object, error) {
			if len(args) != 2 {
				return nil, &object.ArityError{Name: name, Expected: "2", Got: len(args)}
			}
			a, b, err := numberPair(name, args)
			if err != nil {
				return nil, err
			}
			return object.NewNumber(op(a, b)), nil
		},
	}
}

// comparison orders two numbers or two strings.
func comparison(name string, test func(c int) bool) *object.Builtin {
	return &object.Builtin{
		Name: name,
		Fn: func(args ...object.Object) (object.Object, error) {
			if len(args) != 2 {
				return nil, &object.ArityError{Name: name, Expected: "2", Got: len(args)}
			}
			if l, ok := args[0].(*object.String); ok {
				if r, ok := args[1].(*object.String); ok {
					return object.NativeBool(test(strings.Compare(l.Value, r.Value))), nil
				}
			}
			a, b, err := numberPair(name, args)
			if err != nil {
				return nil, err
			}
			c := 0
			switch {
			case a < b:
				c = -1
			case a > b:
				c = 1
			case a != b:
				// NaN never compares
				return FALSE, nil
			}
			return object.NativeBool(test(c)), nil
		},
	}
}

func funcEquals() *object.Builtin {
	return &object.Builtin{
		Name: "=",
		Fn: func(args ...object.Object) (object.Object, error) {
			if len(args) != 2 {
				return nil, &object.ArityError{Name: "=", Expected: "2", Got: len(args)}
			}
			return object.NativeBool(object.Equal(args[0], args[1])), nil
		},
	}
}

// funcPrint writes the arguments separated by spaces, followed by a newline.
func funcPrint(e *Evaluator) *object.Builtin {
	return &object.Builtin{
		Name: "print",
		Fn: func(args ...object.Object) (object.Object, error) {
			parts := make([]string, len(args))
			for i, arg := range args {
				parts[i] = arg.Inspect()
			}
			if _, err := io.WriteString(e.Out, strings.Join(parts, " ")+"\n"); err != nil {
				return nil, fmt.Errorf("print: %w", err)
			}
			return NIL, nil
		},
	}
}

func number(op string, obj object.Object) (float64, error) {
	n, ok := obj.(*object.Number)
	if !ok {
		return 0, &object.TypeError{Op: op, Got: object.TypeName(obj)}
	}
	return n.Value, nil
}

func numberPair(op string, args []object.Object) (float64, float64, error) {
	a, err := number(op, args[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := number(op, args[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
