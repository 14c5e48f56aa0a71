package object

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"eva/internal/ast"
)

const (
	NIL_OBJ     = "NIL"
	BOOLEAN_OBJ = "BOOLEAN"
	NUMBER_OBJ  = "NUMBER"
	STRING_OBJ  = "STRING"

	CLOSURE_OBJ     = "CLOSURE"
	BUILTIN_OBJ     = "BUILTIN"
	ENVIRONMENT_OBJ = "ENVIRONMENT"
)

var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string {
	if math.IsInf(n.Value, 1) {
		return "Infinity"
	}
	if math.IsInf(n.Value, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Nil is both the `null` constant and the result of forms that produce no value.
type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "null" }

// Closure is a user-defined function. Env is the frame the lambda was evaluated in and
// becomes the parent of every activation.
type Closure struct {
	Params []string
	Body   ast.Node
	Env    *Environment
}

func (c *Closure) Type() ObjectType { return CLOSURE_OBJ }
func (c *Closure) Inspect() string {
	var out bytes.Buffer
	out.WriteString("(lambda (")
	out.WriteString(strings.Join(c.Params, " "))
	out.WriteString(") ")
	if c.Body != nil {
		out.WriteString(c.Body.String())
	}
	out.WriteString(")")
	return out.String()
}

type BuiltinFunction func(args ...Object) (Object, error)

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return fmt.Sprintf("<native %s>", b.Name) }

func NewNumber(v float64) *Number { return &Number{Value: v} }
func NewString(v string) *String  { return &String{Value: v} }

func NativeBool(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// IsTruthy is the single truthiness rule shared by `if` and `while`: only boolean false is falsy.
func IsTruthy(obj Object) bool {
	if b, ok := obj.(*Boolean); ok {
		return b.Value
	}
	return true
}

// Equal compares primitives by value and everything else by identity.
func Equal(a, b Object) bool {
	switch a := a.(type) {
	case *Number:
		bn, ok := b.(*Number)
		return ok && a.Value == bn.Value
	case *String:
		bs, ok := b.(*String)
		return ok && a.Value == bs.Value
	case *Boolean:
		bb, ok := b.(*Boolean)
		return ok && a.Value == bb.Value
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	default:
		return a == b
	}
}

// TypeName renders the type of obj for error messages, tolerating Go nil.
func TypeName(obj Object) string {
	if obj == nil {
		return "<nil>"
	}
	if env, ok := obj.(*Environment); ok {
		return strings.ToUpper(env.Kind.String())
	}
	return string(obj.Type())
}
