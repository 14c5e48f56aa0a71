package evaluator

import (
	"fmt"
	"io"
	"os"

	"eva/internal/ast"
	"eva/internal/modules"
	"eva/internal/object"
	"eva/internal/transform"
)

var (
	NIL   = object.NIL
	TRUE  = object.TRUE
	FALSE = object.FALSE
)

// Evaluator walks S-expression trees. One Evaluator owns one global environment and one
// module cache; it is not safe for concurrent use.
type Evaluator struct {
	Global *object.Environment
	Out    io.Writer

	transformer *transform.Transformer
	loader      modules.Loader
	moduleCache map[string]*object.Environment
	loading     map[string]bool
}

type Option func(*Evaluator)

// WithLoader sets the resource loader used by import.
func WithLoader(l modules.Loader) Option {
	return func(e *Evaluator) { e.loader = l }
}

// WithOutput redirects print.
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) { e.Out = w }
}

func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		Out:         os.Stdout,
		transformer: transform.New(),
		moduleCache: make(map[string]*object.Environment),
		loading:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.loader == nil {
		e.loader = &modules.FileResolver{RootPath: "."}
	}
	e.Global = e.newGlobalEnvironment()
	return e
}

// EvalGlobal evaluates a whole program in the global environment. A top-level begin
// does not open a new scope.
func (e *Evaluator) EvalGlobal(node ast.Node) (object.Object, error) {
	return e.evalBody(node, e.Global)
}

// Eval evaluates node in env, or in the global environment when env is nil.
func (e *Evaluator) Eval(node ast.Node, env *object.Environment) (object.Object, error) {
	if env == nil {
		env = e.Global
	}

	switch node := node.(type) {
	case *ast.Number:
		return object.NewNumber(node.Value), nil

	case *ast.String:
		return object.NewString(node.Value), nil

	case *ast.Symbol:
		return e.evalSymbol(node, env)

	case *ast.List:
		return e.evalList(node, env)

	case nil:
		return nil, &object.UnimplementedFormError{Form: "<nil>"}

	default:
		return nil, &object.UnimplementedFormError{Form: node.String()}
	}
}

func (e *Evaluator) evalSymbol(node *ast.Symbol, env *object.Environment) (object.Object, error) {
	if node.Name == "" {
		return nil, &object.MalformedTokenError{Token: node.Name}
	}
	if !ast.ValidSymbol(node.Name) {
		return nil, &object.UnimplementedFormError{Form: node.Name}
	}
	return env.Lookup(node.Name)
}

func (e *Evaluator) evalList(list *ast.List, env *object.Environment) (object.Object, error) {
	if len(list.Elements) == 0 {
		return nil, &object.UnimplementedFormError{Form: list.String()}
	}

	switch list.Tag() {
	case ast.BEGIN:
		return e.evalBlock(list, object.NewEnclosedEnvironment(env))

	case ast.VAR:
		return e.evalVar(list, env)

	case ast.SET:
		return e.evalSet(list, env)

	case ast.IF:
		return e.evalIf(list, env)

	case ast.WHILE:
		return e.evalWhile(list, env)

	case ast.DEF, ast.SWITCH, ast.FOR, ast.INC, ast.DEC:
		rewritten, err := e.transformer.Transform(list)
		if err != nil {
			return nil, err
		}
		return e.Eval(rewritten, env)

	case ast.LAMBDA:
		return e.evalLambda(list, env)

	case ast.CLASS:
		return e.evalClass(list, env)

	case ast.SUPER:
		return e.evalSuper(list, env)

	case ast.NEW:
		return e.evalNew(list, env)

	case ast.PROP:
		return e.evalProp(list, env)

	case ast.MODULE:
		return e.evalModule(list, env)

	case ast.IMPORT:
		return e.evalImport(list, env)

	default:
		return e.evalCall(list, env)
	}
}

// evalBody evaluates a function, class or module body directly in env: a begin body
// shares env instead of opening another scope.
func (e *Evaluator) evalBody(body ast.Node, env *object.Environment) (object.Object, error) {
	if list, ok := body.(*ast.List); ok && list.Tag() == ast.BEGIN {
		return e.evalBlock(list, env)
	}
	return e.Eval(body, env)
}

func (e *Evaluator) evalBlock(block *ast.List, env *object.Environment) (object.Object, error) {
	var result object.Object = NIL
	for _, exp := range block.Operands() {
		val, err := e.Eval(exp, env)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

// (var name value)
func (e *Evaluator) evalVar(list *ast.List, env *object.Environment) (object.Object, error) {
	if err := expectOperands(list, 2); err != nil {
		return nil, err
	}
	ops := list.Operands()
	name, err := symbolName(list, ops[0])
	if err != nil {
		return nil, err
	}
	val, err := e.Eval(ops[1], env)
	if err != nil {
		return nil, err
	}
	return env.Define(name, val), nil
}

// (set name value) or (set (prop instance name) value)
func (e *Evaluator) evalSet(list *ast.List, env *object.Environment) (object.Object, error) {
	if err := expectOperands(list, 2); err != nil {
		return nil, err
	}
	ops := list.Operands()
	ref, value := ops[0], ops[1]

	if target, ok := ref.(*ast.List); ok && target.Tag() == ast.PROP {
		if err := expectOperands(target, 2); err != nil {
			return nil, err
		}
		instance, err := e.evalEnvironment("set", target.Operands()[0], env)
		if err != nil {
			return nil, err
		}
		propName, err := symbolName(target, target.Operands()[1])
		if err != nil {
			return nil, err
		}
		val, err := e.Eval(value, env)
		if err != nil {
			return nil, err
		}
		// property writes define on the instance, even for previously unset properties
		return instance.Define(propName, val), nil
	}

	name, err := symbolName(list, ref)
	if err != nil {
		return nil, err
	}
	val, err := e.Eval(value, env)
	if err != nil {
		return nil, err
	}
	return env.Assign(name, val)
}

// (if cond then [else])
func (e *Evaluator) evalIf(list *ast.List, env *object.Environment) (object.Object, error) {
	ops := list.Operands()
	if len(ops) != 2 && len(ops) != 3 {
		return nil, &object.MalformedFormError{Form: list.String(), Reason: "if expects a condition, a consequent and an optional alternate"}
	}

	cond, err := e.Eval(ops[0], env)
	if err != nil {
		return nil, err
	}
	if object.IsTruthy(cond) {
		return e.Eval(ops[1], env)
	}
	if len(ops) == 3 {
		return e.Eval(ops[2], env)
	}
	return NIL, nil
}

// (while cond body)
func (e *Evaluator) evalWhile(list *ast.List, env *object.Environment) (object.Object, error) {
	if err := expectOperands(list, 2); err != nil {
		return nil, err
	}
	ops := list.Operands()

	var result object.Object = NIL
	for {
		cond, err := e.Eval(ops[0], env)
		if err != nil {
			return nil, err
		}
		if !object.IsTruthy(cond) {
			return result, nil
		}
		result, err = e.Eval(ops[1], env)
		if err != nil {
			return nil, err
		}
	}
}

// (lambda (params...) body)
func (e *Evaluator) evalLambda(list *ast.List, env *object.Environment) (object.Object, error) {
	if err := expectOperands(list, 2); err != nil {
		return nil, err
	}
	ops := list.Operands()
	params, err := paramNames(list, ops[0])
	if err != nil {
		return nil, err
	}
	return &object.Closure{Params: params, Body: ops[1], Env: env}, nil
}

// (head args...)
func (e *Evaluator) evalCall(list *ast.List, env *object.Environment) (object.Object, error) {
	fn, err := e.Eval(list.Elements[0], env)
	if err != nil {
		return nil, err
	}
	args, err := e.evalExpressions(list.Operands(), env)
	if err != nil {
		return nil, err
	}
	return e.applyFunction(fn, args)
}

func (e *Evaluator) evalExpressions(exps []ast.Node, env *object.Environment) ([]object.Object, error) {
	result := make([]object.Object, 0, len(exps))
	for _, exp := range exps {
		val, err := e.Eval(exp, env)
		if err != nil {
			return nil, err
		}
		result = append(result, val)
	}
	return result, nil
}

func (e *Evaluator) applyFunction(fnObj object.Object, args []object.Object) (object.Object, error) {
	switch fn := fnObj.(type) {
	case *object.Builtin:
		return fn.Fn(args...)

	case *object.Closure:
		return e.callClosure(fn, args)

	default:
		return nil, &object.TypeError{Op: "call", Got: object.TypeName(fnObj)}
	}
}

// callClosure binds parameters in a fresh activation whose parent is the closure's
// defining environment, never the caller's.
func (e *Evaluator) callClosure(fn *object.Closure, args []object.Object) (object.Object, error) {
	activation := object.NewEnclosedEnvironment(fn.Env)
	for i, param := range fn.Params {
		if i < len(args) {
			activation.Define(param, args[i])
		} else {
			activation.Define(param, NIL)
		}
	}
	return e.evalBody(fn.Body, activation)
}

// evalEnvironment evaluates node and requires the result to be an environment
// (class, instance or module).
func (e *Evaluator) evalEnvironment(op string, node ast.Node, env *object.Environment) (*object.Environment, error) {
	val, err := e.Eval(node, env)
	if err != nil {
		return nil, err
	}
	target, ok := val.(*object.Environment)
	if !ok {
		return nil, &object.TypeError{Op: op, Got: object.TypeName(val)}
	}
	return target, nil
}

func expectOperands(list *ast.List, n int) error {
	if len(list.Operands()) != n {
		return &object.MalformedFormError{
			Form:   list.String(),
			Reason: fmt.Sprintf("expected %d operand(s), got %d", n, len(list.Operands())),
		}
	}
	return nil
}

func symbolName(form *ast.List, node ast.Node) (string, error) {
	sym, ok := node.(*ast.Symbol)
	if !ok {
		return "", &object.MalformedFormError{Form: form.String(), Reason: "expected a name, got " + describe(node)}
	}
	if sym.Name == "" {
		return "", &object.MalformedTokenError{Token: sym.Name}
	}
	return sym.Name, nil
}

func paramNames(form *ast.List, node ast.Node) ([]string, error) {
	list, ok := node.(*ast.List)
	if !ok {
		return nil, &object.MalformedFormError{Form: form.String(), Reason: "expected a parameter list, got " + describe(node)}
	}
	params := make([]string, 0, len(list.Elements))
	for _, p := range list.Elements {
		name, err := symbolName(form, p)
		if err != nil {
			return nil, err
		}
		params = append(params, name)
	}
	return params, nil
}

func describe(node ast.Node) string {
	if node == nil {
		return "nothing"
	}
	return node.String()
}
