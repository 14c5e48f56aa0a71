package evaluator

import (
	"eva/internal/ast"
	"eva/internal/object"
)

const constructorName = "constructor"

// (class Name Parent body)
//
// A class is an environment whose parent is the superclass (or the current scope when
// Parent evaluates to null). The body installs methods and shared fields as ordinary
// definitions.
func (e *Evaluator) evalClass(list *ast.List, env *object.Environment) (object.Object, error) {
	if err := expectOperands(list, 3); err != nil {
		return nil, err
	}
	ops := list.Operands()
	name, err := symbolName(list, ops[0])
	if err != nil {
		return nil, err
	}

	parentObj, err := e.Eval(ops[1], env)
	if err != nil {
		return nil, err
	}
	parentEnv := env
	switch parent := parentObj.(type) {
	case *object.Nil:
	case *object.Environment:
		parentEnv = parent
	default:
		return nil, &object.TypeError{Op: "class " + name + " parent", Got: object.TypeName(parentObj)}
	}

	classEnv := object.NewNamedEnvironment(object.ClassEnv, name, parentEnv)
	if _, err := e.evalBody(ops[2], classEnv); err != nil {
		return nil, err
	}
	return env.Define(name, classEnv), nil
}

// (super Name) evaluates to the parent environment of the class.
func (e *Evaluator) evalSuper(list *ast.List, env *object.Environment) (object.Object, error) {
	if err := expectOperands(list, 1); err != nil {
		return nil, err
	}
	classEnv, err := e.evalEnvironment("super", list.Operands()[0], env)
	if err != nil {
		return nil, err
	}
	if classEnv.Outer == nil {
		return NIL, nil
	}
	return classEnv.Outer, nil
}

// (new Class args...)
func (e *Evaluator) evalNew(list *ast.List, env *object.Environment) (object.Object, error) {
	ops := list.Operands()
	if len(ops) == 0 {
		return nil, &object.MalformedFormError{Form: list.String(), Reason: "new expects a class"}
	}
	classEnv, err := e.evalEnvironment("new", ops[0], env)
	if err != nil {
		return nil, err
	}

	instance := object.NewNamedEnvironment(object.InstanceEnv, classEnv.Name, classEnv)

	args, err := e.evalExpressions(ops[1:], env)
	if err != nil {
		return nil, err
	}

	constructor, err := classEnv.Lookup(constructorName)
	if err != nil {
		return nil, err
	}
	callArgs := make([]object.Object, 0, len(args)+1)
	callArgs = append(callArgs, instance)
	callArgs = append(callArgs, args...)
	if _, err := e.applyFunction(constructor, callArgs); err != nil {
		return nil, err
	}
	return instance, nil
}

// (prop instance name) is plain lookup on the instance chain: instance, class, superclasses.
func (e *Evaluator) evalProp(list *ast.List, env *object.Environment) (object.Object, error) {
	if err := expectOperands(list, 2); err != nil {
		return nil, err
	}
	ops := list.Operands()
	instance, err := e.evalEnvironment("prop", ops[0], env)
	if err != nil {
		return nil, err
	}
	name, err := symbolName(list, ops[1])
	if err != nil {
		return nil, err
	}
	return instance.Lookup(name)
}
