package evaluator

import (
	"fmt"
	"log/slog"

	"eva/internal/ast"
	"eva/internal/object"
	"eva/internal/parser"
)

// (module Name body)
func (e *Evaluator) evalModule(list *ast.List, env *object.Environment) (object.Object, error) {
	if err := expectOperands(list, 2); err != nil {
		return nil, err
	}
	ops := list.Operands()
	name, err := symbolName(list, ops[0])
	if err != nil {
		return nil, err
	}

	moduleEnv := object.NewNamedEnvironment(object.ModuleEnv, name, env)
	if _, err := e.evalBody(ops[1], moduleEnv); err != nil {
		return nil, err
	}
	return env.Define(name, moduleEnv), nil
}

// (import Name) or (import (names...) Name)
func (e *Evaluator) evalImport(list *ast.List, env *object.Environment) (object.Object, error) {
	ops := list.Operands()

	var names []string
	var nameNode ast.Node
	switch len(ops) {
	case 1:
		nameNode = ops[0]
	case 2:
		selected, err := paramNames(list, ops[0])
		if err != nil {
			return nil, err
		}
		names = selected
		nameNode = ops[1]
	default:
		return nil, &object.MalformedFormError{Form: list.String(), Reason: "import expects a module name and an optional list of names"}
	}

	moduleName, err := symbolName(list, nameNode)
	if err != nil {
		return nil, err
	}

	moduleEnv, err := e.LoadModule(moduleName)
	if err != nil {
		return nil, err
	}

	if names == nil {
		return moduleEnv, nil
	}

	for _, name := range names {
		val, err := moduleEnv.Lookup(name)
		if err != nil {
			return nil, err
		}
		e.Global.Define(name, val)
	}
	return NIL, nil
}

// LoadModule returns the environment of the named module, loading and evaluating it
// against the global environment on first use. Later calls return the cached environment
// without touching the loader.
func (e *Evaluator) LoadModule(name string) (*object.Environment, error) {
	if moduleEnv, ok := e.moduleCache[name]; ok {
		slog.Debug("module cache hit", slog.String("module", name))
		return moduleEnv, nil
	}
	if e.loading[name] {
		return nil, &object.ResourceError{Module: name, Err: fmt.Errorf("circular import")}
	}

	src, err := e.loader.Load(name)
	if err != nil {
		slog.Warn("failed to load module",
			slog.String("module", name),
			slog.Any("error", err))
		return nil, &object.ResourceError{Module: name, Err: err}
	}

	body, err := parser.ParseProgram(src.Text)
	if err != nil {
		return nil, &object.ResourceError{Module: name, Err: fmt.Errorf("%s: %w", src.Path, err)}
	}

	e.loading[name] = true
	defer delete(e.loading, name)

	result, err := e.Eval(ast.Form(ast.MODULE, ast.Sym(name), body), e.Global)
	if err != nil {
		return nil, err
	}
	moduleEnv := result.(*object.Environment)
	e.moduleCache[name] = moduleEnv

	slog.Info("loaded module",
		slog.String("module", name),
		slog.String("path", src.Path),
		slog.Uint64("env", moduleEnv.ID))
	return moduleEnv, nil
}

// CachedModule reports whether name has already been loaded by this evaluator.
func (e *Evaluator) CachedModule(name string) (*object.Environment, bool) {
	moduleEnv, ok := e.moduleCache[name]
	return moduleEnv, ok
}
