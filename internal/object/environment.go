package object

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
)

var nextID atomic.Uint64

// EnvKind tags what an Environment is being used as. Lookup is identical for all of them.
type EnvKind int

const (
	ScopeEnv EnvKind = iota
	ClassEnv
	InstanceEnv
	ModuleEnv
)

var envKindNames = [...]string{"scope", "class", "instance", "module"}

func (k EnvKind) String() string {
	if int(k) < len(envKindNames) {
		return envKindNames[k]
	}
	return "unknown"
}

// Environment is a scope frame: bindings plus an optional link to the enclosing frame.
// Classes, instances and modules are environments too, so the parent chain doubles as
// the method resolution order.
type Environment struct {
	ID       uint64
	Kind     EnvKind
	Name     string
	Bindings map[string]Object
	Outer    *Environment

	mu sync.RWMutex
}

func nextEnvID() uint64 {
	return nextID.Add(1)
}

func NewEnvironment() *Environment {
	return &Environment{
		ID:       nextEnvID(),
		Kind:     ScopeEnv,
		Bindings: make(map[string]Object),
	}
}

// NewEnclosedEnvironment creates a child scope of outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	return env
}

// NewNamedEnvironment creates a class, instance or module frame.
func NewNamedEnvironment(kind EnvKind, name string, outer *Environment) *Environment {
	env := NewEnclosedEnvironment(outer)
	env.Kind = kind
	env.Name = name
	slog.Debug("new environment",
		slog.Uint64("id", env.ID),
		slog.String("kind", kind.String()),
		slog.String("name", name))
	return env
}

func (e *Environment) Type() ObjectType { return ENVIRONMENT_OBJ }
func (e *Environment) Inspect() string {
	if e.Name != "" {
		return fmt.Sprintf("<%s %s#%d>", e.Kind, e.Name, e.ID)
	}
	return fmt.Sprintf("<%s#%d>", e.Kind, e.ID)
}

// Define installs or overwrites name in this frame only.
func (e *Environment) Define(name string, val Object) Object {
	e.mu.Lock()
	e.Bindings[name] = val
	e.mu.Unlock()

	slog.Debug("binding value",
		slog.Uint64("env", e.ID),
		slog.String("name", name),
		slog.String("type", TypeName(val)))
	return val
}

// Assign updates name in the nearest frame that owns it. It never creates a binding.
func (e *Environment) Assign(name string, val Object) (Object, error) {
	owner, err := e.Resolve(name)
	if err != nil {
		return nil, err
	}

	owner.mu.Lock()
	owner.Bindings[name] = val
	owner.mu.Unlock()

	slog.Debug("assigning bound value",
		slog.Uint64("env", owner.ID),
		slog.String("name", name),
		slog.String("type", TypeName(val)))
	return val, nil
}

// Lookup returns the value of name from the nearest frame that owns it.
func (e *Environment) Lookup(name string) (Object, error) {
	owner, err := e.Resolve(name)
	if err != nil {
		return nil, err
	}
	val, _ := owner.GetLocal(name)
	return val, nil
}

// Resolve returns the frame in which name is defined, searching outward from e.
func (e *Environment) Resolve(name string) (*Environment, error) {
	for env := e; env != nil; env = env.Outer {
		if _, ok := env.GetLocal(name); ok {
			return env, nil
		}
	}
	return nil, &UnboundVariableError{Name: name, Kind: e.Kind}
}

// GetLocal reads a binding from this frame only; it does not walk outers.
func (e *Environment) GetLocal(name string) (Object, bool) {
	e.mu.RLock()
	val, ok := e.Bindings[name]
	e.mu.RUnlock()
	return val, ok
}

// Names lists the bindings of this frame in sorted order.
func (e *Environment) Names() []string {
	e.mu.RLock()
	names := make([]string, 0, len(e.Bindings))
	for name := range e.Bindings {
		names = append(names, name)
	}
	e.mu.RUnlock()
	sort.Strings(names)
	return names
}
