package object

import "fmt"

// UnboundVariableError is returned when a name is not found anywhere on an environment chain.
// Kind is the kind of the frame the search started from.
type UnboundVariableError struct {
	Name string
	Kind EnvKind
}

func (e *UnboundVariableError) Error() string {
	if e.Kind == InstanceEnv {
		return fmt.Sprintf("property %q is not defined", e.Name)
	}
	return fmt.Sprintf("variable %q is not defined", e.Name)
}

// UnimplementedFormError is returned for a node that matches none of the recognized shapes.
type UnimplementedFormError struct {
	Form string
}

func (e *UnimplementedFormError) Error() string {
	return fmt.Sprintf("unimplemented: %s", e.Form)
}

// MalformedTokenError is returned for an empty symbol.
type MalformedTokenError struct {
	Token string
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("malformed token %q", e.Token)
}

// MalformedFormError is returned when a special form has the wrong shape.
type MalformedFormError struct {
	Form   string
	Reason string
}

func (e *MalformedFormError) Error() string {
	return fmt.Sprintf("malformed form %s: %s", e.Form, e.Reason)
}

// TypeError is returned when an operation receives a value of the wrong type.
type TypeError struct {
	Op  string
	Got string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: unexpected %s", e.Op, e.Got)
}

// ResourceError wraps a failure of the module loader during import.
type ResourceError struct {
	Module string
	Err    error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("failed to load module '%s': %v", e.Module, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// ArityError is returned when a native function receives the wrong number of arguments.
type ArityError struct {
	Name     string
	Expected string
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("wrong number of arguments to `%s`. got=%d, want=%s", e.Name, e.Got, e.Expected)
}
