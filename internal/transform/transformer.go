package transform

import (
	"fmt"

	"eva/internal/ast"
	"eva/internal/object"
)

// Transformer rewrites sugared forms into kernel forms. It never evaluates anything and
// never mutates its input; every method returns a freshly built node.
type Transformer struct{}

func New() *Transformer {
	return &Transformer{}
}

// Transform dispatches on the tag of a sugared form.
func (t *Transformer) Transform(exp *ast.List) (ast.Node, error) {
	switch exp.Tag() {
	case ast.DEF:
		return t.DefToVarLambda(exp)
	case ast.SWITCH:
		return t.SwitchToIf(exp)
	case ast.FOR:
		return t.ForToWhile(exp)
	case ast.INC:
		return t.IncToSet(exp)
	case ast.DEC:
		return t.DecToSet(exp)
	}
	return nil, &object.UnimplementedFormError{Form: exp.String()}
}

// DefToVarLambda: (def name params body) => (var name (lambda params body))
func (t *Transformer) DefToVarLambda(exp *ast.List) (ast.Node, error) {
	if err := expectOperands(exp, 3); err != nil {
		return nil, err
	}
	ops := exp.Operands()
	name, params, body := ops[0], ops[1], ops[2]
	return ast.Form(ast.VAR, name, ast.Form(ast.LAMBDA, params, body)), nil
}

// SwitchToIf: (switch (c1 b1) (c2 b2) (else b3)) => (if c1 b1 (if c2 b2 b3))
func (t *Transformer) SwitchToIf(exp *ast.List) (ast.Node, error) {
	cases := exp.Operands()
	if len(cases) == 0 {
		return nil, &object.MalformedFormError{Form: exp.String(), Reason: "switch needs at least one case"}
	}

	type clause struct{ cond, block ast.Node }
	clauses := make([]clause, len(cases))
	for i, c := range cases {
		pair, ok := c.(*ast.List)
		if !ok || len(pair.Elements) != 2 {
			return nil, &object.MalformedFormError{Form: exp.String(), Reason: "switch case must be (condition block)"}
		}
		if ast.IsSymbol(pair.Elements[0], ast.ELSE) && i != len(cases)-1 {
			return nil, &object.MalformedFormError{Form: exp.String(), Reason: "else must be the last case"}
		}
		clauses[i] = clause{cond: pair.Elements[0], block: pair.Elements[1]}
	}

	// Build from the bottom up so each `if` is constructed complete.
	var result ast.Node
	start := len(clauses) - 1
	if ast.IsSymbol(clauses[start].cond, ast.ELSE) {
		result = clauses[start].block
		start--
	}
	for i := start; i >= 0; i-- {
		if result == nil {
			result = ast.Form(ast.IF, clauses[i].cond, clauses[i].block)
			continue
		}
		result = ast.Form(ast.IF, clauses[i].cond, clauses[i].block, result)
	}
	return result, nil
}

// ForToWhile: (for init cond step body) => (begin init (while cond (begin body step)))
func (t *Transformer) ForToWhile(exp *ast.List) (ast.Node, error) {
	if err := expectOperands(exp, 4); err != nil {
		return nil, err
	}
	ops := exp.Operands()
	init, cond, step, body := ops[0], ops[1], ops[2], ops[3]
	return ast.Form(ast.BEGIN,
		init,
		ast.Form(ast.WHILE, cond, ast.Form(ast.BEGIN, body, step)),
	), nil
}

// IncToSet: (++ x) => (set x (+ x 1))
func (t *Transformer) IncToSet(exp *ast.List) (ast.Node, error) {
	return t.stepToSet(exp, "+")
}

// DecToSet: (-- x) => (set x (- x 1))
func (t *Transformer) DecToSet(exp *ast.List) (ast.Node, error) {
	return t.stepToSet(exp, "-")
}

func (t *Transformer) stepToSet(exp *ast.List, op string) (ast.Node, error) {
	if err := expectOperands(exp, 1); err != nil {
		return nil, err
	}
	target := exp.Operands()[0]
	return ast.Form(ast.SET, target, ast.Form(op, target, ast.Num(1))), nil
}

func expectOperands(exp *ast.List, n int) error {
	if len(exp.Operands()) != n {
		return &object.MalformedFormError{
			Form:   exp.String(),
			Reason: fmt.Sprintf("expected %d operand(s), got %d", n, len(exp.Operands())),
		}
	}
	return nil
}
