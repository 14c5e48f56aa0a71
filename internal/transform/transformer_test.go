package transform

import (
	"errors"
	"testing"

	"eva/internal/ast"
	"eva/internal/object"
	"eva/internal/parser"
)

func parseList(t *testing.T, src string) *ast.List {
	t.Helper()
	node, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	list, ok := node.(*ast.List)
	if !ok {
		t.Fatalf("expected list, got %T", node)
	}
	return list
}

func TestTransform(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"(def square (x) (* x x))",
			"(var square (lambda (x) (* x x)))",
		},
		{
			"(switch ((= x 1) 100) ((> x 1) 200) (else 300))",
			"(if (= x 1) 100 (if (> x 1) 200 300))",
		},
		{
			"(switch ((= x 1) 1) ((= x 2) 2) ((= x 3) 3) (else 0))",
			"(if (= x 1) 1 (if (= x 2) 2 (if (= x 3) 3 0)))",
		},
		{
			"(switch ((= x 1) 1) ((= x 2) 2))",
			"(if (= x 1) 1 (if (= x 2) 2))",
		},
		{
			"(switch (else 7))",
			"7",
		},
		{
			"(for (var i 0) (< i 10) (++ i) (print i))",
			"(begin (var i 0) (while (< i 10) (begin (print i) (++ i))))",
		},
		{
			"(++ counter)",
			"(set counter (+ counter 1))",
		},
		{
			"(-- counter)",
			"(set counter (- counter 1))",
		},
		{
			"(++ (prop this count))",
			"(set (prop this count) (+ (prop this count) 1))",
		},
	}

	tr := New()
	for _, tt := range tests {
		out, err := tr.Transform(parseList(t, tt.input))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.input, err)
		}
		if out.String() != tt.expected {
			t.Errorf("%s:\nexpected %s\ngot      %s", tt.input, tt.expected, out.String())
		}
	}
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	tr := New()
	inputs := []string{
		"(def f (a b) (+ a b))",
		"(switch ((< x 0) -1) (else 1))",
		"(for (var i 0) (< i 3) (++ i) i)",
		"(++ i)",
		"(-- i)",
	}

	for _, src := range inputs {
		in := parseList(t, src)
		before := in.String()
		if _, err := tr.Transform(in); err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if in.String() != before {
			t.Errorf("input mutated: was %s, now %s", before, in.String())
		}
	}
}

func TestTransformMalformed(t *testing.T) {
	tests := []string{
		"(def f (x))",
		"(switch)",
		"(switch (else 1) ((= x 1) 2))",
		"(switch ((= x 1)))",
		"(for (var i 0) (< i 3) (++ i))",
		"(++)",
		"(-- a b)",
	}

	tr := New()
	for _, src := range tests {
		_, err := tr.Transform(parseList(t, src))
		var malformed *object.MalformedFormError
		if !errors.As(err, &malformed) {
			t.Errorf("%s: expected MalformedFormError, got %v", src, err)
		}
	}
}

func TestTransformRejectsKernelForms(t *testing.T) {
	_, err := New().Transform(parseList(t, "(var x 1)"))
	var unimplemented *object.UnimplementedFormError
	if !errors.As(err, &unimplemented) {
		t.Errorf("expected UnimplementedFormError, got %v", err)
	}
}
