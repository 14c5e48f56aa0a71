package evaluator

import (
	"errors"
	"testing"

	"eva/internal/object"
)

const pointClasses = `
  (class Point null
    (begin
      (def constructor (this x y)
        (begin
          (set (prop this x) x)
          (set (prop this y) y)))
      (def calc (this)
        (+ (prop this x) (prop this y)))
      (def describe (this) "point")))

  (class Point3D Point
    (begin
      (def constructor (this x y z)
        (begin
          ((prop (super Point3D) constructor) this x y)
          (set (prop this z) z)))
      (def calc (this)
        (+ ((prop (super Point3D) calc) this) (prop this z)))))
`

func TestClasses(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"(var p (new Point 10 20)) ((prop p calc) p)", "30"},
		{"(var p (new Point3D 10 20 30)) ((prop p calc) p)", "60"},
		// inherited method, not defined on the subclass
		{"(var p (new Point3D 1 2 3)) ((prop p describe) p)", "point"},
		{"(var p (new Point3D 1 2 3)) (prop p x)", "1"},
		// instance fields shadow class members
		{"(var p (new Point 1 2)) (set (prop p calc) 99) (prop p calc)", "99"},
	}

	for _, tt := range tests {
		testInspect(t, testEval(t, pointClasses+tt.input), tt.expected)
	}
}

func TestClassEnvironments(t *testing.T) {
	e, _, _ := newTestEvaluator(nil)
	if _, err := run(e, pointClasses+"(var p (new Point3D 1 2 3))"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	point, _ := e.Global.Lookup("Point")
	point3D, _ := e.Global.Lookup("Point3D")
	p, _ := e.Global.Lookup("p")

	pointEnv := point.(*object.Environment)
	point3DEnv := point3D.(*object.Environment)
	instance := p.(*object.Environment)

	if pointEnv.Kind != object.ClassEnv || pointEnv.Outer != e.Global {
		t.Errorf("Point should be a class whose parent is the global scope")
	}
	if point3DEnv.Outer != pointEnv {
		t.Errorf("Point3D parent should be Point")
	}
	if instance.Kind != object.InstanceEnv || instance.Outer != point3DEnv {
		t.Errorf("instance parent should be its class")
	}
	if names := instance.Names(); len(names) != 3 {
		t.Errorf("constructor should populate x y z on the instance, got %v", names)
	}
	if _, ok := pointEnv.GetLocal("x"); ok {
		t.Errorf("instance fields leaked into the class")
	}

	super, err := run(e, "(super Point3D)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if super != pointEnv {
		t.Errorf("super should return the parent class environment")
	}
}

func TestSharedClassMembers(t *testing.T) {
	result := testEval(t, `
  (class Counter null
    (begin
      (var instances 0)
      (def constructor (this)
        (set instances (+ instances 1)))))
  (new Counter)
  (new Counter)
  (prop Counter instances)`)
	testNumberObject(t, result, 2)
}

func TestPropertyIncrement(t *testing.T) {
	result := testEval(t, pointClasses+`
  (var p (new Point 1 2))
  (++ (prop p x))
  (++ (prop p x))
  (prop p x)`)
	testNumberObject(t, result, 3)
}

func TestClassErrors(t *testing.T) {
	tests := []struct {
		input string
		check func(error) bool
	}{
		{"(var p (new Point 1 2)) (prop p missing)", errorIs[*object.UnboundVariableError]},
		{"(class NoCtor null (begin)) (new NoCtor)", errorIs[*object.UnboundVariableError]},
		{"(new 1)", errorIs[*object.TypeError]},
		{"(class Bad 5 (begin))", errorIs[*object.TypeError]},
		{"(set (prop 1 x) 2)", errorIs[*object.TypeError]},
	}

	for _, tt := range tests {
		e, _, _ := newTestEvaluator(nil)
		_, err := run(e, pointClasses+tt.input)
		if err == nil {
			t.Errorf("%s: expected error", tt.input)
			continue
		}
		if !tt.check(err) {
			t.Errorf("%s: wrong error %T: %v", tt.input, err, err)
		}
	}

	e, _, _ := newTestEvaluator(nil)
	_, err := run(e, pointClasses+"(var p (new Point 1 2)) (prop p missing)")
	var unbound *object.UnboundVariableError
	if errors.As(err, &unbound) && unbound.Kind != object.InstanceEnv {
		t.Errorf("missing property should be reported against the instance, got %s", unbound.Kind)
	}
}
