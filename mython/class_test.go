package mython

import "testing"

func TestClassGetMethodOwnBeforeParent(t *testing.T) {
	base := NewClass("Base", nil)
	base.AddMethod(&Method{Name: "greet", Params: nil})
	derived := NewClass("Derived", base)
	derived.AddMethod(&Method{Name: "greet", Params: []string{"who"}})

	m := derived.GetMethod("greet")
	if m == nil || len(m.Params) != 1 {
		t.Fatalf("expected Derived's own greet to shadow Base's, got %+v", m)
	}
}

func TestClassGetMethodFallsBackToParent(t *testing.T) {
	base := NewClass("Base", nil)
	base.AddMethod(&Method{Name: "only_in_base", Params: nil})
	derived := NewClass("Derived", base)

	m := derived.GetMethod("only_in_base")
	if m == nil {
		t.Fatalf("expected Derived to inherit only_in_base from Base")
	}
}

func TestClassGetMethodMissingReturnsNil(t *testing.T) {
	c := NewClass("Lonely", nil)
	if m := c.GetMethod("nope"); m != nil {
		t.Fatalf("expected nil for an undeclared method, got %+v", m)
	}
}

// TestClassResolutionIsInsertionOrderStable pins down the declaration-order
// linear scan: the first method with a matching name wins, even when a
// later declaration in the same class shares the name.
func TestClassResolutionIsInsertionOrderStable(t *testing.T) {
	c := NewClass("Weird", nil)
	first := &Method{Name: "dup", Params: nil}
	second := &Method{Name: "dup", Params: []string{"x"}}
	c.AddMethod(first)
	c.AddMethod(second)

	if got := c.GetMethod("dup"); got != first {
		t.Fatalf("expected first declared method to win, got %+v", got)
	}
}

func TestClassHasMethodChecksArity(t *testing.T) {
	c := NewClass("C", nil)
	c.AddMethod(&Method{Name: "f", Params: []string{"a", "b"}})

	if !c.HasMethod("f", 2) {
		t.Fatalf("expected HasMethod(f, 2) to be true")
	}
	if c.HasMethod("f", 1) {
		t.Fatalf("expected HasMethod(f, 1) to be false")
	}
	if c.HasMethod("g", 0) {
		t.Fatalf("expected HasMethod(g, 0) to be false for an undeclared method")
	}
}

func TestNewInstanceInvokesInit(t *testing.T) {
	exec := NewEvaluator("", &StreamContext{W: discardWriter{}})
	c := NewClass("Point", nil)
	c.AddMethod(&Method{
		Name:   "__init__",
		Params: []string{"x"},
		Body: &MethodBody{Body: &Compound{Stmts: []Node{
			&FieldAssignment{ObjectPath: []string{"self"}, Field: "x", Rhs: &VariableValue{Path: []string{"x"}}},
		}}},
	})

	inst, err := exec.NewInstance(c, []Value{NewInt(7)}, Position{})
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}
	got, ok := inst.Fields.Get("x")
	if !ok || got.Int() != 7 {
		t.Fatalf("expected __init__ to have set x=7, got %+v (ok=%v)", got, ok)
	}
}

func TestNewInstanceIsFreshEachTime(t *testing.T) {
	exec := NewEvaluator("", &StreamContext{W: discardWriter{}})
	c := NewClass("Counter", nil)

	a, err := exec.NewInstance(c, nil, Position{})
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}
	b, err := exec.NewInstance(c, nil, Position{})
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}
	if a == b {
		t.Fatalf("expected two independent instances, got the same pointer")
	}
	a.Fields.Set("seen", NewBool(true))
	if b.Fields.Contains("seen") {
		t.Fatalf("expected instances to have independent field environments")
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
