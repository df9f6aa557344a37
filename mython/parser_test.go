package mython

import (
	"strings"
	"testing"
)

func TestParseAssignment(t *testing.T) {
	prog, err := Parse("a = 1\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Stmts))
	}
	a, ok := prog.Stmts[0].(*Assignment)
	if !ok {
		t.Fatalf("expected *Assignment, got %T", prog.Stmts[0])
	}
	if a.Name != "a" {
		t.Fatalf("got name %q", a.Name)
	}
	if _, ok := a.Rhs.(*NumericConst); !ok {
		t.Fatalf("expected numeric rhs, got %T", a.Rhs)
	}
}

func TestParseFieldAssignment(t *testing.T) {
	prog, err := Parse("self.x = 1\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	fa, ok := prog.Stmts[0].(*FieldAssignment)
	if !ok {
		t.Fatalf("expected *FieldAssignment, got %T", prog.Stmts[0])
	}
	if len(fa.ObjectPath) != 1 || fa.ObjectPath[0] != "self" || fa.Field != "x" {
		t.Fatalf("unexpected field assignment shape: %+v", fa)
	}
}

func TestParseIfElse(t *testing.T) {
	source := "if a:\n  print 1\nelse:\n  print 2\n"
	prog, err := Parse(source)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ifNode, ok := prog.Stmts[0].(*IfElse)
	if !ok {
		t.Fatalf("expected *IfElse, got %T", prog.Stmts[0])
	}
	if ifNode.Else == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestParseClassWithInheritance(t *testing.T) {
	source := strings.Join([]string{
		"class B(A):",
		"  def f():",
		"    return 1",
		"",
	}, "\n")
	prog, err := Parse(source)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	cd, ok := prog.Stmts[0].(*ClassDefinition)
	if !ok {
		t.Fatalf("expected *ClassDefinition, got %T", prog.Stmts[0])
	}
	if cd.ParentName != "A" {
		t.Fatalf("expected parent name A, got %q", cd.ParentName)
	}
	if len(cd.Def.Methods) != 1 || cd.Def.Methods[0].Name != "f" {
		t.Fatalf("unexpected methods: %+v", cd.Def.Methods)
	}
}

func TestParseClassPassBody(t *testing.T) {
	prog, err := Parse("class C(B):\n  pass\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	cd := prog.Stmts[0].(*ClassDefinition)
	if len(cd.Def.Methods) != 0 {
		t.Fatalf("expected no methods for a pass body, got %d", len(cd.Def.Methods))
	}
}

func TestParseNewInstanceVsMethodCall(t *testing.T) {
	source := "p = Point(1, 2)\nprint p.dist(3)\n"
	prog, err := Parse(source)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	assign := prog.Stmts[0].(*Assignment)
	if _, ok := assign.Rhs.(*NewInstanceExpr); !ok {
		t.Fatalf("expected a NewInstanceExpr for Point(1, 2), got %T", assign.Rhs)
	}

	printStmt := prog.Stmts[1].(*Print)
	call, ok := printStmt.Args[0].(*MethodCall)
	if !ok {
		t.Fatalf("expected a MethodCall for p.dist(3), got %T", printStmt.Args[0])
	}
	if call.Method != "dist" || len(call.Args) != 1 {
		t.Fatalf("unexpected method call shape: %+v", call)
	}
	obj, ok := call.Object.(*VariableValue)
	if !ok || len(obj.Path) != 1 || obj.Path[0] != "p" {
		t.Fatalf("unexpected method call object: %+v", call.Object)
	}
}

func TestParseChainedCall(t *testing.T) {
	prog, err := Parse("print C().greet()\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	printStmt := prog.Stmts[0].(*Print)
	outer, ok := printStmt.Args[0].(*MethodCall)
	if !ok {
		t.Fatalf("expected outer MethodCall, got %T", printStmt.Args[0])
	}
	if outer.Method != "greet" {
		t.Fatalf("got method %q", outer.Method)
	}
	if _, ok := outer.Object.(*NewInstanceExpr); !ok {
		t.Fatalf("expected NewInstanceExpr as call receiver, got %T", outer.Object)
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog, err := Parse("a = 1 + 2 * 3\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	add, ok := prog.Stmts[0].(*Assignment).Rhs.(*Add)
	if !ok {
		t.Fatalf("expected top-level Add, got %T", prog.Stmts[0].(*Assignment).Rhs)
	}
	if _, ok := add.R.(*Mult); !ok {
		t.Fatalf("expected the right operand to be a Mult (higher precedence), got %T", add.R)
	}
}

func TestParseComparisonOperators(t *testing.T) {
	cases := map[string]CompareOp{
		"a == b\n": CompareEqual,
		"a != b\n": CompareNotEqual,
		"a <= b\n": CompareLessOrEqual,
		"a >= b\n": CompareGreaterOrEqual,
		"a < b\n":  CompareLess,
		"a > b\n":  CompareGreater,
	}
	for source, want := range cases {
		prog, err := Parse(source)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", source, err)
		}
		cmp, ok := prog.Stmts[0].(*Comparison)
		if !ok {
			t.Fatalf("Parse(%q): expected *Comparison, got %T", source, prog.Stmts[0])
		}
		if cmp.Op != want {
			t.Fatalf("Parse(%q): got op %v, want %v", source, cmp.Op, want)
		}
	}
}

func TestParseMalformedIndentIsParseError(t *testing.T) {
	_, err := Parse("if a:\nprint 1\n")
	if err == nil {
		t.Fatalf("expected a parse error for a missing indent after ':'")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}
