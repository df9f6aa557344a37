package mython

import (
	"bytes"
	"strings"
	"testing"
)

func runProgram(t *testing.T, source string) (string, error) {
	t.Helper()
	program, err := Parse(source)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var buf bytes.Buffer
	exec := NewEvaluator(source, &StreamContext{W: &buf})
	err = exec.Run(program, NewEnv())
	return buf.String(), err
}

func TestEvalArithmeticAndPrint(t *testing.T) {
	out, err := runProgram(t, "a = 3 + 4 * 2\nprint a\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "11\n" {
		t.Fatalf("got %q, want %q", out, "11\n")
	}
}

func TestEvalInitAndStr(t *testing.T) {
	source := strings.Join([]string{
		"class Point:",
		"  def __init__(x, y):",
		"    self.x = x",
		"    self.y = y",
		"  def __str__():",
		"    return str(self.x) + \",\" + str(self.y)",
		"",
		"p = Point(3, 4)",
		"print p",
		"",
	}, "\n")

	out, err := runProgram(t, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "3,4\n" {
		t.Fatalf("got %q, want %q", out, "3,4\n")
	}
}

func TestEvalInheritanceOverride(t *testing.T) {
	source := strings.Join([]string{
		"class A:",
		"  def greet():",
		"    return \"A\"",
		"",
		"class B(A):",
		"  def greet():",
		"    return \"B\"",
		"",
		"class C(B):",
		"  pass",
		"",
		"print A().greet()",
		"print B().greet()",
		"print C().greet()",
		"",
	}, "\n")

	out, err := runProgram(t, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "A\nB\nB\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestEvalShortCircuitAndTruthiness(t *testing.T) {
	source := strings.Join([]string{
		"def_ran = 0",
		"",
		"class Sentinel:",
		"  def __init__():",
		"    print \"evaluated\"",
		"",
		"r = False and Sentinel()",
		"print r",
		"r2 = True or Sentinel()",
		"print r2",
		"",
	}, "\n")

	out, err := runProgram(t, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "evaluated") {
		t.Fatalf("expected short-circuit to skip the right operand, got %q", out)
	}
	want := "False\nTrue\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestEvalNestedIfReturnUnwinding(t *testing.T) {
	source := strings.Join([]string{
		"class Classifier:",
		"  def classify(n):",
		"    if n < 0:",
		"      return \"negative\"",
		"    else:",
		"      if n == 0:",
		"        return \"zero\"",
		"      else:",
		"        return \"positive\"",
		"    print \"unreachable\"",
		"",
		"c = Classifier()",
		"print c.classify(5)",
		"print c.classify(0)",
		"print c.classify(-3)",
		"",
	}, "\n")

	out, err := runProgram(t, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "unreachable") {
		t.Fatalf("return should have unwound before the trailing print, got %q", out)
	}
	want := "positive\nzero\nnegative\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	_, err := runProgram(t, "a = 1 / 0\n")
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if rerr.Message != "try to divide to zero" {
		t.Fatalf("got message %q", rerr.Message)
	}
}

func TestEvalShortCircuitPurity(t *testing.T) {
	source := strings.Join([]string{
		"class Boom:",
		"  def __init__():",
		"    print \"boom\"",
		"",
		"x = True and False and Boom()",
		"print x",
		"",
	}, "\n")

	out, err := runProgram(t, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "boom") {
		t.Fatalf("expected the chain to short-circuit before constructing Boom, got %q", out)
	}
	if out != "False\n" {
		t.Fatalf("got %q", out)
	}
}

func TestEvalStringifyRoundTrip(t *testing.T) {
	out, err := runProgram(t, "print str(42) + str(True) + str(None)\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "42TrueNone\n" {
		t.Fatalf("got %q", out)
	}
}

func TestEvalUndefinedVariable(t *testing.T) {
	_, err := runProgram(t, "print missing\n")
	if err == nil {
		t.Fatalf("expected a runtime error for an undefined variable")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if rerr.Message != "variable missing not found" {
		t.Fatalf("got message %q", rerr.Message)
	}
}

func TestEvalDottedFieldAccess(t *testing.T) {
	source := strings.Join([]string{
		"class Pair:",
		"  def __init__(a, b):",
		"    self.a = a",
		"    self.b = b",
		"",
		"p = Pair(1, 2)",
		"print p.a + p.b",
		"",
	}, "\n")

	out, err := runProgram(t, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "3\n" {
		t.Fatalf("got %q", out)
	}
}
