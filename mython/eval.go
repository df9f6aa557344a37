package mython

import (
	"fmt"
	"io"
)

// IOContext is the abstraction the evaluator uses to print. Callers inject
// it so tests can redirect output without touching the evaluator.
type IOContext interface {
	Output() io.Writer
}

// StreamContext is the trivial IOContext backing real programs: a single
// io.Writer, threaded into the evaluator instead of the evaluator reaching
// for os.Stdout directly.
type StreamContext struct {
	W io.Writer
}

func (c *StreamContext) Output() io.Writer { return c.W }

type callFrame struct {
	Method string
	Pos    Position
}

// Config bounds how much work an Evaluator may do: StepQuota caps the
// number of node evaluations, counted across every Run/EvalStatement call
// made on the same Evaluator, and RecursionLimit caps nested method-call
// depth. Both guard against runaway or unbounded
// recursive programs; zero means "use the default".
type Config struct {
	StepQuota      int
	RecursionLimit int
}

const (
	defaultStepQuota      = 500000
	defaultRecursionLimit = 512
)

// Evaluator walks a Node tree against chained (in the sense of nested-call,
// not lexically-nested — see Env) environments. It is single-threaded: an
// Evaluator value must not be shared across concurrent Run/EvalStatement
// calls.
type Evaluator struct {
	source    string
	io        IOContext
	config    Config
	steps     int
	callStack []callFrame
}

// NewEvaluator constructs an Evaluator that reports source positions
// against source (used only for error code frames) and prints to io, using
// default execution bounds.
func NewEvaluator(source string, io IOContext) *Evaluator {
	return NewEvaluatorWithConfig(source, io, Config{})
}

// NewEvaluatorWithConfig is NewEvaluator with caller-supplied execution
// bounds; a zero field in cfg falls back to its default.
func NewEvaluatorWithConfig(source string, io IOContext, cfg Config) *Evaluator {
	if cfg.StepQuota <= 0 {
		cfg.StepQuota = defaultStepQuota
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	return &Evaluator{source: source, io: io, config: cfg}
}

func (exec *Evaluator) runtimeErrorf(pos Position, format string, args ...any) *RuntimeError {
	return newRuntimeError(exec.source, pos, format, args...)
}

// Run evaluates a top-level program: a Compound of statements against env.
// A `return` that escapes every MethodBody (i.e. one written outside any
// method) is reported as a runtime error rather than silently discarded,
// since a return-carrier must never reach user-visible results.
func (exec *Evaluator) Run(program *Compound, env *Env) error {
	_, returned, err := exec.eval(program, env)
	if err != nil {
		return err
	}
	if returned {
		return exec.runtimeErrorf(program.Pos(), "return used outside of a method body")
	}
	return nil
}

// EvalStatement parses source as a standalone program body and evaluates it
// against env, returning the value produced by its final statement (None if
// the program was empty). It is the interactive shell's per-line entry
// point: unlike Run, source may be a bare expression or a handful of
// statements rather than a whole file, and env is supplied by the caller so
// bindings persist across calls.
func (exec *Evaluator) EvalStatement(source string, env *Env) (Value, error) {
	program, err := Parse(source)
	if err != nil {
		return NewNone(), err
	}
	val, returned, err := exec.eval(program, env)
	if err != nil {
		return NewNone(), err
	}
	if returned {
		return NewNone(), exec.runtimeErrorf(program.Pos(), "return used outside of a method body")
	}
	return val, nil
}

// eval is the single dispatch function over the Node sum type. It returns
// the produced value, whether a Return is currently unwinding (the
// "return-carrier"), and any error.
func (exec *Evaluator) eval(node Node, env *Env) (Value, bool, error) {
	exec.steps++
	if exec.steps > exec.config.StepQuota {
		return NewNone(), false, exec.runtimeErrorf(node.Pos(), "step quota exceeded (%d steps)", exec.config.StepQuota)
	}
	switch n := node.(type) {
	case *NumericConst:
		return NewInt(n.Value), false, nil
	case *StringConst:
		return NewString(n.Value), false, nil
	case *BoolConst:
		return NewBool(n.Value), false, nil
	case *NoneLiteral:
		return NewNone(), false, nil
	case *VariableValue:
		v, err := exec.resolvePath(env, n.Path, n.Pos())
		return v, false, err
	case *Assignment:
		val, _, err := exec.eval(n.Rhs, env)
		if err != nil {
			return NewNone(), false, err
		}
		env.Set(n.Name, val)
		return val, false, nil
	case *FieldAssignment:
		return exec.evalFieldAssignment(n, env)
	case *Print:
		return exec.evalPrint(n, env)
	case *MethodCall:
		return exec.evalMethodCall(n, env)
	case *Stringify:
		return exec.evalStringify(n, env)
	case *Add:
		return exec.evalAdd(n, env)
	case *Sub:
		return exec.evalArith(n.L, n.R, env, n.Pos(), "cannot subtract arguments (valid for numbers only)",
			func(a, b int64) int64 { return a - b })
	case *Mult:
		return exec.evalArith(n.L, n.R, env, n.Pos(), "cannot multiply arguments (valid for numbers only)",
			func(a, b int64) int64 { return a * b })
	case *Div:
		return exec.evalDiv(n, env)
	case *Or:
		return exec.evalOr(n, env)
	case *And:
		return exec.evalAnd(n, env)
	case *Not:
		v, _, err := exec.eval(n.X, env)
		if err != nil {
			return NewNone(), false, err
		}
		return NewBool(!v.Truthy()), false, nil
	case *Comparison:
		return exec.evalComparison(n, env)
	case *Compound:
		return exec.evalCompound(n, env)
	case *NewInstanceExpr:
		return exec.evalNewInstance(n, env)
	case *ClassDefinition:
		if n.ParentName != "" {
			parentVal, ok := env.Get(n.ParentName)
			if !ok || parentVal.Kind() != KindClass {
				return NewNone(), false, exec.runtimeErrorf(n.Pos(), "%s is not a class", n.ParentName)
			}
			n.Def.Parent = parentVal.Class()
		}
		env.Set(n.Def.Name, NewClassValue(n.Def))
		return NewNone(), false, nil
	case *IfElse:
		return exec.evalIfElse(n, env)
	case *Return:
		val, _, err := exec.eval(n.Expr, env)
		if err != nil {
			return NewNone(), false, err
		}
		return val, true, nil
	case *MethodBody:
		val, returned, err := exec.eval(n.Body, env)
		if err != nil {
			return NewNone(), false, err
		}
		if returned {
			return val, false, nil
		}
		return NewNone(), false, nil
	default:
		return NewNone(), false, exec.runtimeErrorf(node.Pos(), "unsupported node")
	}
}

func (exec *Evaluator) evalCompound(n *Compound, env *Env) (Value, bool, error) {
	result := NewNone()
	for _, stmt := range n.Stmts {
		val, returned, err := exec.eval(stmt, env)
		if err != nil {
			return NewNone(), false, err
		}
		if returned {
			return val, true, nil
		}
		result = val
	}
	return result, false, nil
}

func (exec *Evaluator) evalIfElse(n *IfElse, env *Env) (Value, bool, error) {
	cond, _, err := exec.eval(n.Cond, env)
	if err != nil {
		return NewNone(), false, err
	}
	if cond.Truthy() {
		return exec.eval(n.Then, env)
	}
	if n.Else != nil {
		return exec.eval(n.Else, env)
	}
	return NewNone(), false, nil
}

// resolvePath implements VariableValue's dotted-access rule: every element
// but the last must resolve to an Instance to descend into; the final
// element is a plain lookup in whatever environment that leaves us in.
func (exec *Evaluator) resolvePath(env *Env, path []string, pos Position) (Value, error) {
	cur := env
	for i, id := range path {
		v, ok := cur.Get(id)
		if !ok {
			return NewNone(), exec.runtimeErrorf(pos, "variable %s not found", id)
		}
		if i == len(path)-1 {
			return v, nil
		}
		if v.Kind() != KindInstance {
			return NewNone(), exec.runtimeErrorf(pos, "variable %s not found", id)
		}
		cur = v.Instance().Fields
	}
	return NewNone(), exec.runtimeErrorf(pos, "variable %s not found", path[0])
}

// resolveInstancePath resolves every element of path (including the last)
// through the VariableValue descent rule and requires the final value to be
// an Instance, for FieldAssignment's object path.
func (exec *Evaluator) resolveInstancePath(env *Env, path []string, pos Position) (*Instance, error) {
	v, err := exec.resolvePath(env, path, pos)
	if err != nil {
		return nil, err
	}
	if v.Kind() != KindInstance {
		return nil, exec.runtimeErrorf(pos, "variable %s not found", path[len(path)-1])
	}
	return v.Instance(), nil
}

func (exec *Evaluator) evalFieldAssignment(n *FieldAssignment, env *Env) (Value, bool, error) {
	val, _, err := exec.eval(n.Rhs, env)
	if err != nil {
		return NewNone(), false, err
	}
	inst, err := exec.resolveInstancePath(env, n.ObjectPath, n.Pos())
	if err != nil {
		return NewNone(), false, err
	}
	inst.Fields.Set(n.Field, val)
	return val, false, nil
}

func (exec *Evaluator) evalPrint(n *Print, env *Env) (Value, bool, error) {
	parts := make([]string, len(n.Args))
	for i, arg := range n.Args {
		val, _, err := exec.eval(arg, env)
		if err != nil {
			return NewNone(), false, err
		}
		if val.IsNone() {
			parts[i] = "None"
			continue
		}
		s, err := val.PrintString(exec)
		if err != nil {
			return NewNone(), false, err
		}
		parts[i] = s
	}
	w := exec.io.Output()
	for i, p := range parts {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprint(w, p)
	}
	fmt.Fprint(w, "\n")
	return NewNone(), false, nil
}

func (exec *Evaluator) evalStringify(n *Stringify, env *Env) (Value, bool, error) {
	val, _, err := exec.eval(n.Arg, env)
	if err != nil {
		return NewNone(), false, err
	}
	if val.IsNone() {
		return NewString("None"), false, nil
	}
	s, err := val.PrintString(exec)
	if err != nil {
		return NewNone(), false, err
	}
	return NewString(s), false, nil
}

func (exec *Evaluator) evalMethodCall(n *MethodCall, env *Env) (Value, bool, error) {
	obj, _, err := exec.eval(n.Object, env)
	if err != nil {
		return NewNone(), false, err
	}
	inst := obj.Instance()
	if inst == nil || !inst.Class.HasMethod(n.Method, len(n.Args)) {
		return NewNone(), false, exec.runtimeErrorf(n.Pos(), "not a class instance")
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, _, err := exec.eval(a, env)
		if err != nil {
			return NewNone(), false, err
		}
		args[i] = v
	}
	v, err := exec.callMethod(inst, n.Method, args, n.Pos())
	return v, false, err
}

// callMethod resolves the method, creates a fresh environment binding self
// and the formal parameters, and evaluates the body in it.
func (exec *Evaluator) callMethod(inst *Instance, name string, args []Value, pos Position) (Value, error) {
	m := inst.Class.GetMethod(name)
	if m == nil || len(m.Params) != len(args) {
		return NewNone(), exec.runtimeErrorf(pos, "not a class instance")
	}
	if len(exec.callStack) >= exec.config.RecursionLimit {
		return NewNone(), exec.runtimeErrorf(pos, "recursion limit exceeded (%d frames)", exec.config.RecursionLimit)
	}
	callEnv := NewEnv()
	callEnv.Set("self", NewInstanceValue(inst))
	for i, p := range m.Params {
		callEnv.Set(p, args[i])
	}
	exec.callStack = append(exec.callStack, callFrame{Method: name, Pos: pos})
	defer func() { exec.callStack = exec.callStack[:len(exec.callStack)-1] }()

	val, _, err := exec.eval(m.Body, callEnv)
	return val, err
}

func (exec *Evaluator) evalNewInstance(n *NewInstanceExpr, env *Env) (Value, bool, error) {
	classVal, _, err := exec.eval(n.ClassRef, env)
	if err != nil {
		return NewNone(), false, err
	}
	class := classVal.Class()
	if class == nil {
		return NewNone(), false, exec.runtimeErrorf(n.Pos(), "value is not a class")
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, _, err := exec.eval(a, env)
		if err != nil {
			return NewNone(), false, err
		}
		args[i] = v
	}
	inst, err := exec.NewInstance(class, args, n.Pos())
	if err != nil {
		return NewNone(), false, err
	}
	return NewInstanceValue(inst), false, nil
}

func (exec *Evaluator) evalAdd(n *Add, env *Env) (Value, bool, error) {
	l, _, err := exec.eval(n.L, env)
	if err != nil {
		return NewNone(), false, err
	}
	r, _, err := exec.eval(n.R, env)
	if err != nil {
		return NewNone(), false, err
	}
	if l.Kind() == KindInt && r.Kind() == KindInt {
		return NewInt(l.Int() + r.Int()), false, nil
	}
	if l.Kind() == KindString && r.Kind() == KindString {
		return NewString(l.Str() + r.Str()), false, nil
	}
	if inst := l.Instance(); inst != nil && inst.Class.HasMethod("__add__", 1) {
		v, err := exec.callMethod(inst, "__add__", []Value{r}, n.Pos())
		return v, false, err
	}
	return NewNone(), false, exec.runtimeErrorf(n.Pos(), "cannot add arguments")
}

func (exec *Evaluator) evalArith(lNode, rNode Node, env *Env, pos Position, errMsg string, op func(a, b int64) int64) (Value, bool, error) {
	l, _, err := exec.eval(lNode, env)
	if err != nil {
		return NewNone(), false, err
	}
	r, _, err := exec.eval(rNode, env)
	if err != nil {
		return NewNone(), false, err
	}
	if l.Kind() != KindInt || r.Kind() != KindInt {
		return NewNone(), false, exec.runtimeErrorf(pos, "%s", errMsg)
	}
	return NewInt(op(l.Int(), r.Int())), false, nil
}

func (exec *Evaluator) evalDiv(n *Div, env *Env) (Value, bool, error) {
	l, _, err := exec.eval(n.L, env)
	if err != nil {
		return NewNone(), false, err
	}
	r, _, err := exec.eval(n.R, env)
	if err != nil {
		return NewNone(), false, err
	}
	if l.Kind() != KindInt || r.Kind() != KindInt {
		return NewNone(), false, exec.runtimeErrorf(n.Pos(), "cannot divide arguments (valid for numbers only)")
	}
	if r.Int() == 0 {
		return NewNone(), false, exec.runtimeErrorf(n.Pos(), "try to divide to zero")
	}
	// Go's integer division already truncates toward zero.
	return NewInt(l.Int() / r.Int()), false, nil
}

func (exec *Evaluator) evalOr(n *Or, env *Env) (Value, bool, error) {
	l, _, err := exec.eval(n.L, env)
	if err != nil {
		return NewNone(), false, err
	}
	if l.Truthy() {
		return NewBool(true), false, nil
	}
	r, _, err := exec.eval(n.R, env)
	if err != nil {
		return NewNone(), false, err
	}
	return NewBool(r.Truthy()), false, nil
}

func (exec *Evaluator) evalAnd(n *And, env *Env) (Value, bool, error) {
	l, _, err := exec.eval(n.L, env)
	if err != nil {
		return NewNone(), false, err
	}
	if !l.Truthy() {
		return NewBool(false), false, nil
	}
	r, _, err := exec.eval(n.R, env)
	if err != nil {
		return NewNone(), false, err
	}
	return NewBool(r.Truthy()), false, nil
}

func (exec *Evaluator) evalComparison(n *Comparison, env *Env) (Value, bool, error) {
	l, _, err := exec.eval(n.L, env)
	if err != nil {
		return NewNone(), false, err
	}
	r, _, err := exec.eval(n.R, env)
	if err != nil {
		return NewNone(), false, err
	}
	switch n.Op {
	case CompareEqual:
		eq, err := exec.Equal(l, r, n.Pos())
		return NewBool(eq), false, err
	case CompareNotEqual:
		eq, err := exec.Equal(l, r, n.Pos())
		return NewBool(!eq), false, err
	case CompareLess:
		lt, err := exec.Less(l, r, n.Pos())
		return NewBool(lt), false, err
	case CompareGreater:
		lt, err := exec.Less(r, l, n.Pos())
		return NewBool(lt), false, err
	case CompareLessOrEqual:
		gt, err := exec.Less(r, l, n.Pos())
		return NewBool(!gt), false, err
	case CompareGreaterOrEqual:
		lt, err := exec.Less(l, r, n.Pos())
		return NewBool(!lt), false, err
	default:
		return NewNone(), false, exec.runtimeErrorf(n.Pos(), "unsupported comparison")
	}
}

// instanceString renders an Instance's print form: __str__ if defined,
// otherwise the stable "<Name> instance" form original_source uses. Any
// method declared under the name __str__ is called regardless of its
// arity, matching the way printing is keyed on the original; an arity
// mismatch surfaces as the same "not a class instance" call error a
// direct MethodCall would raise. A RuntimeError raised inside __str__
// propagates to the caller instead of being discarded in favor of the
// default representation.
func (exec *Evaluator) instanceString(inst *Instance) (string, error) {
	if inst.Class.GetMethod("__str__") != nil {
		val, err := exec.callMethod(inst, "__str__", nil, Position{})
		if err != nil {
			return "", err
		}
		if val.IsNone() {
			return "None", nil
		}
		return val.PrintString(exec)
	}
	return fmt.Sprintf("%s instance", inst.Class.Name), nil
}
