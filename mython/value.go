package mython

import "fmt"

// ValueKind tags the variant carried by a Value.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindInt
	KindString
	KindBool
	KindClass
	KindInstance
)

// Value is Mython's tagged runtime value: None, Integer, String, Boolean,
// Class, or Instance. Classes and instances carry pointers (non-owning for
// the class held by an instance); everything else is a plain copy, so
// Value itself stays comparable-by-content via Equal.
type Value struct {
	kind ValueKind
	data any
}

func NewNone() Value                     { return Value{kind: KindNone} }
func NewInt(i int64) Value               { return Value{kind: KindInt, data: i} }
func NewString(s string) Value           { return Value{kind: KindString, data: s} }
func NewBool(b bool) Value               { return Value{kind: KindBool, data: b} }
func NewClassValue(c *Class) Value       { return Value{kind: KindClass, data: c} }
func NewInstanceValue(i *Instance) Value { return Value{kind: KindInstance, data: i} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNone() bool    { return v.kind == KindNone }

func (v Value) Int() int64 {
	if v.kind == KindInt {
		return v.data.(int64)
	}
	return 0
}

func (v Value) Str() string {
	if v.kind == KindString {
		return v.data.(string)
	}
	return ""
}

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Class() *Class {
	if v.kind == KindClass {
		return v.data.(*Class)
	}
	return nil
}

func (v Value) Instance() *Instance {
	if v.kind == KindInstance {
		return v.data.(*Instance)
	}
	return nil
}

func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindInt:
		return "int"
	case KindString:
		return "str"
	case KindBool:
		return "bool"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Truthy implements Mython's truthiness rule: integer != 0, non-empty
// string, the boolean itself; None, Class and Instance are always false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindInt:
		return v.data.(int64) != 0
	case KindString:
		return v.data.(string) != ""
	case KindBool:
		return v.data.(bool)
	default:
		return false
	}
}

// PrintString renders how a value looks inside a print statement or a
// str() call. A bare None print argument still surfaces as the literal
// "None" — a distinction the Print statement, not Value, is responsible
// for. Rendering an Instance may run user-defined __str__ code, so this
// can fail; a RuntimeError raised inside __str__ propagates rather than
// being swallowed into a default representation.
func (v Value) PrintString(exec *Evaluator) (string, error) {
	switch v.kind {
	case KindNone:
		return "", nil
	case KindBool:
		if v.data.(bool) {
			return "True", nil
		}
		return "False", nil
	case KindString:
		return v.data.(string), nil
	case KindInt:
		return fmt.Sprintf("%d", v.data.(int64)), nil
	case KindClass:
		return fmt.Sprintf("Class %s", v.Class().Name), nil
	case KindInstance:
		return exec.instanceString(v.Instance())
	default:
		return "", nil
	}
}

// Equal implements Mython's equality rule: like-kinded primitives compare
// directly, two Nones are equal, and instances dispatch to __eq__ when
// defined.
func (exec *Evaluator) Equal(l, r Value, pos Position) (bool, error) {
	if l.kind == KindNone && r.kind == KindNone {
		return true, nil
	}
	if l.kind != r.kind {
		if l.kind == KindInstance {
			return exec.dunderCompare(l, r, "__eq__", pos)
		}
		return false, exec.runtimeErrorf(pos, "cannot compare %s and %s", l.kind, r.kind)
	}
	switch l.kind {
	case KindNone:
		return true, nil
	case KindInt:
		return l.data.(int64) == r.data.(int64), nil
	case KindString:
		return l.data.(string) == r.data.(string), nil
	case KindBool:
		return l.data.(bool) == r.data.(bool), nil
	case KindClass:
		return l.Class() == r.Class(), nil
	case KindInstance:
		if l.Instance() == r.Instance() {
			return true, nil
		}
		return exec.dunderCompare(l, r, "__eq__", pos)
	default:
		return false, nil
	}
}

// Less implements Mython's less-than rule: like-kinded primitives compare
// directly, instances dispatch to __lt__.
func (exec *Evaluator) Less(l, r Value, pos Position) (bool, error) {
	if l.kind != r.kind {
		if l.kind == KindInstance {
			return exec.dunderCompare(l, r, "__lt__", pos)
		}
		return false, exec.runtimeErrorf(pos, "cannot compare %s and %s", l.kind, r.kind)
	}
	switch l.kind {
	case KindInt:
		return l.data.(int64) < r.data.(int64), nil
	case KindString:
		return l.data.(string) < r.data.(string), nil
	case KindBool:
		return !l.data.(bool) && r.data.(bool), nil
	case KindInstance:
		return exec.dunderCompare(l, r, "__lt__", pos)
	default:
		return false, exec.runtimeErrorf(pos, "'%s' does not support ordering", l.kind)
	}
}

func (exec *Evaluator) dunderCompare(l, r Value, dunder string, pos Position) (bool, error) {
	inst := l.Instance()
	if inst == nil || !inst.Class.HasMethod(dunder, 1) {
		return false, exec.runtimeErrorf(pos, "class %s has no method %s", classNameOf(l), dunder)
	}
	result, err := exec.callMethod(inst, dunder, []Value{r}, pos)
	if err != nil {
		return false, err
	}
	return result.Truthy(), nil
}

func classNameOf(v Value) string {
	if inst := v.Instance(); inst != nil {
		return inst.Class.Name
	}
	return v.Kind().String()
}
