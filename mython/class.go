package mython

// Method is a named, ordered-parameter, single-body callable. Methods are
// not first-class values — they only exist inside a Class's method list.
type Method struct {
	Name   string
	Params []string
	Body   *MethodBody
}

// Class carries a name, an insertion-ordered method list, and an optional
// non-owning parent pointer. Methods are stored as a slice rather than a
// name-keyed map, since method resolution must return the first declared
// match even when a later declaration in the same class shares the name —
// a guarantee a Go map cannot give.
type Class struct {
	Name    string
	Methods []*Method
	Parent  *Class
}

// NewClass returns an empty class named name with the given parent (nil for
// none).
func NewClass(name string, parent *Class) *Class {
	return &Class{Name: name, Parent: parent}
}

// AddMethod appends m to the class's own method list, preserving
// declaration order.
func (c *Class) AddMethod(m *Method) {
	c.Methods = append(c.Methods, m)
}

// GetMethod walks own methods first (linear scan, first match), then
// recurses into the parent chain.
func (c *Class) GetMethod(name string) *Method {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	if c.Parent != nil {
		return c.Parent.GetMethod(name)
	}
	return nil
}

// HasMethod reports whether GetMethod(name) finds a method whose declared
// arity (formal parameters, not counting the implicit self) equals argc.
func (c *Class) HasMethod(name string, argc int) bool {
	m := c.GetMethod(name)
	return m != nil && len(m.Params) == argc
}

// Instance is a runtime object: a non-owning reference to its class plus
// its own field environment, created lazily on first assignment.
type Instance struct {
	Class  *Class
	Fields *Env
}

// NewInstance constructs a fresh Instance of class and, if class (or an
// ancestor) declares __init__ with matching arity, invokes it immediately
// with args.
func (exec *Evaluator) NewInstance(class *Class, args []Value, pos Position) (*Instance, error) {
	inst := &Instance{Class: class, Fields: NewEnv()}
	if class.HasMethod("__init__", len(args)) {
		if _, err := exec.callMethod(inst, "__init__", args, pos); err != nil {
			return nil, err
		}
	}
	return inst, nil
}
