package tool

import (
	"errors"
	"fmt"
)

// Kind distinguishes the two factory shapes.
type Kind int

const (
	// KindSimple factories are built from the Env alone.
	KindSimple Kind = iota

	// KindChainable factories also receive an Invoker for calling other tools.
	KindChainable
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindChainable:
		return "chainable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// SimpleFunc constructs a tool from its execution context.
type SimpleFunc func(env Env) (Tool, error)

// ChainableFunc constructs a tool that may invoke other tools.
type ChainableFunc func(env Env, inv Invoker) (Tool, error)

// Factory is a tagged constructor: exactly one of the two function shapes is
// set, and Kind reports which. Build one with Simple or Chainable.
type Factory struct {
	kind      Kind
	simple    SimpleFunc
	chainable ChainableFunc
}

// Simple returns a factory for a tool that needs only its Env.
func Simple(fn SimpleFunc) Factory {
	return Factory{kind: KindSimple, simple: fn}
}

// Chainable returns a factory for a tool that needs an Invoker.
func Chainable(fn ChainableFunc) Factory {
	return Factory{kind: KindChainable, chainable: fn}
}

// Kind reports which constructor shape the factory holds.
func (f Factory) Kind() Kind {
	return f.kind
}

// IsZero reports whether the factory holds no constructor.
func (f Factory) IsZero() bool {
	return f.simple == nil && f.chainable == nil
}

// New constructs a tool. inv is only passed to chainable constructors.
func (f Factory) New(env Env, inv Invoker) (Tool, error) {
	var (
		t   Tool
		err error
	)
	switch f.kind {
	case KindSimple:
		if f.simple == nil {
			return nil, errors.New("simple factory has no constructor")
		}
		t, err = f.simple(env)
	case KindChainable:
		if f.chainable == nil {
			return nil, errors.New("chainable factory has no constructor")
		}
		if inv == nil {
			return nil, errors.New("chainable factory requires an invoker")
		}
		t, err = f.chainable(env, inv)
	default:
		return nil, fmt.Errorf("unknown factory kind %s", f.kind)
	}
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.New("factory returned a nil tool")
	}
	return t, nil
}
