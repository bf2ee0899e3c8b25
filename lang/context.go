package lang

import (
	"github.com/dekarrin/drawlang/canvas"
	"github.com/dekarrin/drawlang/lang/syntax"
)

// Context is the single mutable runtime environment of one program run: a
// variable table, a function table, and the drawing canvas. It exists for
// the lifetime of exactly one Interpret call.
type Context struct {
	vars  map[int]syntax.Value
	funcs map[int]*syntax.ExecutableBlockNode

	// Canvas is the drawing surface every drawing statement dispatches to.
	Canvas canvas.Canvas

	counter int
}

// NewContext returns an empty Context bound to the given canvas.
func NewContext(c canvas.Canvas) *Context {
	return &Context{
		vars:   make(map[int]syntax.Value),
		funcs:  make(map[int]*syntax.ExecutableBlockNode),
		Canvas: c,
	}
}

// Var returns the value bound to id, or Zero if unset.
func (c *Context) Var(id int) syntax.Value {
	if v, ok := c.vars[id]; ok {
		return v
	}
	return syntax.Zero
}

// SetVar binds value to id.
func (c *Context) SetVar(id int, value syntax.Value) {
	c.vars[id] = value
}

// Func looks up a registered function by id.
func (c *Context) Func(id int) (*syntax.ExecutableBlockNode, bool) {
	fn, ok := c.funcs[id]
	return fn, ok
}

// DefineFunc registers fn under id, failing if id is already taken.
func (c *Context) DefineFunc(id int, fn *syntax.ExecutableBlockNode) error {
	if _, exists := c.funcs[id]; exists {
		return newRuntimeError(fn.Pos(), "function %d already defined", id)
	}
	c.funcs[id] = fn
	return nil
}

// NextID returns a fresh id not already bound in either the variable or
// function table, incrementing the internal counter past it. Mirrors the
// reference context's skip-used-ids allocation for anonymous lambdas.
func (c *Context) NextID() int {
	for {
		c.counter++
		_, inVars := c.vars[c.counter]
		_, inFuncs := c.funcs[c.counter]
		if !inVars && !inFuncs {
			return c.counter
		}
	}
}
