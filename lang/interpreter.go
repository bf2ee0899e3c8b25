package lang

import (
	"github.com/dekarrin/drawlang/canvas"
	"github.com/dekarrin/drawlang/lang/syntax"
)

// Interpret runs a parsed program's root block against ctx, driving its
// Canvas. A break (';') that escapes every enclosing loop is reported as a
// RuntimeError rather than bubbling out as the internal control-flow
// signal it is everywhere else.
func Interpret(ctx *Context, root *syntax.BlockOperationNode) error {
	in := NewInterpreter(ctx)
	_, err := in.execBody(root.Body)
	if err != nil {
		if _, isBreak := err.(breakSignal); isBreak {
			return newRuntimeError(0, "break (';') outside of any loop")
		}
		return err
	}
	return nil
}

// execBody runs stmts in order, returning the value of the last one. Any
// error, including a breakSignal, stops execution immediately and is
// returned to the caller.
func (in *Interpreter) execBody(stmts []syntax.Node) (syntax.Value, error) {
	var result syntax.Value
	for _, s := range stmts {
		v, err := in.eval(s)
		if err != nil {
			return syntax.Zero, err
		}
		result = v
	}
	return result, nil
}

func (in *Interpreter) evalFirstExprBlock(n *syntax.FirstExprBlockNode) (syntax.Value, error) {
	header, err := in.eval(n.First)
	if err != nil {
		return syntax.Zero, err
	}

	switch n.Op {
	case 'L':
		count := header.Int()
		if count < 0 {
			// Negative loop counts execute zero times (§9, open question).
			count = 0
		}
		for i := 0; i < count; i++ {
			if _, err := in.execBody(n.Body); err != nil {
				if _, isBreak := err.(breakSignal); isBreak {
					break
				}
				return syntax.Zero, err
			}
		}
		return syntax.Zero, nil

	case 'i':
		if header.Num() != 0 {
			if _, err := in.execBody(n.Body); err != nil {
				return syntax.Zero, err
			}
		}
		return syntax.Zero, nil
	}

	return syntax.Zero, newRuntimeError(n.Pos(), "unknown first-expression block %q", n.Op)
}

func (in *Interpreter) evalReducerBlock(n *syntax.ReducerBlockNode) (syntax.Value, error) {
	switch n.Op {
	case 'T':
		for _, c := range n.Body {
			v, err := in.eval(c)
			if err != nil {
				return syntax.Zero, err
			}
			if v.Num() != 0 {
				return v, nil
			}
		}
		return syntax.Zero, nil

	case 'A':
		for _, c := range n.Body {
			v, err := in.eval(c)
			if err != nil {
				return syntax.Zero, err
			}
			if !v.Truthy() {
				return syntax.Number(0), nil
			}
		}
		return syntax.Number(1), nil

	case 'U':
		sum := 0.0
		for _, c := range n.Body {
			v, err := in.eval(c)
			if err != nil {
				return syntax.Zero, err
			}
			if v.IsTuple() {
				return syntax.Zero, newRuntimeError(n.Pos(), "sum of non-numeric values")
			}
			sum += v.Num()
		}
		return syntax.Number(sum), nil
	}

	return syntax.Zero, newRuntimeError(n.Pos(), "unknown reducer block %q", n.Op)
}

func (in *Interpreter) defineExecutableBlock(n *syntax.ExecutableBlockNode) error {
	if n.Op == '@' {
		id := in.ctx.NextID()
		return in.ctx.DefineFunc(id, n)
	}

	idVal, err := in.eval(n.IDExpr)
	if err != nil {
		return err
	}
	return in.ctx.DefineFunc(idVal.Int(), n)
}

func (in *Interpreter) runNoParamStatement(n *syntax.NoParamStatementNode) error {
	switch n.Op {
	case '#':
		in.ctx.Canvas.ClearTransforms()
	case '<':
		return in.ctx.Canvas.Pop()
	case 'd':
		in.ctx.Canvas.Dot()
	case 'P':
		in.ctx.Canvas.Line()
	case ';':
		return breakSignal{}
	default:
		return newRuntimeError(n.Pos(), "unknown statement %q", n.Op)
	}
	return nil
}

func (in *Interpreter) runPrefixStatement(n *syntax.PrefixStatementNode) error {
	switch n.Op {
	case 'C':
		return in.dispatchColor(n, canvas.RGB, canvas.RGBA)
	case 'H':
		return in.dispatchColor(n, canvas.HSL, canvas.HSLA)
	case 'K':
		return in.dispatchFixedColor(n, canvas.CMYK, 4)
	case 'p':
		x, y, err := in.evalPair(n.Body, n.Pos())
		if err != nil {
			return err
		}
		in.ctx.Canvas.SetCursor(x, y)
	case 't':
		x, y, err := in.evalPair(n.Body, n.Pos())
		if err != nil {
			return err
		}
		in.ctx.Canvas.Translate(x, y)
	case 'r':
		v, err := in.eval(n.Body)
		if err != nil {
			return err
		}
		in.ctx.Canvas.Rotate(v.Num())
	case 'S':
		x, y, err := in.evalPair(n.Body, n.Pos())
		if err != nil {
			return err
		}
		in.ctx.Canvas.Scale(x, y)
	default:
		return newRuntimeError(n.Pos(), "unknown prefix statement %q", n.Op)
	}
	return nil
}

// dispatchColor evaluates a statement's body to a 3- or 4-tuple, choosing
// mode3/mode4 accordingly (used by 'C' for rgb/rgba and 'H' for hsl/hsla).
func (in *Interpreter) dispatchColor(n *syntax.PrefixStatementNode, mode3, mode4 canvas.ColorMode) error {
	v, err := in.eval(n.Body)
	if err != nil {
		return err
	}
	if !v.IsTuple() || (v.Len() != 3 && v.Len() != 4) {
		return newRuntimeError(n.Pos(), "%c requires a 3- or 4-tuple operand", n.Op)
	}
	mode := mode3
	if v.Len() == 4 {
		mode = mode4
	}
	return in.ctx.Canvas.SetColor(mode, valueNums(v)...)
}

func (in *Interpreter) dispatchFixedColor(n *syntax.PrefixStatementNode, mode canvas.ColorMode, arity int) error {
	v, err := in.eval(n.Body)
	if err != nil {
		return err
	}
	if !v.IsTuple() || v.Len() != arity {
		return newRuntimeError(n.Pos(), "%c requires a %d-tuple operand", n.Op, arity)
	}
	return in.ctx.Canvas.SetColor(mode, valueNums(v)...)
}

func (in *Interpreter) evalPair(body syntax.Node, pos int) (float64, float64, error) {
	v, err := in.eval(body)
	if err != nil {
		return 0, 0, err
	}
	if !v.IsTuple() || v.Len() != 2 {
		return 0, 0, newRuntimeError(pos, "expected a 2-tuple operand")
	}
	return v.Elem(0).Num(), v.Elem(1).Num(), nil
}

func valueNums(v syntax.Value) []float64 {
	elems := v.Elements()
	nums := make([]float64, len(elems))
	for i, e := range elems {
		nums[i] = e.Num()
	}
	return nums
}
