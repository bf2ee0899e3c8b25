package lang

import (
	"math"

	"github.com/dekarrin/drawlang/lang/syntax"
)

// Interpreter runs a parsed AST against a Context.
type Interpreter struct {
	ctx *Context
}

// NewInterpreter returns an Interpreter bound to ctx.
func NewInterpreter(ctx *Context) *Interpreter {
	return &Interpreter{ctx: ctx}
}

// eval evaluates an expression-shaped node to a Value.
func (in *Interpreter) eval(n syntax.Node) (syntax.Value, error) {
	switch n.Type() {
	case syntax.NTLiteral:
		return n.AsLiteral().Value, nil

	case syntax.NTNoParamStatement:
		return syntax.Zero, in.runNoParamStatement(n.AsNoParamStatement())

	case syntax.NTPrefixStatement:
		return syntax.Zero, in.runPrefixStatement(n.AsPrefixStatement())

	case syntax.NTPrefixExpression:
		return in.evalPrefixExpression(n.AsPrefixExpression())

	case syntax.NTInfixExpression:
		return in.evalInfixExpression(n.AsInfixExpression())

	case syntax.NTContinuation:
		return in.evalContinuation(n.AsContinuation())

	case syntax.NTBlockExpression:
		be := n.AsBlockExpression()
		if be.Child == nil {
			return syntax.Zero, nil
		}
		return in.eval(be.Child)

	case syntax.NTReducerBlock:
		return in.evalReducerBlock(n.AsReducerBlock())

	case syntax.NTFirstExprBlock:
		return in.evalFirstExprBlock(n.AsFirstExprBlock())

	case syntax.NTExecutableBlock:
		if err := in.defineExecutableBlock(n.AsExecutableBlock()); err != nil {
			return syntax.Zero, err
		}
		return syntax.Zero, nil
	}

	return syntax.Zero, newRuntimeError(n.Pos(), "node of kind %s is not an expression", n.Type())
}

func (in *Interpreter) evalContinuation(c *syntax.ContinuationNode) (syntax.Value, error) {
	vals := make([]syntax.Value, len(c.Elements))
	for i, e := range c.Elements {
		v, err := in.eval(e)
		if err != nil {
			return syntax.Zero, err
		}
		vals[i] = v
	}
	return syntax.Tuple(vals...), nil
}

func (in *Interpreter) evalInfixExpression(n *syntax.InfixExpressionNode) (syntax.Value, error) {
	left, err := in.eval(n.Left)
	if err != nil {
		return syntax.Zero, err
	}
	right, err := in.eval(n.Right)
	if err != nil {
		return syntax.Zero, err
	}
	l, r := left.Num(), right.Num()

	switch n.Op {
	case '+':
		return syntax.Number(l + r), nil
	case '-':
		return syntax.Number(l - r), nil
	case '*':
		return syntax.Number(l * r), nil
	case '/':
		if r == 0 {
			return syntax.Zero, newRuntimeError(n.Pos(), "division by zero")
		}
		return syntax.Number(l / r), nil
	case '%':
		if r == 0 {
			return syntax.Zero, newRuntimeError(n.Pos(), "modulo by zero")
		}
		return syntax.Number(math.Mod(l, r)), nil
	case '^':
		return syntax.Number(math.Pow(l, r)), nil
	case '~':
		if r == 0 {
			return syntax.Zero, newRuntimeError(n.Pos(), "integer division by zero")
		}
		return syntax.Number(math.Floor(l / r)), nil
	case '>':
		return syntax.Bool(l > r), nil
	case 'g':
		return syntax.Bool(l >= r), nil
	case '=':
		return syntax.Bool(l == r), nil
	case 'x':
		return syntax.Bool(l != r), nil
	}

	return syntax.Zero, newRuntimeError(n.Pos(), "unknown infix operator %q", n.Op)
}

func (in *Interpreter) evalPrefixExpression(n *syntax.PrefixExpressionNode) (syntax.Value, error) {
	switch n.Op {
	case 'n':
		v, err := in.eval(n.Body)
		if err != nil {
			return syntax.Zero, err
		}
		return syntax.Number(-v.Num()), nil

	case 'N':
		v, err := in.eval(n.Body)
		if err != nil {
			return syntax.Zero, err
		}
		return syntax.Bool(v.Num() == 0), nil

	case '&':
		return in.evalShortCircuit(n, false)
	case '|':
		return in.evalShortCircuit(n, true)

	case 'I':
		return in.evalIff(n)

	case 'X':
		return in.evalXor(n)

	case 's', 'o', 'T', 'E', 'O', 'Y':
		return in.evalTrig(n.Op, n.Body)

	case '!':
		return in.evalTrigInverse(n.Body)

	case '_':
		v, err := in.eval(n.Body)
		if err != nil {
			return syntax.Zero, err
		}
		return syntax.Number(math.Floor(v.Num())), nil

	case '`':
		v, err := in.eval(n.Body)
		if err != nil {
			return syntax.Zero, err
		}
		return syntax.Number(math.Ceil(v.Num())), nil

	case '"':
		v, err := in.eval(n.Body)
		if err != nil {
			return syntax.Zero, err
		}
		return syntax.Number(v.Num() * v.Num()), nil

	case '\\':
		return in.evalSqrt(n.Body)

	case 'a':
		return in.evalAssign(n.Body)

	case 'q':
		return in.evalCall(n.Body)
	}

	return syntax.Zero, newRuntimeError(n.Pos(), "unknown prefix expression %q", n.Op)
}

func (in *Interpreter) evalShortCircuit(n *syntax.PrefixExpressionNode, isOr bool) (syntax.Value, error) {
	cont, err := requireContinuation(n.Body, 2, n.Pos())
	if err != nil {
		return syntax.Zero, err
	}
	left, err := in.eval(cont.Elements[0])
	if err != nil {
		return syntax.Zero, err
	}
	if isOr {
		if left.Num() != 0 {
			return left, nil
		}
		return in.eval(cont.Elements[1])
	}
	if left.Num() == 0 {
		return syntax.Number(0), nil
	}
	return in.eval(cont.Elements[1])
}

func (in *Interpreter) evalIff(n *syntax.PrefixExpressionNode) (syntax.Value, error) {
	cont, err := requireContinuation(n.Body, 3, n.Pos())
	if err != nil {
		return syntax.Zero, err
	}
	cond, err := in.eval(cont.Elements[0])
	if err != nil {
		return syntax.Zero, err
	}
	if cond.Num() != 0 {
		return in.eval(cont.Elements[1])
	}
	return in.eval(cont.Elements[2])
}

func (in *Interpreter) evalXor(n *syntax.PrefixExpressionNode) (syntax.Value, error) {
	cont, err := requireContinuation(n.Body, 2, n.Pos())
	if err != nil {
		return syntax.Zero, err
	}
	left, err := in.eval(cont.Elements[0])
	if err != nil {
		return syntax.Zero, err
	}
	right, err := in.eval(cont.Elements[1])
	if err != nil {
		return syntax.Zero, err
	}
	return syntax.Bool(left.Truthy() != right.Truthy()), nil
}

func (in *Interpreter) evalTrig(op byte, body syntax.Node) (syntax.Value, error) {
	v, err := in.eval(body)
	if err != nil {
		return syntax.Zero, err
	}
	x := v.Num()
	switch op {
	case 's':
		return syntax.Number(math.Sin(x)), nil
	case 'o':
		return syntax.Number(math.Cos(x)), nil
	case 'T':
		return syntax.Number(math.Tan(x)), nil
	case 'E':
		return syntax.Number(1 / math.Cos(x)), nil
	case 'O':
		return syntax.Number(1 / math.Sin(x)), nil
	case 'Y':
		return syntax.Number(1 / math.Tan(x)), nil
	}
	return syntax.Zero, newRuntimeError(body.Pos(), "unknown trig operator %q", op)
}

// evalTrigInverse inverts a trig PrefixExpressionNode by inspecting the
// child node's own operator, per §4.1's "inspecting the child node kind"
// rule. Any other child kind is an error.
func (in *Interpreter) evalTrigInverse(body syntax.Node) (syntax.Value, error) {
	if body.Type() != syntax.NTPrefixExpression {
		return syntax.Zero, newRuntimeError(body.Pos(), "unsupported inversion operand")
	}
	inner := body.AsPrefixExpression()

	v, err := in.eval(inner.Body)
	if err != nil {
		return syntax.Zero, err
	}
	x := v.Num()

	switch inner.Op {
	case 's':
		return syntax.Number(math.Asin(x)), nil
	case 'o':
		return syntax.Number(math.Acos(x)), nil
	case 'T':
		return syntax.Number(math.Atan(x)), nil
	case 'E':
		return syntax.Number(math.Acos(1 / x)), nil
	case 'O':
		return syntax.Number(math.Asin(1 / x)), nil
	case 'Y':
		return syntax.Number(math.Atan(1 / x)), nil
	}

	return syntax.Zero, newRuntimeError(body.Pos(), "unsupported inversion operation")
}

func (in *Interpreter) evalSqrt(body syntax.Node) (syntax.Value, error) {
	v, err := in.eval(body)
	if err != nil {
		return syntax.Zero, err
	}
	if v.IsTuple() {
		if v.Len() != 2 {
			return syntax.Zero, newRuntimeError(body.Pos(), "square root of a tuple requires exactly (base, degree)")
		}
		base, degree := v.Elem(0).Num(), v.Elem(1).Num()
		return syntax.Number(math.Pow(base, 1/degree)), nil
	}
	return syntax.Number(math.Sqrt(v.Num())), nil
}

func (in *Interpreter) evalAssign(body syntax.Node) (syntax.Value, error) {
	v, err := in.eval(body)
	if err != nil {
		return syntax.Zero, err
	}
	if v.IsTuple() {
		if v.Len() != 2 {
			return syntax.Zero, newRuntimeError(body.Pos(), "assignment requires exactly (id, value)")
		}
		id := v.Elem(0).Int()
		value := v.Elem(1)
		in.ctx.SetVar(id, value)
		return value, nil
	}
	return in.ctx.Var(v.Int()), nil
}

func (in *Interpreter) evalCall(body syntax.Node) (syntax.Value, error) {
	v, err := in.eval(body)
	if err != nil {
		return syntax.Zero, err
	}

	var fid int
	var args []syntax.Value
	if v.IsTuple() {
		elems := v.Elements()
		fid = elems[0].Int()
		args = elems[1:]
	} else {
		fid = v.Int()
	}

	fn, ok := in.ctx.Func(fid)
	if !ok {
		return syntax.Zero, newRuntimeError(body.Pos(), "function %d not yet defined", fid)
	}

	for i, arg := range args {
		in.ctx.SetVar(-(i + 1), arg)
	}

	var result syntax.Value
	for _, stmt := range fn.Body {
		result, err = in.eval(stmt)
		if err != nil {
			return syntax.Zero, err
		}
	}
	return result, nil
}

// requireContinuation evaluates body's static shape requirement: it must
// already be a parsed Continuation of exactly n elements. Unlike ordinary
// operand evaluation, this check happens against the AST node, not a
// runtime Value, so short-circuit operators can defer evaluating elements
// they never need.
func requireContinuation(body syntax.Node, n int, pos int) (*syntax.ContinuationNode, error) {
	if body == nil || body.Type() != syntax.NTContinuation {
		return nil, newRuntimeError(pos, "expected a %d-tuple operand", n)
	}
	cont := body.AsContinuation()
	if len(cont.Elements) != n {
		return nil, newRuntimeError(pos, "expected a %d-tuple operand, got %d elements", n, len(cont.Elements))
	}
	return cont, nil
}
