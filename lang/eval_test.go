package lang

import (
	"testing"

	"github.com/dekarrin/drawlang/canvas"
	"github.com/dekarrin/drawlang/lang/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalSource parses source as a single top-level statement and evaluates it
// directly against a fresh Context, returning the Interpreter and Context so
// callers can inspect variable state afterward.
func evalSource(t *testing.T, source string) (syntax.Value, *Context, error) {
	t.Helper()
	p := NewParser()
	root, err := p.Parse([]byte(source))
	require.NoError(t, err)
	require.Len(t, root.Body, 1)

	rst := canvas.NewRaster()
	ctx := NewContext(rst)
	in := NewInterpreter(ctx)
	v, err := in.eval(root.Body[0])
	return v, ctx, err
}

func Test_Eval_shortCircuitAnd_skipsRightWhenLeftIsZero(t *testing.T) {
	v, ctx, err := evalSource(t, "&0,a(1,99)")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Num())
	assert.Equal(t, 0.0, ctx.Var(1).Num(), "right operand must not have been evaluated")
}

func Test_Eval_shortCircuitOr_skipsRightWhenLeftIsNonZero(t *testing.T) {
	v, ctx, err := evalSource(t, "|1,a(1,99)")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Num())
	assert.Equal(t, 0.0, ctx.Var(1).Num(), "right operand must not have been evaluated")
}

func Test_Eval_callBindsPositionalArgsToNegativeIDs(t *testing.T) {
	p := NewParser()
	root, err := p.Parse([]byte("{9) q(9,10,20,30)"))
	require.NoError(t, err)

	rst := canvas.NewRaster()
	ctx := NewContext(rst)
	require.NoError(t, Interpret(ctx, root))

	assert.Equal(t, 10.0, ctx.Var(-1).Num(), "argument 1 binds to -1")
	assert.Equal(t, 20.0, ctx.Var(-2).Num(), "argument 2 binds to -2")
	assert.Equal(t, 30.0, ctx.Var(-3).Num(), "argument 3 binds to -3")
}

func Test_Eval_reducerAny_returnsFirstNonZero(t *testing.T) {
	v, _, err := evalSource(t, "T0 0 5 0 ")
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Num())
}

func Test_Eval_reducerAny_returnsZeroWhenAllZero(t *testing.T) {
	v, _, err := evalSource(t, "T0 0 0 ")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Num())
}

func Test_Eval_reducerAll_agreesWithPairwiseTruthiness(t *testing.T) {
	v, _, err := evalSource(t, "A1 1 1 ")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Num())
}

func Test_Eval_reducerAll_returnsZeroOnFirstFalsy(t *testing.T) {
	v, _, err := evalSource(t, "A1 0 1 ")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Num())
}

func Test_Eval_reducerSum_agreesWithPairwiseFold(t *testing.T) {
	v, _, err := evalSource(t, "U1 2 3 ")
	require.NoError(t, err)
	assert.Equal(t, 6.0, v.Num())
}

func Test_Eval_reducerSum_nonNumericElement_isRuntimeError(t *testing.T) {
	_, _, err := evalSource(t, "U1,2 5 ")
	require.Error(t, err)
	rerr, ok := err.(RuntimeError)
	require.True(t, ok, "expected a RuntimeError, got %T", err)
	assert.Contains(t, rerr.Error(), "sum of non-numeric values")
}

func Test_Eval_arithmeticRoundTrip_doubleNegation(t *testing.T) {
	v, _, err := evalSource(t, "nn7 ")
	require.NoError(t, err)
	assert.Equal(t, 7.0, v.Num())
}
