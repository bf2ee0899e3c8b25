package lang

import (
	"strconv"
	"strings"

	"github.com/dekarrin/drawlang/lang/syntax"
	"github.com/dekarrin/drawlang/lang/trace"
)

// Character classes recognized by the parser, per the language's fixed
// one-character-per-token grammar.
const (
	numberChars           = ".0123456789"
	blockEndChar          = ')'
	blockStatementChars   = "Li@{"
	blockExpressionChars  = "(AU" // 'T' is handled separately; see resolveTangentOrReducer.
	singleOperationChars  = "#<dP;"
	prefixStatementChars  = "CHKptrS"
	prefixExpressionChars = "nN&|IXsoEOY_`\"!\\aq"
	infixExpressionChars  = "+-*/%^~>g=x"
	continuationChar      = ','
	whitespaceChars       = " \t\r\n"
)

func containsByte(set string, c byte) bool {
	return strings.IndexByte(set, c) >= 0
}

// Parser turns drawlang source text into a root BlockOperationNode following
// the single-pass, two-stack algorithm: a block stack of in-progress
// statement containers and an expression stack of in-progress expression
// nodes, rebalanced at every structural character.
type Parser struct {
	// Trace, if non-nil, receives one event per dispatched rule. Tracing
	// never changes parse results; it exists purely for debugging.
	Trace *trace.Writer
}

// NewParser returns a ready-to-use Parser with no trace attached.
func NewParser() *Parser {
	return &Parser{}
}

// parseState is the mutable working state of a single Parse call.
type parseState struct {
	source      string
	pos         int // 1-indexed monotone character counter
	buffer      strings.Builder
	blocks      []syntax.Node
	expressions []syntax.Node
	tracer      *trace.Writer
}

// Parse consumes source and returns the root block, or a SyntaxError.
func (p *Parser) Parse(source []byte) (*syntax.BlockOperationNode, error) {
	st := &parseState{
		source: string(source),
		tracer: p.Trace,
	}
	root := syntax.NewBlockOperation(0)
	st.blocks = []syntax.Node{root}

	for i := 0; i < len(st.source); i++ {
		c := st.source[i]
		st.pos++
		if err := st.step(c); err != nil {
			return nil, err
		}
	}

	// A trailing statement with no following separator (the common case:
	// source ends in a no-operand statement char like 'd') leaves its node
	// sitting on the expression stack with nothing left to flush it. Give
	// the stack one last chance to collapse into the open block before
	// declaring it unresolved.
	if err := st.pushToBlock(); err != nil {
		return nil, err
	}
	if len(st.expressions) > 0 {
		return nil, newSyntaxError(st.source, st.pos, "expression(s) remaining on the stack at end of input")
	}

	finished := st.blocks[len(st.blocks)-1]
	st.blocks = st.blocks[:len(st.blocks)-1]
	if len(st.blocks) > 0 {
		return nil, newSyntaxError(st.source, st.pos, "unclosed block(s) at end of input")
	}

	return finished.AsBlockOperation(), nil
}

func (st *parseState) emit(rule string, detail string) {
	if st.tracer == nil {
		return
	}
	_ = st.tracer.Emit(trace.Event{Source: "parser", Rule: rule, Pos: st.pos, Detail: detail})
}

// step dispatches a single character per the ten parser rules of §4.3.
func (st *parseState) step(c byte) error {
	isNumberChar := containsByte(numberChars, c)

	if isNumberChar {
		if c == '.' && strings.ContainsRune(st.buffer.String(), '.') {
			return newSyntaxError(st.source, st.pos, "invalid numeric literal: second '.'")
		}
		st.buffer.WriteByte(c)
		return nil
	}

	if st.buffer.Len() > 0 {
		if err := st.flushBuffer(); err != nil {
			return err
		}
	}

	switch {
	case c == continuationChar:
		return st.handleContinuation()
	case c == blockEndChar:
		return st.handleBlockEnd()
	case containsByte(whitespaceChars, c):
		return st.handleWhitespace()
	case containsByte(singleOperationChars, c) || containsByte(prefixStatementChars, c):
		return st.handleStatementChar(c)
	case c == 'T' && !st.tipAwaitsChild():
		// Statement/block-introduction position: any-reducer.
		return st.handleBlockExpressionChar(c)
	case c == 'T' || containsByte(prefixExpressionChars, c):
		return st.handlePrefixExpressionChar(c)
	case containsByte(infixExpressionChars, c):
		return st.handleInfixChar(c)
	case containsByte(blockStatementChars, c):
		return st.handleBlockStatementChar(c)
	case containsByte(blockExpressionChars, c):
		return st.handleBlockExpressionChar(c)
	}

	return newSyntaxError(st.source, st.pos, "unrecognized character %q", c)
}

func (st *parseState) flushBuffer() error {
	text := st.buffer.String()
	st.buffer.Reset()

	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return newSyntaxError(st.source, st.pos, "invalid numeric literal %q", text)
	}
	st.emit("flush-literal", text)
	lit := syntax.NewLiteral(syntax.Number(n), st.pos)
	return st.pushToTip(lit)
}

// pushToTip appends node to the expression stack, unless the current tip is
// a Continuation and node is a Literal, in which case node extends the
// tuple in place. Pushing onto a Literal tip is a parse error.
func (st *parseState) pushToTip(node syntax.Node) error {
	if len(st.expressions) > 0 {
		tip := st.expressions[len(st.expressions)-1]
		if tip.Type() == syntax.NTLiteral {
			return newSyntaxError(st.source, st.pos, "cannot push an expression onto a literal")
		}
		if node.Type() == syntax.NTLiteral && tip.Type() == syntax.NTContinuation {
			tip.AsContinuation().Append(node)
			return nil
		}
	}
	st.expressions = append(st.expressions, node)
	return nil
}

// pushToBlock collapses any pending expressions into one node and appends
// it as a statement of the currently open block.
func (st *parseState) pushToBlock() error {
	if len(st.expressions) == 0 {
		return nil
	}
	collapsed := st.collapse(0)
	return pushChild(st.blocks[len(st.blocks)-1], collapsed)
}

// collapse pops expressions above offset, feeding each into the one below
// it within the window, and returns the deepest node reached (the one at
// index offset, now fully wired). Nodes at or below offset are untouched.
func (st *parseState) collapse(offset int) syntax.Node {
	var e syntax.Node
	for len(st.expressions) > offset {
		e = st.expressions[len(st.expressions)-1]
		st.expressions = st.expressions[:len(st.expressions)-1]
		if len(st.expressions) > offset {
			pushChild(st.expressions[len(st.expressions)-1], e)
		}
	}
	return e
}

// tipAwaitsChild reports whether the current expression-stack tip is an
// incomplete prefix or infix node still waiting for its operand — the
// "expression position" test used to resolve the 'T' tangent/any-reducer
// overload (§9).
func (st *parseState) tipAwaitsChild() bool {
	if len(st.expressions) == 0 {
		return false
	}
	tip := st.expressions[len(st.expressions)-1]
	switch tip.Type() {
	case syntax.NTPrefixStatement:
		return tip.AsPrefixStatement().Body == nil
	case syntax.NTPrefixExpression:
		return tip.AsPrefixExpression().Body == nil
	case syntax.NTInfixExpression:
		return tip.AsInfixExpression().Right == nil
	}
	return false
}

func (st *parseState) handleContinuation() error {
	if len(st.expressions) == 0 {
		return newSyntaxError(st.source, st.pos, "continuation with no preceding expression")
	}
	e := st.expressions[len(st.expressions)-1]
	st.expressions = st.expressions[:len(st.expressions)-1]
	st.emit("continuation", "")
	cont := syntax.NewContinuation(e, st.pos)
	return st.pushToTip(cont)
}

func (st *parseState) handleBlockEnd() error {
	// Prefer closing the nearest open parenthesized BlockExpression.
	for i := len(st.expressions) - 1; i >= 0; i-- {
		if st.expressions[i].Type() != syntax.NTBlockExpression {
			continue
		}
		collapsed := st.collapse(i)
		st.emit("block-end:paren", "")
		return st.pushToTip(collapsed)
	}

	if len(st.blocks) <= 1 {
		return newSyntaxError(st.source, st.pos, "end of block detected outside of block")
	}

	if err := st.pushToBlock(); err != nil {
		return err
	}

	closed := st.blocks[len(st.blocks)-1]
	st.blocks = st.blocks[:len(st.blocks)-1]
	st.emit("block-end:statement", "")
	return pushChild(st.blocks[len(st.blocks)-1], closed)
}

func (st *parseState) handleWhitespace() error {
	if len(st.expressions) == 0 {
		return nil
	}
	e := st.expressions[len(st.expressions)-1]
	st.expressions = st.expressions[:len(st.expressions)-1]
	if len(st.expressions) > 0 {
		pushChild(st.expressions[len(st.expressions)-1], e)
	} else {
		if err := pushChild(st.blocks[len(st.blocks)-1], e); err != nil {
			return err
		}
	}
	return nil
}

func (st *parseState) handleStatementChar(c byte) error {
	if err := st.pushToBlock(); err != nil {
		return err
	}
	st.emit("statement", string(c))

	var node syntax.Node
	if containsByte(singleOperationChars, c) {
		node = syntax.NewNoParamStatement(c, st.pos)
	} else {
		node = syntax.NewPrefixStatement(c, st.pos)
	}
	return st.pushToTip(node)
}

func (st *parseState) handlePrefixExpressionChar(c byte) error {
	st.emit("prefix-expr", string(c))
	return st.pushToTip(syntax.NewPrefixExpression(c, st.pos))
}

func (st *parseState) handleInfixChar(c byte) error {
	if len(st.expressions) == 0 {
		return newSyntaxError(st.source, st.pos, "infix operator %q with no left operand", c)
	}
	left := st.expressions[len(st.expressions)-1]
	st.expressions = st.expressions[:len(st.expressions)-1]
	st.emit("infix", string(c))
	return st.pushToTip(syntax.NewInfixExpression(c, left, st.pos))
}

func (st *parseState) handleBlockStatementChar(c byte) error {
	if err := st.pushToBlock(); err != nil {
		return err
	}
	st.emit("block-statement", string(c))

	var node syntax.Node
	switch c {
	case 'L', 'i':
		node = syntax.NewFirstExprBlock(c, st.pos)
	case '@', '{':
		node = syntax.NewExecutableBlock(c, st.pos)
	}
	st.blocks = append(st.blocks, node)
	return nil
}

func (st *parseState) handleBlockExpressionChar(c byte) error {
	st.emit("block-expr", string(c))

	var node syntax.Node
	switch c {
	case '(':
		node = syntax.NewBlockExpression(st.pos)
	case 'T', 'A', 'U':
		node = syntax.NewReducerBlock(c, st.pos)
	}
	return st.pushToTip(node)
}

// pushChild installs child into parent's next open slot, dispatching on
// parent's concrete kind. This is the single place that understands how
// every node family accepts a pushed child, mirroring the uniform
// node.push(child) call used throughout parsing.
func pushChild(parent syntax.Node, child syntax.Node) error {
	switch parent.Type() {
	case syntax.NTPrefixStatement:
		parent.AsPrefixStatement().SetBody(child)
	case syntax.NTPrefixExpression:
		parent.AsPrefixExpression().SetBody(child)
	case syntax.NTInfixExpression:
		parent.AsInfixExpression().SetRight(child)
	case syntax.NTContinuation:
		parent.AsContinuation().Append(child)
	case syntax.NTBlockOperation:
		parent.AsBlockOperation().Append(child)
	case syntax.NTBlockExpression:
		parent.AsBlockExpression().SetChild(child)
	case syntax.NTFirstExprBlock:
		parent.AsFirstExprBlock().Push(child)
	case syntax.NTExecutableBlock:
		parent.AsExecutableBlock().Push(child)
	case syntax.NTReducerBlock:
		parent.AsReducerBlock().Append(child)
	default:
		return newSyntaxError("", 0, "cannot push a child onto %s", parent.Type())
	}
	return nil
}
