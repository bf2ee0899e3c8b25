package lang

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
	"golang.org/x/text/width"
)

// SyntaxError is raised by the parser. It carries the monotone character
// position of the offending token and the full source text so a caller can
// render a one-line diagnostic with a cursor.
type SyntaxError struct {
	source  string
	pos     int
	message string
}

func newSyntaxError(source string, pos int, format string, args ...interface{}) SyntaxError {
	return SyntaxError{source: source, pos: pos, message: fmt.Sprintf(format, args...)}
}

func (se SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: at char %d: %s", se.pos, se.message)
}

// Position returns the 1-indexed character position the error occurred at.
func (se SyntaxError) Position() int { return se.pos }

// FullMessage renders the error message together with the offending source
// line and a cursor beneath the offending character, wrapped to width cols
// (0 disables wrapping).
func (se SyntaxError) FullMessage(width int) string {
	msg := se.Error()
	cursor := se.SourceLineWithCursor()
	if cursor == "" {
		return msg
	}
	full := cursor + "\n" + msg
	if width <= 0 {
		return full
	}
	return rosed.Edit(full).WrapOpts(width, rosed.Options{PreserveParagraphs: true}).String()
}

// SourceLineWithCursor returns the line of source containing pos, and on the
// line beneath it, a caret aligned under the offending character. Multi-width
// runes are accounted for via golang.org/x/text/width so the caret lines up
// under full-width characters.
func (se SyntaxError) SourceLineWithCursor() string {
	if se.source == "" {
		return ""
	}
	line, col := lineAndCol(se.source, se.pos)
	if line == "" {
		return ""
	}

	var cursor strings.Builder
	for _, r := range line[:col-1] {
		if width.LookupRune(r).Kind() == width.EastAsianWide || width.LookupRune(r).Kind() == width.EastAsianFullwidth {
			cursor.WriteString("  ")
		} else {
			cursor.WriteByte(' ')
		}
	}
	cursor.WriteByte('^')

	return line + "\n" + cursor.String()
}

// lineAndCol finds the line of src containing the 1-indexed character
// position pos, and pos's 1-indexed column within that line.
func lineAndCol(src string, pos int) (line string, col int) {
	if pos < 1 || pos > len(src) {
		return "", 0
	}
	start := strings.LastIndexByte(src[:pos-1], '\n') + 1
	end := strings.IndexByte(src[pos-1:], '\n')
	if end == -1 {
		end = len(src)
	} else {
		end += pos - 1
	}
	return src[start:end], pos - start
}

// RuntimeError is raised by the interpreter. It carries a brief cause and,
// where known, the AST position that triggered it.
type RuntimeError struct {
	pos     int
	message string
}

func newRuntimeError(pos int, format string, args ...interface{}) RuntimeError {
	return RuntimeError{pos: pos, message: fmt.Sprintf(format, args...)}
}

func (re RuntimeError) Error() string {
	if re.pos == 0 {
		return fmt.Sprintf("runtime error: %s", re.message)
	}
	return fmt.Sprintf("runtime error: at char %d: %s", re.pos, re.message)
}

// Position returns the 1-indexed character position associated with the
// error, or 0 if none is known.
func (re RuntimeError) Position() int { return re.pos }

// breakSignal is the control-flow carrier for ';'. It is never surfaced as
// an error to a caller of Interpret; it is recovered by the nearest
// enclosing loop and, if uncaught at top level, reported as a RuntimeError.
type breakSignal struct{}
