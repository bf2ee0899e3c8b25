// Package drawlang parses and runs drawlang programs, producing a raster
// image. It ties together the lang package (parsing and interpretation)
// and the canvas package (the drawing surface) into the single entry point
// the CLI and the server both call.
package drawlang

import (
	"fmt"
	"os"

	"github.com/dekarrin/drawlang/canvas"
	"github.com/dekarrin/drawlang/lang"
	"github.com/dekarrin/drawlang/lang/trace"
)

const diagnosticWidth = 80

// RunOptions controls optional side channels of a Run call.
type RunOptions struct {
	// Trace, if non-nil, receives one Event per parser rule firing.
	Trace *trace.Writer
}

// Run parses and interprets a drawlang program, returning the canvas it
// drew on success. On any syntax or runtime error the canvas is discarded
// entirely; a half-drawn image is never returned.
func Run(source []byte, opts RunOptions) (*canvas.Raster, error) {
	p := lang.NewParser()
	p.Trace = opts.Trace

	root, err := p.Parse(source)
	if err != nil {
		return nil, diagnose(source, err)
	}

	rst := canvas.NewRaster()
	ctx := lang.NewContext(rst)

	if err := lang.Interpret(ctx, root); err != nil {
		return nil, diagnose(source, err)
	}

	return rst, nil
}

// RunFile runs the program at inPath and saves the resulting canvas as a
// PNG at outPath. If tracePath is non-empty, a trace of every parser rule
// fired is written there.
func RunFile(inPath, outPath, tracePath string) error {
	source, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read program: %w", err)
	}

	var opts RunOptions
	if tracePath != "" {
		tw, err := trace.Open(tracePath)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		defer tw.Close()
		opts.Trace = tw
	}

	rst, err := Run(source, opts)
	if err != nil {
		return err
	}

	if err := rst.Save(outPath); err != nil {
		return fmt.Errorf("save canvas: %w", err)
	}
	return nil
}

// diagnose renders a parse or runtime error into a reportable message with
// a cursor-annotated source excerpt, per the diagnostic contract both the
// CLI and the server follow.
func diagnose(source []byte, err error) error {
	switch e := err.(type) {
	case lang.SyntaxError:
		return fmt.Errorf("%s", e.FullMessage(diagnosticWidth))
	case lang.RuntimeError:
		return fmt.Errorf("%s", e.Error())
	default:
		return err
	}
}
