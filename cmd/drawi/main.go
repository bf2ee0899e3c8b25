/*
Drawi runs a drawlang program and saves the resulting canvas as a PNG.

Usage:

	drawi [flags] FILE

The flags are:

	-o, --out FILE
		Path to write the rendered PNG to. Defaults to /tmp/out.png.

	-t, --trace FILE
		Write a trace of every parser rule fired while parsing FILE.

	-v, --version
		Give the current version of drawlang and then exit.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/drawlang"
	"github.com/dekarrin/drawlang/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates bad command-line arguments.
	ExitUsageError

	// ExitRunError indicates the program failed to parse or run.
	ExitRunError
)

var (
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	outFile     *string = pflag.StringP("out", "o", "", "Path to write the rendered PNG to")
	traceFile   *string = pflag.StringP("trace", "t", "", "Write a parser trace to the given file")
)

func main() {
	returnCode := ExitSuccess
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "ERROR: expected exactly one program file\n")
		returnCode = ExitUsageError
		return
	}
	inFile := pflag.Arg(0)

	out := *outFile
	if out == "" {
		out = "/tmp/out.png"
	}

	if err := drawlang.RunFile(inFile, out, *traceFile); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRunError
		return
	}
}
