// Command jackc compiles Jack source files into VM code.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teris-io/cli"

	"github.com/bklein/n2t/internal/fsutil"
	"github.com/bklein/n2t/internal/jack"
)

var description = strings.ReplaceAll(`
jackc compiles one or more Jack source files (or a directory of .jack
files) into VM code, writing one .vm file per input class next to the
source unless --out names a different directory.
`, "\n", " ")

var app = cli.New(description).
	WithArg(cli.NewArg("inputs", "Jack source files or a directory of .jack files").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("out", "Directory to write compiled .vm files into").
		WithType(cli.TypeString)).
	WithAction(run)

func run(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "jackc: no input files, use --help")
		return 1
	}

	files, err := fsutil.CollectFiles(args, ".jack")
	if err != nil {
		fmt.Fprintf(os.Stderr, "jackc: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "jackc: no .jack files found")
		return 1
	}

	for _, src := range files {
		if err := compileFile(src, options["out"]); err != nil {
			fmt.Fprintf(os.Stderr, "jackc: %s: %v\n", src, err)
			return 1
		}
	}
	return 0
}

func compileFile(src, outDir string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	dest := fsutil.OutputPath(src, ".vm")
	if outDir != "" {
		dest = filepath.Join(outDir, filepath.Base(dest))
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	tokenizer, err := jack.NewTokenizer(in)
	if err != nil {
		return err
	}
	engine := jack.NewCompilationEngine(tokenizer, jack.NewVMWriter(out))
	return engine.Compile()
}

func main() { os.Exit(app.Run(os.Args, os.Stdout)) }
