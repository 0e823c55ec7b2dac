// Command vmtranslate translates VM code into Hack assembly.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/teris-io/cli"

	"github.com/bklein/n2t/internal/fsutil"
	"github.com/bklein/n2t/internal/vm"
)

var description = strings.ReplaceAll(`
vmtranslate translates one or more .vm files (or a directory of them)
into a single Hack assembly (.asm) file. Bootstrap code (SP=256; call
Sys.init 0) is emitted first by default.
`, "\n", " ")

var app = cli.New(description).
	WithArg(cli.NewArg("inputs", "VM source files or a directory of .vm files").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("out", "Path of the translated .asm file (defaults to <dir>.asm or <file>.asm)").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("bootstrap", "Emit bootstrap code: true or false (default true)").
		WithType(cli.TypeString)).
	WithAction(run)

func run(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "vmtranslate: no input files, use --help")
		return 1
	}
	outPath := options["out"]
	if outPath == "" {
		var err error
		outPath, err = defaultOutputPath(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vmtranslate: %v\n", err)
			return 1
		}
	}

	files, err := fsutil.CollectFiles(args, ".vm")
	if err != nil {
		fmt.Fprintf(os.Stderr, "vmtranslate: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "vmtranslate: no .vm files found")
		return 1
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vmtranslate: %v\n", err)
		return 1
	}
	defer out.Close()

	writer := vm.NewCodeWriter(out)
	if options["bootstrap"] != "false" {
		writer.WriteBootstrap()
	}

	for _, src := range files {
		if err := translateFile(src, writer); err != nil {
			fmt.Fprintf(os.Stderr, "vmtranslate: %s: %v\n", src, err)
			return 1
		}
	}
	return 0
}

// defaultOutputPath derives the --out default per spec.md §6: a directory
// input names its .asm after the directory, a single file input names its
// .asm after the file. With more than one positional input there is no
// single name to derive the default from, so --out must be given explicitly.
func defaultOutputPath(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("--out is required when more than one input is given")
	}
	if fsutil.IsDir(args[0]) {
		return fsutil.DirName(args[0]) + ".asm", nil
	}
	return fsutil.OutputPath(args[0], ".asm"), nil
}

func translateFile(src string, writer *vm.CodeWriter) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	writer.SetFileName(fsutil.BaseName(src))

	commands, err := vm.Parse(in, src)
	if err != nil {
		return err
	}
	for _, cmd := range commands {
		if err := writer.Write(cmd); err != nil {
			return err
		}
	}
	return nil
}

func main() { os.Exit(app.Run(os.Args, os.Stdout)) }
