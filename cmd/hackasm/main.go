// Command hackasm assembles Hack assembly source into machine code.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"

	"github.com/bklein/n2t/internal/asm"
	"github.com/bklein/n2t/internal/fsutil"
)

var description = strings.ReplaceAll(`
hackasm assembles one or more .asm files (or a directory of them) into
Hack machine code, writing one .hack file per input next to the source.
`, "\n", " ")

var app = cli.New(description).
	WithArg(cli.NewArg("inputs", "Assembly source files or a directory of .asm files").
		AsOptional().WithType(cli.TypeString)).
	WithAction(run)

func run(args []string, _ map[string]string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "hackasm: no input files, use --help")
		return 1
	}

	files, err := fsutil.CollectFiles(args, ".asm")
	if err != nil {
		fmt.Fprintf(os.Stderr, "hackasm: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "hackasm: no .asm files found")
		return 1
	}

	for _, src := range files {
		if err := assembleFile(src); err != nil {
			fmt.Fprintf(os.Stderr, "hackasm: %s: %v\n", src, err)
			return 1
		}
	}
	return 0
}

func assembleFile(src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	commands, err := asm.Parse(in, src)
	if err != nil {
		return err
	}

	out, err := os.Create(fsutil.OutputPath(src, ".hack"))
	if err != nil {
		return err
	}
	defer out.Close()

	return asm.Assemble(commands, out)
}

func main() { os.Exit(app.Run(os.Args, os.Stdout)) }
