package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/clove-lang/clove/pkg/ast"
	"github.com/clove-lang/clove/pkg/cli"
	"github.com/clove-lang/clove/pkg/codegen"
	"github.com/clove-lang/clove/pkg/config"
	"github.com/clove-lang/clove/pkg/lexer"
	"github.com/clove-lang/clove/pkg/parser"
	"github.com/clove-lang/clove/pkg/token"
	"github.com/clove-lang/clove/pkg/util"
)

func main() {
	if len(os.Args) < 2 {
		printTopUsage(os.Stderr)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = cmdBuild(os.Args[2:])
	case "tokens":
		err = cmdTokens(os.Args[2:])
	case "ast":
		err = cmdAST(os.Args[2:])
	case "repl":
		err = cmdRepl(os.Args[2:])
	case "help", "-h", "--help":
		printTopUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "clove: unknown command '%s'\n", os.Args[1])
		printTopUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		os.Exit(1)
	}
}

func printTopUsage(stream *os.File) {
	fmt.Fprintln(stream, "Usage: clove <command> [options] [file.clv]")
	fmt.Fprintln(stream, "Commands:")
	fmt.Fprintln(stream, "  build    Compile a source file to WebAssembly text")
	fmt.Fprintln(stream, "  tokens   Dump the token stream of a source file")
	fmt.Fprintln(stream, "  ast      Dump the parsed tree of a source file")
	fmt.Fprintln(stream, "  repl     Compile forms interactively")
}

func newConfig(flagArgs []string) (*config.Config, error) {
	cfg := config.New()
	for _, flag := range flagArgs {
		if err := cfg.ApplyFlag(flag); err != nil {
			fmt.Fprintf(os.Stderr, "clove: %v\n", err)
			return nil, err
		}
	}
	return cfg, nil
}

// compile runs the whole pipeline over one in-memory source text.
func compile(source string, cfg *config.Config) (string, error) {
	tokens, err := lexer.Scan(source, cfg)
	if err != nil {
		return "", err
	}
	nodes, err := parser.New(tokens, cfg).Parse()
	if err != nil {
		return "", err
	}
	return codegen.New(cfg).Emit(nodes), nil
}

// diagnose renders a pipeline error with the source line and caret.
func diagnose(err error) {
	var scanErr *lexer.UnknownCharacterError
	var eofErr *parser.UnexpectedEOFError
	var tokErr *parser.UnexpectedTokenError
	var nameErr *parser.InvalidFunctionNameError
	switch {
	case errors.As(err, &scanErr):
		util.Error(token.Token{Pos: scanErr.Pos, Len: len(scanErr.Text)}, "unknown character %q", scanErr.Text)
	case errors.As(err, &eofErr):
		util.Error(token.Token{Pos: eofErr.Pos}, "unexpected end of file")
	case errors.As(err, &tokErr):
		util.Error(tokErr.Tok, "unexpected %s", tokErr.Tok.Type)
	case errors.As(err, &nameErr):
		util.Error(nameErr.Tok, "invalid function name: expected an identifier or 'main'")
	default:
		fmt.Fprintf(os.Stderr, "clove: %v\n", err)
	}
}

func loadSource(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clove: could not read '%s': %v\n", path, err)
		return "", err
	}
	util.SetSourceFile(path, []rune(string(content)))
	return string(content), nil
}

func cmdBuild(args []string) error {
	app := cli.NewApp("clove build")
	app.Synopsis = "[options] <input.clv>"
	app.Description = "Compile one Clove source file to a WebAssembly text module."

	var (
		outFile  string
		verbose  bool
		flagArgs []string
	)
	fs := app.FlagSet
	fs.String(&outFile, "output", "o", "", "Place the module text into <file>")
	fs.Bool(&verbose, "verbose", "v", false, "Report the output digest and skip decisions")
	fs.Prefix(&flagArgs, "F", "Toggle a feature, e.g. -Ffloat, -Fno-newline")
	fs.Prefix(&flagArgs, "W", "Toggle a warning, e.g. -Wall, -Wno-unknown-form")

	app.Action = func(inputs []string) error {
		if len(inputs) != 1 {
			app.PrintUsage(os.Stderr)
			return fmt.Errorf("expected exactly one input file")
		}
		cfg, err := newConfig(flagArgs)
		if err != nil {
			return err
		}

		source, err := loadSource(inputs[0])
		if err != nil {
			return err
		}

		content, err := compile(source, cfg)
		if err != nil {
			diagnose(err)
			return err
		}

		out := outFile
		if out == "" {
			out = strings.TrimSuffix(inputs[0], filepath.Ext(inputs[0])) + ".wat"
		}
		return writeOutput(out, content, verbose)
	}
	return app.Run(args)
}

// writeOutput persists the module text, skipping the write when the file
// already holds byte-identical content.
func writeOutput(path, content string, verbose bool) error {
	sum := xxhash.Sum64String(content)
	if existing, err := os.ReadFile(path); err == nil && xxhash.Sum64(existing) == sum {
		if verbose {
			fmt.Printf("clove: %s unchanged (xxh64 %016x)\n", path, sum)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "clove: could not write '%s': %v\n", path, err)
		return err
	}
	if verbose {
		fmt.Printf("clove: wrote %s (xxh64 %016x)\n", path, sum)
	}
	return nil
}

func cmdTokens(args []string) error {
	app := cli.NewApp("clove tokens")
	app.Synopsis = "<input.clv>"
	app.Description = "Dump the filtered token stream the parser would see."

	var flagArgs []string
	app.FlagSet.Prefix(&flagArgs, "F", "Toggle a feature, e.g. -Ffloat")
	app.FlagSet.Prefix(&flagArgs, "W", "Toggle a warning")

	app.Action = func(inputs []string) error {
		if len(inputs) != 1 {
			app.PrintUsage(os.Stderr)
			return fmt.Errorf("expected exactly one input file")
		}
		cfg, err := newConfig(flagArgs)
		if err != nil {
			return err
		}
		source, err := loadSource(inputs[0])
		if err != nil {
			return err
		}
		tokens, err := lexer.Scan(source, cfg)
		if err != nil {
			diagnose(err)
			return err
		}
		for _, tok := range tokens {
			if tok.Value != "" {
				fmt.Printf("%d:%d\t%s\t%s\n", tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Value)
			} else {
				fmt.Printf("%d:%d\t%s\n", tok.Pos.Line, tok.Pos.Column, tok.Type)
			}
		}
		return nil
	}
	return app.Run(args)
}

func cmdAST(args []string) error {
	app := cli.NewApp("clove ast")
	app.Synopsis = "<input.clv>"
	app.Description = "Dump the parsed tree of a source file."

	var flagArgs []string
	app.FlagSet.Prefix(&flagArgs, "F", "Toggle a feature, e.g. -Ffloat")
	app.FlagSet.Prefix(&flagArgs, "W", "Toggle a warning")

	app.Action = func(inputs []string) error {
		if len(inputs) != 1 {
			app.PrintUsage(os.Stderr)
			return fmt.Errorf("expected exactly one input file")
		}
		cfg, err := newConfig(flagArgs)
		if err != nil {
			return err
		}
		source, err := loadSource(inputs[0])
		if err != nil {
			return err
		}
		tokens, err := lexer.Scan(source, cfg)
		if err != nil {
			diagnose(err)
			return err
		}
		nodes, err := parser.New(tokens, cfg).Parse()
		if err != nil {
			diagnose(err)
			return err
		}
		fmt.Print(ast.Dump(nodes))
		return nil
	}
	return app.Run(args)
}
