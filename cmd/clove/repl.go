package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/clove-lang/clove/pkg/cli"
	"github.com/clove-lang/clove/pkg/config"
	"github.com/clove-lang/clove/pkg/lexer"
	"github.com/clove-lang/clove/pkg/parser"
	"github.com/clove-lang/clove/pkg/util"
)

const (
	historyFile = ".clove_history"
	promptMain  = ">> "
	promptCont  = ".. "
)

func cmdRepl(args []string) error {
	app := cli.NewApp("clove repl")
	app.Description = "Compile forms interactively and print the resulting module text."

	var flagArgs []string
	app.FlagSet.Prefix(&flagArgs, "F", "Toggle a feature, e.g. -Ffloat")
	app.FlagSet.Prefix(&flagArgs, "W", "Toggle a warning")

	app.Action = func(inputs []string) error {
		if len(inputs) != 0 {
			app.PrintUsage(os.Stderr)
			return fmt.Errorf("repl takes no input files")
		}
		cfg, err := newConfig(flagArgs)
		if err != nil {
			return err
		}
		runRepl(cfg)
		return nil
	}
	return app.Run(args)
}

func runRepl(cfg *config.Config) {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	// The completeness probe reparses every line, so it must not repeat
	// warnings the real compile will print.
	quiet := config.New()
	_ = quiet.ApplyFlag("-Wno-all")

	fmt.Println("clove repl, Ctrl+D to exit")
	for {
		source, ok := readForm(ln, quiet)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(source) == "" {
			continue
		}

		util.SetSourceFile("<repl>", []rune(source))
		content, err := compile(source, cfg)
		if err != nil {
			diagnose(err)
			continue
		}
		fmt.Println(content)
		ln.AppendHistory(strings.ReplaceAll(source, "\n", " "))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

// readForm accumulates input lines until the parser no longer reports an
// unexpected end of file, so open forms continue onto the next line.
func readForm(ln *liner.State, cfg *config.Config) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(promptMain)
		} else {
			line, err = ln.Prompt(promptCont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the current input and starts over.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		source := b.String()
		if strings.TrimSpace(source) == "" {
			return source, true
		}
		if looksIncomplete(source, cfg) {
			continue
		}
		return source, true
	}
}

func looksIncomplete(source string, cfg *config.Config) bool {
	tokens, err := lexer.Scan(source, cfg)
	if err != nil {
		return false
	}
	_, err = parser.New(tokens, cfg).Parse()
	var eofErr *parser.UnexpectedEOFError
	return errors.As(err, &eofErr)
}
