// Package util holds the shared diagnostic machinery: the source text
// registry and position-aware error/warning rendering.
package util

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/clove-lang/clove/pkg/config"
	"github.com/clove-lang/clove/pkg/token"
)

// SourceFileRecord tracks the name and content of one source file.
type SourceFileRecord struct {
	Name    string
	Content []rune
}

var sourceFile SourceFileRecord

// SetSourceFile stores the source text for rich diagnostics. One compilation
// owns one source text at a time.
func SetSourceFile(name string, content []rune) {
	sourceFile = SourceFileRecord{Name: name, Content: content}
}

var colorEnabled = term.IsTerminal(int(os.Stderr.Fd()))

func colored(code, s string) string {
	if !colorEnabled {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// printSourceLine prints the offending source line and a caret indicating
// the token position.
func printSourceLine(stream *os.File, pos token.Position, length int) {
	if pos.Line == 0 || len(sourceFile.Content) == 0 {
		return
	}

	content := sourceFile.Content
	lineNum := pos.Line
	lineStart := 0
	for i, r := range content {
		if lineNum <= 1 {
			break
		}
		if r == '\n' {
			lineNum--
			lineStart = i + 1
		}
	}

	lineEnd := len(content)
	for i := lineStart; i < len(content); i++ {
		if content[i] == '\n' {
			lineEnd = i
			break
		}
	}

	fmt.Fprintf(stream, "  %s\n", string(content[lineStart:lineEnd]))

	marker := "^"
	if length > 1 {
		marker += strings.Repeat("~", length-1)
	}
	fmt.Fprintf(stream, "  %s%s\n", strings.Repeat(" ", pos.Column-1), colored("32", marker))
}

// Error prints a formatted error message with the source line. Unlike a
// fatal diagnostic the caller keeps control; exiting is the driver's call.
func Error(tok token.Token, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s:%d:%d: %s ", sourceFile.Name, tok.Pos.Line, tok.Pos.Column, colored("31", "error:"))
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr)
	printSourceLine(os.Stderr, tok.Pos, tok.Len)
}

// Warn prints a formatted warning message if the corresponding warning is
// enabled in the configuration.
func Warn(cfg *config.Config, wt config.Warning, tok token.Token, format string, args ...interface{}) {
	if cfg == nil || !cfg.IsWarningEnabled(wt) {
		return
	}
	warningName := cfg.Warnings[wt].Name
	fmt.Fprintf(os.Stderr, "%s:%d:%d: %s ", sourceFile.Name, tok.Pos.Line, tok.Pos.Column, colored("33", "warning:"))
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintf(os.Stderr, " [-W%s]\n", warningName)
	printSourceLine(os.Stderr, tok.Pos, tok.Len)
}
