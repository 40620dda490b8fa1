// Package cli is a small flag and usage-text framework for the clove
// driver: long/short flags, prefix flags (-F.../-W...), and usage output
// wrapped to the terminal width.
package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/term"
)

type Value interface {
	String() string
	Set(string) error
}

type stringValue struct{ p *string }

func (v *stringValue) Set(s string) error { *v.p = s; return nil }
func (v *stringValue) String() string     { return *v.p }

type boolValue struct{ p *bool }

func (v *boolValue) Set(s string) error {
	if s == "" {
		*v.p = true
		return nil
	}
	val, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid boolean value '%s': %w", s, err)
	}
	*v.p = val
	return nil
}
func (v *boolValue) String() string { return strconv.FormatBool(*v.p) }

type Flag struct {
	Name      string
	Shorthand string
	Usage     string
	Value     Value
	DefValue  string
	IsBool    bool
}

type prefixHandler struct {
	prefix string
	usage  string
	sink   *[]string
}

type FlagSet struct {
	name       string
	flags      map[string]*Flag
	shorthands map[string]*Flag
	ordered    []*Flag
	prefixes   []prefixHandler
	args       []string
}

func NewFlagSet(name string) *FlagSet {
	return &FlagSet{
		name:       name,
		flags:      make(map[string]*Flag),
		shorthands: make(map[string]*Flag),
	}
}

func (f *FlagSet) Args() []string { return f.args }

func (f *FlagSet) String(p *string, name, shorthand, value, usage string) {
	*p = value
	f.addFlag(&Flag{Name: name, Shorthand: shorthand, Usage: usage, Value: &stringValue{p}, DefValue: value})
}

func (f *FlagSet) Bool(p *bool, name, shorthand string, value bool, usage string) {
	*p = value
	f.addFlag(&Flag{Name: name, Shorthand: shorthand, Usage: usage, Value: &boolValue{p}, DefValue: strconv.FormatBool(value), IsBool: true})
}

// Prefix collects every otherwise-unknown flag that starts with the given
// single-letter prefix, e.g. -Ffloat or -Wno-unknown-form, for the caller
// to interpret.
func (f *FlagSet) Prefix(p *[]string, prefix, usage string) {
	*p = nil
	f.prefixes = append(f.prefixes, prefixHandler{prefix: prefix, usage: usage, sink: p})
}

func (f *FlagSet) addFlag(flag *Flag) {
	if flag.Name == "" {
		panic("flag name cannot be empty")
	}
	if _, ok := f.flags[flag.Name]; ok {
		panic(fmt.Sprintf("flag redefined: %s", flag.Name))
	}
	f.flags[flag.Name] = flag
	if flag.Shorthand != "" {
		if _, ok := f.shorthands[flag.Shorthand]; ok {
			panic(fmt.Sprintf("shorthand flag redefined: %s", flag.Shorthand))
		}
		f.shorthands[flag.Shorthand] = flag
	}
	f.ordered = append(f.ordered, flag)
}

func (f *FlagSet) lookup(name string) *Flag {
	if flag, ok := f.flags[name]; ok {
		return flag
	}
	return f.shorthands[name]
}

func (f *FlagSet) Parse(arguments []string) error {
	f.args = nil
	for i := 0; i < len(arguments); i++ {
		arg := arguments[i]
		if len(arg) < 2 || arg[0] != '-' {
			f.args = append(f.args, arg)
			continue
		}
		if arg == "--" {
			f.args = append(f.args, arguments[i+1:]...)
			break
		}

		name := strings.TrimLeft(arg, "-")
		value := ""
		hasValue := false
		if eq := strings.Index(name, "="); eq >= 0 {
			name, value = name[:eq], name[eq+1:]
			hasValue = true
		}

		flag := f.lookup(name)
		if flag == nil {
			if handler := f.matchPrefix(name); handler != nil {
				*handler.sink = append(*handler.sink, "-"+name)
				continue
			}
			return fmt.Errorf("unknown flag '%s'", arg)
		}

		switch {
		case hasValue:
			if err := flag.Value.Set(value); err != nil {
				return err
			}
		case flag.IsBool:
			if err := flag.Value.Set(""); err != nil {
				return err
			}
		default:
			if i+1 >= len(arguments) {
				return fmt.Errorf("flag '%s' requires a value", arg)
			}
			i++
			if err := flag.Value.Set(arguments[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *FlagSet) matchPrefix(name string) *prefixHandler {
	for i := range f.prefixes {
		if strings.HasPrefix(name, f.prefixes[i].prefix) && len(name) > len(f.prefixes[i].prefix) {
			return &f.prefixes[i]
		}
	}
	return nil
}

type App struct {
	Name        string
	Synopsis    string
	Description string
	FlagSet     *FlagSet
	Action      func(args []string) error
}

func NewApp(name string) *App {
	return &App{Name: name, FlagSet: NewFlagSet(name)}
}

func (a *App) Run(arguments []string) error {
	for _, arg := range arguments {
		if arg == "-h" || arg == "--help" {
			a.PrintUsage(os.Stdout)
			return nil
		}
		if arg == "--" {
			break
		}
	}
	if err := a.FlagSet.Parse(arguments); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", a.Name, err)
		a.PrintUsage(os.Stderr)
		return err
	}
	return a.Action(a.FlagSet.Args())
}

func (a *App) PrintUsage(stream *os.File) {
	width := usableWidth()
	fmt.Fprintf(stream, "Usage: %s %s\n", a.Name, a.Synopsis)
	if a.Description != "" {
		for _, line := range wrap(a.Description, width) {
			fmt.Fprintf(stream, "  %s\n", line)
		}
	}

	flags := make([]*Flag, len(a.FlagSet.ordered))
	copy(flags, a.FlagSet.ordered)
	sort.Slice(flags, func(i, j int) bool { return flags[i].Name < flags[j].Name })

	if len(flags) > 0 || len(a.FlagSet.prefixes) > 0 {
		fmt.Fprintln(stream, "Options:")
	}
	for _, flag := range flags {
		names := "--" + flag.Name
		if flag.Shorthand != "" {
			names = "-" + flag.Shorthand + ", " + names
		}
		usage := flag.Usage
		if !flag.IsBool && flag.DefValue != "" {
			usage += fmt.Sprintf(" (default: %s)", flag.DefValue)
		}
		fmt.Fprintf(stream, "  %-24s %s\n", names, usage)
	}
	for _, handler := range a.FlagSet.prefixes {
		fmt.Fprintf(stream, "  %-24s %s\n", "-"+handler.prefix+"<name>", handler.usage)
	}
}

func usableWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func wrap(text string, width int) []string {
	words := strings.Fields(text)
	var lines []string
	var current string
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}
		if len(current)+1+len(word) > width-2 {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
