package codegen

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/clove-lang/clove/pkg/ast"
	"github.com/clove-lang/clove/pkg/config"
	"github.com/clove-lang/clove/pkg/lexer"
	"github.com/clove-lang/clove/pkg/parser"
	"github.com/clove-lang/clove/pkg/token"
)

// quietConfig keeps warning output away from test stderr.
func quietConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	if err := cfg.ApplyFlag("-Wno-all"); err != nil {
		t.Fatalf("ApplyFlag failed: %v", err)
	}
	return cfg
}

func compile(t *testing.T, source string, cfg *config.Config) string {
	t.Helper()
	tokens, err := lexer.Scan(source, cfg)
	if err != nil {
		t.Fatalf("Scan(%q) failed: %v", source, err)
	}
	nodes, err := parser.New(tokens, cfg).Parse()
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	return New(cfg).Emit(nodes)
}

func TestEmitHelloWorld(t *testing.T) {
	got := compile(t, `(defn main (print "Hello world"))`, quietConfig(t))
	want := strings.Join([]string{
		"(module ",
		`(import "wasi_unstable" "fd_write" (func $fd_write (param i32 i32 i32 i32) (result i32)))`,
		`(memory 1) (export "memory" (memory 0))`,
		`(data (i32.const 8) "Hello world\n")`,
		"(func $main ",
		"(i32.store (i32.const 0) (i32.const 8))",
		"(i32.store (i32.const 4) (i32.const 12))",
		"(call $fd_write (i32.const 1) (i32.const 0) (i32.const 1) (i32.const 20))",
		"drop",
		")",
		`(export "_start" (func $main))`,
		")",
	}, "\n ")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("module text mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitIsDeterministic(t *testing.T) {
	source := `(defn main (print "Hello world"))`
	cfg := quietConfig(t)
	first := compile(t, source, cfg)
	second := compile(t, source, cfg)
	if first != second {
		t.Errorf("two compilations differ:\n%s\n---\n%s", first, second)
	}
}

func TestEmitAdditionFold(t *testing.T) {
	got := compile(t, "(+ 1 2)", quietConfig(t))
	wantFragment := strings.Join([]string{
		"(i32.add",
		"(i32.const 1)",
		"(i32.const 2)",
		")",
	}, "\n ")
	if !strings.Contains(got, wantFragment) {
		t.Errorf("output missing fold fragment %q:\n%s", wantFragment, got)
	}
	if strings.Contains(got, "(import ") {
		t.Errorf("arithmetic module should declare no imports:\n%s", got)
	}
}

func TestEmitNestedFold(t *testing.T) {
	got := compile(t, "(- 5 (+ 2 3))", quietConfig(t))
	wantFragment := strings.Join([]string{
		"(i32.sub",
		"(i32.const 5)",
		"(i32.add",
		"(i32.const 2)",
		"(i32.const 3)",
		")",
		")",
	}, "\n ")
	if !strings.Contains(got, wantFragment) {
		t.Errorf("output missing nested fold fragment:\n%s", got)
	}
}

func TestEmitNewlineFeatureOff(t *testing.T) {
	cfg := quietConfig(t)
	cfg.SetFeature(config.FeatNewline, false)
	got := compile(t, `(defn main (print "hi"))`, cfg)
	if !strings.Contains(got, `(data (i32.const 8) "hi")`) {
		t.Errorf("data segment should have no trailing newline:\n%s", got)
	}
}

func TestEmitMainParams(t *testing.T) {
	got := compile(t, "(defn main [a b] (+ a b))", quietConfig(t))
	for _, want := range []string{"(param $p0 i32)", "(param $p1 i32)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestEmitImportDeduplicated(t *testing.T) {
	got := compile(t, `(defn main (print "a") (print "b"))`, quietConfig(t))
	if n := strings.Count(got, "(import "); n != 1 {
		t.Errorf("import count = %d; want 1:\n%s", n, got)
	}
}

func TestEmitUnknownHeadEmitsNothing(t *testing.T) {
	got := compile(t, "(greet 1 2)", quietConfig(t))
	want := strings.Join([]string{
		"(module ",
		"",
		`(memory 1) (export "memory" (memory 0))`,
		"",
		`(export "_start" (func $main))`,
		")",
	}, "\n ")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("module text mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitDefProducesNoInstructions(t *testing.T) {
	got := compile(t, "(def answer 42)\n(+ 1 2)", quietConfig(t))
	if strings.Contains(got, "(i32.const 42)") {
		t.Errorf("definition value leaked into the instruction stream:\n%s", got)
	}
	if !strings.Contains(got, "(i32.add") {
		t.Errorf("sibling form missing from output:\n%s", got)
	}
}

func TestEmitDirectNodes(t *testing.T) {
	cfg := quietConfig(t)
	nodes := []*ast.Node{ast.NewInteger(token.Token{}, 7)}
	got := New(cfg).Emit(nodes)
	if !strings.Contains(got, "(i32.const 7)") {
		t.Errorf("output missing constant:\n%s", got)
	}
}
