package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/clove-lang/clove/pkg/ast"
	"github.com/clove-lang/clove/pkg/config"
	"github.com/clove-lang/clove/pkg/lexer"
	"github.com/clove-lang/clove/pkg/token"
)

// ignoreTokens compares trees by shape and payload, not by source position.
var ignoreTokens = cmpopts.IgnoreFields(ast.Node{}, "Tok")

func parseSource(t *testing.T, source string) ([]*ast.Node, error) {
	t.Helper()
	cfg := config.New()
	tokens, err := lexer.Scan(source, cfg)
	if err != nil {
		t.Fatalf("Scan(%q) failed: %v", source, err)
	}
	return New(tokens, cfg).Parse()
}

func mustParse(t *testing.T, source string) []*ast.Node {
	t.Helper()
	nodes, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	return nodes
}

func integer(v int64) *ast.Node {
	return &ast.Node{Type: ast.Constant, Data: ast.IntegerNode{Value: v}}
}

func keyword(tokType token.Type) *ast.Node {
	return &ast.Node{Type: ast.Keyword, Data: ast.KeywordNode{Token: tokType}}
}

func variable(name string) *ast.Node {
	return &ast.Node{Type: ast.Variable, Data: ast.VariableNode{Name: name}}
}

func TestParseAddition(t *testing.T) {
	got := mustParse(t, "(+ 1 2)")
	want := []*ast.Node{
		{Type: ast.List, Data: ast.ListNode{
			Head: keyword(token.Plus),
			Rest: []*ast.Node{integer(1), integer(2)},
		}},
	}
	if diff := cmp.Diff(want, got, ignoreTokens); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNestedAddition(t *testing.T) {
	got := mustParse(t, "(+ 1 (+ 2 3))")
	want := []*ast.Node{
		{Type: ast.List, Data: ast.ListNode{
			Head: keyword(token.Plus),
			Rest: []*ast.Node{
				integer(1),
				{Type: ast.List, Data: ast.ListNode{
					Head: keyword(token.Plus),
					Rest: []*ast.Node{integer(2), integer(3)},
				}},
			},
		}},
	}
	if diff := cmp.Diff(want, got, ignoreTokens); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMap(t *testing.T) {
	got := mustParse(t, "{:guten 1 :tag 2}")
	want := []*ast.Node{
		{Type: ast.Map, Data: ast.MapNode{Entries: []ast.MapEntry{
			{Key: "guten", Value: integer(1)},
			{Key: "tag", Value: integer(2)},
		}}},
	}
	if diff := cmp.Diff(want, got, ignoreTokens); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMapKeylessEntry(t *testing.T) {
	got := mustParse(t, "{1 :a 2}")
	want := []*ast.Node{
		{Type: ast.Map, Data: ast.MapNode{Entries: []ast.MapEntry{
			{Key: "", Value: integer(1)},
			{Key: "a", Value: integer(2)},
		}}},
	}
	if diff := cmp.Diff(want, got, ignoreTokens); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseVector(t *testing.T) {
	got := mustParse(t, "[1 2]")
	want := []*ast.Node{
		{Type: ast.Vector, Data: ast.VectorNode{Items: []*ast.Node{integer(1), integer(2)}}},
	}
	if diff := cmp.Diff(want, got, ignoreTokens); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFunctionDefinition(t *testing.T) {
	got := mustParse(t, "(defn add [x y] (+ x y))")
	want := []*ast.Node{
		{Type: ast.Function, Data: ast.FunctionNode{
			Name:   "add",
			Params: []*ast.Node{variable("x"), variable("y")},
			Body: []*ast.Node{
				{Type: ast.List, Data: ast.ListNode{
					Head: keyword(token.Plus),
					Rest: []*ast.Node{variable("x"), variable("y")},
				}},
			},
		}},
	}
	if diff := cmp.Diff(want, got, ignoreTokens); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMainWithoutParams(t *testing.T) {
	got := mustParse(t, `(defn main (print "Hello world"))`)
	want := []*ast.Node{
		{Type: ast.Main, Data: ast.MainNode{
			Body: []*ast.Node{
				{Type: ast.List, Data: ast.ListNode{
					Head: keyword(token.Print),
					Rest: []*ast.Node{
						{Type: ast.Constant, Data: ast.StringNode{Value: "Hello world"}},
					},
				}},
			},
		}},
	}
	if diff := cmp.Diff(want, got, ignoreTokens); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMainWithParams(t *testing.T) {
	nodes := mustParse(t, "(defn main [a b] (+ a b))")
	main, ok := nodes[0].Data.(ast.MainNode)
	if !ok {
		t.Fatalf("got node type %v; want Main", nodes[0].Type)
	}
	if len(main.Params) != 2 {
		t.Errorf("param count = %d; want 2", len(main.Params))
	}
}

func TestParseDef(t *testing.T) {
	got := mustParse(t, "(def answer 42)")
	want := []*ast.Node{
		{Type: ast.Def, Data: ast.DefNode{Name: "answer", Value: integer(42)}},
	}
	if diff := cmp.Diff(want, got, ignoreTokens); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDefWithFormValue(t *testing.T) {
	got := mustParse(t, "(def total (+ 1 2))")
	want := []*ast.Node{
		{Type: ast.Def, Data: ast.DefNode{
			Name: "total",
			Value: &ast.Node{Type: ast.List, Data: ast.ListNode{
				Head: keyword(token.Plus),
				Rest: []*ast.Node{integer(1), integer(2)},
			}},
		}},
	}
	if diff := cmp.Diff(want, got, ignoreTokens); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTokenWithoutNodeFormBecomesNull(t *testing.T) {
	got := mustParse(t, "(+ nil 1)")
	list := got[0].Data.(ast.ListNode)
	if list.Rest[0].Type != ast.Null {
		t.Errorf("got node type %v; want Null", list.Rest[0].Type)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		source string
		want   interface{}
	}{
		{"(", &UnexpectedEOFError{}},
		{"(+ 1", &UnexpectedEOFError{}},
		{"{:a", &UnexpectedEOFError{}},
		{"[1", &UnexpectedEOFError{}},
		{"(defn", &UnexpectedEOFError{}},
		{"()", &UnexpectedTokenError{}},
		{")", &UnexpectedTokenError{}},
		{"1", &UnexpectedTokenError{}},
		{"(defn add 1)", &UnexpectedTokenError{}},
		{"(def 1 2)", &UnexpectedTokenError{}},
		{"(defn 1 (+ 1 2))", &InvalidFunctionNameError{}},
		{`(defn "x" (+ 1 2))`, &InvalidFunctionNameError{}},
	}
	for _, tc := range tests {
		_, err := parseSource(t, tc.source)
		if err == nil {
			t.Errorf("Parse(%q) succeeded; want error", tc.source)
			continue
		}
		var matched bool
		switch tc.want.(type) {
		case *UnexpectedEOFError:
			var e *UnexpectedEOFError
			matched = errors.As(err, &e)
		case *UnexpectedTokenError:
			var e *UnexpectedTokenError
			matched = errors.As(err, &e)
		case *InvalidFunctionNameError:
			var e *InvalidFunctionNameError
			matched = errors.As(err, &e)
		}
		if !matched {
			t.Errorf("Parse(%q) = %v; want %T", tc.source, err, tc.want)
		}
	}
}

func TestParseEmptyListReportsClosingParen(t *testing.T) {
	_, err := parseSource(t, "()")
	var tokErr *UnexpectedTokenError
	if !errors.As(err, &tokErr) {
		t.Fatalf("got %v; want UnexpectedTokenError", err)
	}
	if tokErr.Tok.Type != token.RParen {
		t.Errorf("offending token = %v; want RParen", tokErr.Tok.Type)
	}
}
