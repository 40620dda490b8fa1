package ast

import (
	"testing"

	"github.com/clove-lang/clove/pkg/token"
)

func TestDump(t *testing.T) {
	nodes := []*Node{
		NewMain(token.Token{}, nil, []*Node{
			NewList(token.Token{},
				NewKeyword(token.Token{Type: token.Print}),
				[]*Node{NewString(token.Token{}, "hi")},
			),
		}),
	}
	want := `Main
  params
  body
    List
      Keyword 'print'
      Constant "hi"
`
	if got := Dump(nodes); got != want {
		t.Errorf("Dump mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDumpDefAndNull(t *testing.T) {
	nodes := []*Node{
		NewDef(token.Token{}, "answer", NewInteger(token.Token{}, 42)),
		NewNull(token.Token{}),
	}
	want := `Def answer
  Constant 42
Null
`
	if got := Dump(nodes); got != want {
		t.Errorf("Dump mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
