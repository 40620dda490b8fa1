// Package ast defines the node types for parsed Clove programs.
package ast

import (
	"github.com/clove-lang/clove/pkg/token"
)

// NodeType defines the kind of a node in the AST
type NodeType int

const (
	Null NodeType = iota
	Constant
	Keyword
	Variable
	Map
	Vector
	List
	Def
	Function
	Main
)

// Node represents a node in the Abstract Syntax Tree. Nodes are built once
// by the parser and never mutated afterwards.
type Node struct {
	Type NodeType
	Tok  token.Token
	Data interface{}
}

// --- Node Data Structs ---

type IntegerNode struct{ Value int64 }
type StringNode struct{ Value string }

// KeywordNode carries the reserved operator or builtin token into the tree.
type KeywordNode struct{ Token token.Type }
type VariableNode struct{ Name string }

// MapEntry pairs one key with its value node. Duplicate keys are legal and
// later entries do not overwrite earlier ones.
type MapEntry struct {
	Key   string
	Value *Node
}
type MapNode struct{ Entries []MapEntry }
type VectorNode struct{ Items []*Node }

// ListNode is a call-shaped form: the head names the operation, the rest
// are its operands.
type ListNode struct {
	Head *Node
	Rest []*Node
}
type DefNode struct {
	Name  string
	Value *Node
}
type FunctionNode struct {
	Name   string
	Params []*Node
	Body   []*Node
}

// MainNode is the distinguished entry function. It has no name of its own;
// the emitter exports it under the fixed entry-point symbol.
type MainNode struct {
	Params []*Node
	Body   []*Node
}

// --- Node Constructors ---

func NewNull(tok token.Token) *Node {
	return &Node{Type: Null, Tok: tok}
}
func NewInteger(tok token.Token, value int64) *Node {
	return &Node{Type: Constant, Tok: tok, Data: IntegerNode{Value: value}}
}
func NewString(tok token.Token, value string) *Node {
	return &Node{Type: Constant, Tok: tok, Data: StringNode{Value: value}}
}
func NewKeyword(tok token.Token) *Node {
	return &Node{Type: Keyword, Tok: tok, Data: KeywordNode{Token: tok.Type}}
}
func NewVariable(tok token.Token, name string) *Node {
	return &Node{Type: Variable, Tok: tok, Data: VariableNode{Name: name}}
}
func NewMap(tok token.Token, entries []MapEntry) *Node {
	return &Node{Type: Map, Tok: tok, Data: MapNode{Entries: entries}}
}
func NewVector(tok token.Token, items []*Node) *Node {
	return &Node{Type: Vector, Tok: tok, Data: VectorNode{Items: items}}
}
func NewList(tok token.Token, head *Node, rest []*Node) *Node {
	return &Node{Type: List, Tok: tok, Data: ListNode{Head: head, Rest: rest}}
}
func NewDef(tok token.Token, name string, value *Node) *Node {
	return &Node{Type: Def, Tok: tok, Data: DefNode{Name: name, Value: value}}
}
func NewFunction(tok token.Token, name string, params []*Node, body []*Node) *Node {
	return &Node{Type: Function, Tok: tok, Data: FunctionNode{Name: name, Params: params, Body: body}}
}
func NewMain(tok token.Token, params []*Node, body []*Node) *Node {
	return &Node{Type: Main, Tok: tok, Data: MainNode{Params: params, Body: body}}
}
