// Package codegen walks the AST and produces the final module text.
package codegen

import (
	"strings"

	"github.com/clove-lang/clove/pkg/ast"
	"github.com/clove-lang/clove/pkg/config"
	"github.com/clove-lang/clove/pkg/token"
	"github.com/clove-lang/clove/pkg/util"
	"github.com/clove-lang/clove/pkg/wat"
)

// Fixed linear-memory layout used by the print builtin: an I/O-vector
// record at address 0 (pointer field) and 4 (length field), string data at
// base 8, bytes-written output at 20. Only one outstanding print argument
// is correctly addressed at a time.
const (
	iovecPtrAddr = 0
	iovecLenAddr = 4
	dataBase     = 8
	nwrittenAddr = 20
	stdoutFD     = 1
	iovecCount   = 1
)

// Emitter accumulates module-level state discovered while walking function
// bodies: host imports and data segments, both of which must appear in the
// module header before the body text. One Emitter serves one compilation.
type Emitter struct {
	cfg     *config.Config
	imports []wat.Import
	data    []wat.DataSegment
}

func New(cfg *config.Config) *Emitter {
	return &Emitter{cfg: cfg}
}

// Emit walks the top-level nodes and assembles the complete module text.
func (e *Emitter) Emit(nodes []*ast.Node) string {
	body := e.buildBody(nodes)
	return e.assemble(body)
}

func (e *Emitter) buildBody(nodes []*ast.Node) []string {
	var body []string
	for _, node := range nodes {
		body = append(body, e.emitInstructions(node)...)
	}
	return body
}

// assemble flushes the accumulated header state around the walked body:
// module marker, imports, memory, data segments, body, exports, closing
// marker, newline-joined.
func (e *Emitter) assemble(body []string) string {
	var imports strings.Builder
	for _, imp := range e.imports {
		imports.WriteString(imp.String())
	}
	var data strings.Builder
	for _, seg := range e.data {
		data.WriteString(seg.String())
	}

	parts := make([]string, 0, len(body)+6)
	parts = append(parts, "(module ")
	parts = append(parts, imports.String())
	parts = append(parts, e.memoryInitializer())
	parts = append(parts, data.String())
	parts = append(parts, body...)
	parts = append(parts, e.exportList()...)
	parts = append(parts, ")")
	return strings.Join(parts, "\n ")
}

func (e *Emitter) memoryInitializer() string {
	return "(memory 1) (export \"memory\" (memory 0))"
}

func (e *Emitter) exportList() []string {
	return []string{"(export \"_start\" (func $main))"}
}

func (e *Emitter) emitInstructions(tree *ast.Node) []string {
	if tree == nil {
		return nil
	}
	switch tree.Type {
	case ast.List:
		return e.emitFunctionCall(tree)
	case ast.Main:
		return e.emitMainFunction(tree.Data.(ast.MainNode))
	case ast.Constant:
		return e.emitConstant(tree)
	default:
		// Null, Def, Function, Keyword, Variable, Map and Vector have no
		// instruction form of their own.
		return nil
	}
}

func (e *Emitter) emitMainFunction(details ast.MainNode) []string {
	function := []string{"(func $main "}
	for i := range details.Params {
		function = append(function, wat.Param(i).String())
	}
	for _, expr := range details.Body {
		function = append(function, e.emitInstructions(expr)...)
	}
	function = append(function, ")")
	return function
}

// emitFunctionCall dispatches on the head keyword of a call-shaped list.
// Unrecognized heads emit nothing.
func (e *Emitter) emitFunctionCall(node *ast.Node) []string {
	list := node.Data.(ast.ListNode)
	head := list.Head
	if head == nil || head.Type != ast.Keyword {
		e.warnUnknownForm(node.Tok, head)
		return nil
	}
	switch head.Data.(ast.KeywordNode).Token {
	case token.Plus:
		return e.emitFold(wat.OpAdd, list.Rest)
	case token.Minus:
		return e.emitFold(wat.OpSubtract, list.Rest)
	case token.Print:
		return e.emitPrint(list.Rest)
	default:
		e.warnUnknownForm(head.Tok, head)
		return nil
	}
}

func (e *Emitter) warnUnknownForm(tok token.Token, head *ast.Node) {
	name := "this form"
	if head != nil {
		name = "head " + head.Tok.Type.String()
	}
	util.Warn(e.cfg, config.WarnUnknownForm, tok, "%s emits no instructions", name)
}

// emitFold opens one operation scope, emits each operand's instructions,
// and closes the scope. Nested lists recurse and nest naturally.
func (e *Emitter) emitFold(op wat.Op, args []*ast.Node) []string {
	body := []string{op.String()}
	for _, argument := range args {
		body = append(body, e.emitInstructions(argument)...)
	}
	body = append(body, ")")
	return body
}

// emitPrint builds the I/O-vector record at its fixed offsets, calls the
// write syscall, then emits the argument's own instructions (empty for a
// string constant whose bytes already live in the data segment) and drops
// any stray result.
func (e *Emitter) emitPrint(args []*ast.Node) []string {
	e.addImport(wat.ImportFDWrite)
	var body []string
	for _, argument := range args {
		body = append(body, wat.Store{Addr: iovecPtrAddr, Value: dataBase}.String())
		body = append(body, wat.Store{Addr: iovecLenAddr, Value: 12}.String())
		body = append(body, wat.CallFDWrite{
			FD:       stdoutFD,
			IOVec:    iovecPtrAddr,
			IOVecLen: iovecCount,
			NWritten: nwrittenAddr,
		}.String())
		body = append(body, e.emitInstructions(argument)...)
		body = append(body, wat.OpDrop.String())
	}
	return body
}

func (e *Emitter) emitConstant(node *ast.Node) []string {
	switch d := node.Data.(type) {
	case ast.IntegerNode:
		return []string{wat.Const(int32(d.Value)).String()}
	case ast.StringNode:
		e.emitStringBytes(node, d.Value)
		return nil
	default:
		return nil
	}
}

// emitStringBytes registers a data segment for a string literal. The bytes
// live in linear memory at the fixed base, not on the operand stack, so no
// instructions are emitted inline.
func (e *Emitter) emitStringBytes(node *ast.Node, value string) {
	data := value
	if e.cfg.IsFeatureEnabled(config.FeatNewline) {
		data += "\n"
	}
	if len(e.data) > 0 {
		util.Warn(e.cfg, config.WarnDataOverlap, node.Tok,
			"string data segment overlaps earlier segment at base offset %d", dataBase)
	}
	e.data = append(e.data, wat.DataSegment{Location: wat.Const(dataBase), Data: data})
}

func (e *Emitter) addImport(imp wat.Import) {
	for _, existing := range e.imports {
		if existing == imp {
			return
		}
	}
	e.imports = append(e.imports, imp)
}
