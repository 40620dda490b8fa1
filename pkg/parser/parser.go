// Package parser builds the AST from a token stream by recursive descent
// over the bracket/brace/paren grammar.
package parser

import (
	"fmt"
	"strconv"

	"github.com/clove-lang/clove/pkg/ast"
	"github.com/clove-lang/clove/pkg/config"
	"github.com/clove-lang/clove/pkg/token"
	"github.com/clove-lang/clove/pkg/util"
)

// UnexpectedEOFError is returned when the token stream is exhausted where a
// token was required.
type UnexpectedEOFError struct {
	Pos token.Position
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("unexpected end of file at %d:%d", e.Pos.Line, e.Pos.Column)
}

// UnexpectedTokenError is returned when a token is present but not valid in
// the current grammar position.
type UnexpectedTokenError struct {
	Tok token.Token
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected %s at %d:%d", e.Tok.Type, e.Tok.Pos.Line, e.Tok.Pos.Column)
}

// InvalidFunctionNameError is returned for a function definition whose name
// slot is neither an identifier nor the 'main' keyword.
type InvalidFunctionNameError struct {
	Tok token.Token
}

func (e *InvalidFunctionNameError) Error() string {
	return fmt.Sprintf("invalid function name %s at %d:%d", e.Tok.Type, e.Tok.Pos.Line, e.Tok.Pos.Column)
}

// Parser holds the state for the parsing process. The token stream is
// consumed linearly, front to back.
type Parser struct {
	tokens  []token.Token
	pos     int
	current token.Token
	cfg     *config.Config
}

// New creates a Parser from a token stream. The stream must be terminated
// by an EOF token, as produced by lexer.Scan.
func New(tokens []token.Token, cfg *config.Config) *Parser {
	p := &Parser{tokens: tokens, cfg: cfg}
	if len(tokens) > 0 {
		p.current = tokens[0]
	} else {
		p.current = token.Token{Type: token.EOF}
	}
	return p
}

func (p *Parser) advance() {
	if p.pos+1 < len(p.tokens) {
		p.pos++
		p.current = p.tokens[p.pos]
	} else {
		p.current = token.Token{Type: token.EOF, Pos: p.current.Pos}
	}
}

func (p *Parser) check(tokType token.Type) bool {
	return p.current.Type == tokType
}

func (p *Parser) eofError() error {
	return &UnexpectedEOFError{Pos: p.current.Pos}
}

// Parse produces the ordered sequence of top-level nodes, failing fast on
// the first grammar violation.
func (p *Parser) Parse() ([]*ast.Node, error) {
	var nodes []*ast.Node
	for !p.check(token.EOF) {
		node, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (p *Parser) parseForm() (*ast.Node, error) {
	open := p.current
	switch open.Type {
	case token.LParen:
		p.advance()
		return p.parseList(open)
	case token.LBrace:
		p.advance()
		return p.parseMap(open)
	case token.LBracket:
		p.advance()
		return p.parseVector(open)
	default:
		return nil, &UnexpectedTokenError{Tok: open}
	}
}

// parseList is entered with the opening '(' already consumed. The reserved
// words 'defn' and 'def' divert into definition parsing; any other head
// parses as a plain call-shaped list.
func (p *Parser) parseList(open token.Token) (*ast.Node, error) {
	if p.check(token.Defn) {
		return p.parseDefn(open)
	}
	if p.check(token.Def) {
		return p.parseDef(open)
	}

	var items []*ast.Node
	for {
		switch {
		case p.check(token.EOF):
			return nil, p.eofError()
		case p.check(token.RParen):
			closing := p.current
			p.advance()
			if len(items) == 0 {
				return nil, &UnexpectedTokenError{Tok: closing}
			}
			return ast.NewList(open, items[0], items[1:]), nil
		case p.check(token.LParen):
			inner := p.current
			p.advance()
			node, err := p.parseList(inner)
			if err != nil {
				return nil, err
			}
			items = append(items, node)
		default:
			items = append(items, p.item(p.current))
			p.advance()
		}
	}
}

// parseDefn handles '(defn name [params] body...)'. A 'main' keyword in the
// name slot substitutes the entry-point sentinel immediately, discarding
// any name. The parameter vector is optional.
func (p *Parser) parseDefn(open token.Token) (*ast.Node, error) {
	p.advance() // defn

	var name string
	isMain := false
	switch {
	case p.check(token.EOF):
		return nil, p.eofError()
	case p.check(token.Main):
		isMain = true
		p.advance()
	case p.check(token.Ident):
		name = p.current.Value
		p.advance()
	default:
		return nil, &InvalidFunctionNameError{Tok: p.current}
	}

	var params []*ast.Node
	if p.check(token.LBracket) {
		openVec := p.current
		p.advance()
		vec, err := p.parseVector(openVec)
		if err != nil {
			return nil, err
		}
		params = vec.Data.(ast.VectorNode).Items
	}

	var body []*ast.Node
	for !p.check(token.RParen) {
		if p.check(token.EOF) {
			return nil, p.eofError()
		}
		if !p.check(token.LParen) {
			return nil, &UnexpectedTokenError{Tok: p.current}
		}
		inner := p.current
		p.advance()
		form, err := p.parseList(inner)
		if err != nil {
			return nil, err
		}
		body = append(body, form)
	}
	p.advance() // ')'

	if isMain {
		return ast.NewMain(open, params, body), nil
	}
	return ast.NewFunction(open, name, params, body), nil
}

// parseDef handles '(def name value)'.
func (p *Parser) parseDef(open token.Token) (*ast.Node, error) {
	p.advance() // def

	if p.check(token.EOF) {
		return nil, p.eofError()
	}
	if !p.check(token.Ident) {
		return nil, &UnexpectedTokenError{Tok: p.current}
	}
	name := p.current.Value
	p.advance()

	var value *ast.Node
	switch {
	case p.check(token.EOF):
		return nil, p.eofError()
	case p.check(token.LParen), p.check(token.LBrace), p.check(token.LBracket):
		form, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		value = form
	default:
		value = p.item(p.current)
		p.advance()
	}

	if p.check(token.EOF) {
		return nil, p.eofError()
	}
	if !p.check(token.RParen) {
		return nil, &UnexpectedTokenError{Tok: p.current}
	}
	p.advance()

	return ast.NewDef(open, name, value), nil
}

// parseVector is entered with the opening '[' already consumed. Every token
// up to the closing ']' goes through item conversion.
func (p *Parser) parseVector(open token.Token) (*ast.Node, error) {
	var items []*ast.Node
	for {
		switch {
		case p.check(token.EOF):
			return nil, p.eofError()
		case p.check(token.RBracket):
			p.advance()
			return ast.NewVector(open, items), nil
		default:
			items = append(items, p.item(p.current))
			p.advance()
		}
	}
}

// parseMap is entered with the opening '{' already consumed. A map-key
// token consumes exactly one following token as its value; any other token
// becomes an entry under the empty key. Duplicate keys are legal.
func (p *Parser) parseMap(open token.Token) (*ast.Node, error) {
	var entries []ast.MapEntry
	seen := make(map[string]bool)
	for {
		switch {
		case p.check(token.EOF):
			return nil, p.eofError()
		case p.check(token.RBrace):
			p.advance()
			return ast.NewMap(open, entries), nil
		case p.check(token.MapKey):
			keyTok := p.current
			p.advance()
			if p.check(token.EOF) {
				return nil, p.eofError()
			}
			if seen[keyTok.Value] {
				util.Warn(p.cfg, config.WarnDuplicateMapKey, keyTok, "duplicate map key ':%s'", keyTok.Value)
			}
			seen[keyTok.Value] = true
			entries = append(entries, ast.MapEntry{Key: keyTok.Value, Value: p.item(p.current)})
			p.advance()
		default:
			entries = append(entries, ast.MapEntry{Key: "", Value: p.item(p.current)})
			p.advance()
		}
	}
}

// item converts one token to a node. Tokens with no node form become Null.
func (p *Parser) item(tok token.Token) *ast.Node {
	switch tok.Type {
	case token.Number:
		val, _ := strconv.ParseInt(tok.Value, 10, 64)
		return ast.NewInteger(tok, val)
	case token.String:
		return ast.NewString(tok, tok.Value)
	case token.Plus, token.Minus, token.And, token.Or, token.Print:
		return ast.NewKeyword(tok)
	case token.Ident:
		return ast.NewVariable(tok, tok.Value)
	default:
		util.Warn(p.cfg, config.WarnDroppedToken, tok, "token %s has no node form and was dropped", tok.Type)
		return ast.NewNull(tok)
	}
}
