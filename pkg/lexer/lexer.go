// Package lexer turns Clove source text into a stream of tokens.
package lexer

import (
	"fmt"
	"unicode"

	"github.com/clove-lang/clove/pkg/config"
	"github.com/clove-lang/clove/pkg/token"
)

// UnknownCharacterError is returned when the scanner hits a character that
// cannot start any token. Text carries the partial token text consumed so
// far.
type UnknownCharacterError struct {
	Pos  token.Position
	Text string
}

func (e *UnknownCharacterError) Error() string {
	return fmt.Sprintf("unknown character %q at %d:%d", e.Text, e.Pos.Line, e.Pos.Column)
}

type Lexer struct {
	source []rune
	pos    int
	line   int
	column int
	cfg    *config.Config
}

func New(source []rune, cfg *config.Config) *Lexer {
	return &Lexer{source: source, line: 1, column: 1, cfg: cfg}
}

// Scan tokenizes the whole source, filters out whitespace and comment
// tokens, and terminates the stream with an EOF token.
func Scan(source string, cfg *config.Config) ([]token.Token, error) {
	l := New([]rune(source), cfg)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case token.Whitespace, token.Comment:
			continue
		case token.EOF:
			return append(tokens, tok), nil
		default:
			tokens = append(tokens, tok)
		}
	}
}

// Next scans one token, including whitespace and comment tokens. The caller
// is expected to filter those before parsing.
func (l *Lexer) Next() (token.Token, error) {
	startPos, startCol, startLine := l.pos, l.column, l.line

	if l.isAtEnd() {
		return l.makeToken(token.EOF, "", startPos, startCol, startLine), nil
	}

	ch := l.advance()
	switch ch {
	case '(':
		return l.makeToken(token.LParen, "", startPos, startCol, startLine), nil
	case ')':
		return l.makeToken(token.RParen, "", startPos, startCol, startLine), nil
	case '{':
		return l.makeToken(token.LBrace, "", startPos, startCol, startLine), nil
	case '}':
		return l.makeToken(token.RBrace, "", startPos, startCol, startLine), nil
	case '[':
		return l.makeToken(token.LBracket, "", startPos, startCol, startLine), nil
	case ']':
		return l.makeToken(token.RBracket, "", startPos, startCol, startLine), nil
	case ',':
		return l.makeToken(token.Comma, "", startPos, startCol, startLine), nil
	case '.':
		return l.makeToken(token.Dot, "", startPos, startCol, startLine), nil
	case '+':
		return l.makeToken(token.Plus, "", startPos, startCol, startLine), nil
	case '-':
		return l.makeToken(token.Minus, "", startPos, startCol, startLine), nil
	case '*':
		return l.makeToken(token.Star, "", startPos, startCol, startLine), nil
	case ':':
		if isAlpha(l.peek()) {
			return l.mapKey(startPos, startCol, startLine), nil
		}
		return l.makeToken(token.Colon, "", startPos, startCol, startLine), nil
	case '!':
		return l.matchThen('=', token.BangEq, token.Bang, startPos, startCol, startLine), nil
	case '=':
		return l.matchThen('=', token.EqEq, token.Eq, startPos, startCol, startLine), nil
	case '>':
		return l.matchThen('=', token.GreaterEq, token.Greater, startPos, startCol, startLine), nil
	case '<':
		return l.matchThen('=', token.LessEq, token.Less, startPos, startCol, startLine), nil
	case '/':
		if l.match('/') {
			return l.lineComment(startPos, startCol, startLine), nil
		}
		return l.makeToken(token.Slash, "", startPos, startCol, startLine), nil
	case '"':
		return l.stringLiteral(startPos, startCol, startLine)
	case ' ', '\t', '\r', '\n':
		return l.makeToken(token.Whitespace, "", startPos, startCol, startLine), nil
	}

	if unicode.IsDigit(ch) {
		return l.numberLiteral(startPos, startCol, startLine), nil
	}
	if isAlpha(ch) {
		return l.identifierOrKeyword(startPos, startCol, startLine), nil
	}

	return token.Token{}, &UnknownCharacterError{
		Pos:  token.Position{Line: startLine, Column: startCol},
		Text: string(l.source[startPos:l.pos]),
	}
}

func isAlpha(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
	return ch
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.source[l.pos] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.source) }

func (l *Lexer) makeToken(tokType token.Type, value string, startPos, startCol, startLine int) token.Token {
	return token.Token{
		Type:  tokType,
		Value: value,
		Pos:   token.Position{Line: startLine, Column: startCol},
		Len:   l.pos - startPos,
	}
}

func (l *Lexer) matchThen(expected rune, thenType, elseType token.Type, sPos, sCol, sLine int) token.Token {
	if l.match(expected) {
		return l.makeToken(thenType, "", sPos, sCol, sLine)
	}
	return l.makeToken(elseType, "", sPos, sCol, sLine)
}

func (l *Lexer) lineComment(startPos, startCol, startLine int) token.Token {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
	return l.makeToken(token.Comment, "", startPos, startCol, startLine)
}

func (l *Lexer) stringLiteral(startPos, startCol, startLine int) (token.Token, error) {
	contentStart := l.pos
	for !l.isAtEnd() {
		if l.peek() == '"' {
			value := string(l.source[contentStart:l.pos])
			l.advance()
			return l.makeToken(token.String, value, startPos, startCol, startLine), nil
		}
		l.advance()
	}
	return token.Token{}, &UnknownCharacterError{
		Pos:  token.Position{Line: startLine, Column: startCol},
		Text: string(l.source[startPos:l.pos]),
	}
}

// numberLiteral scans a maximal digit run. A following '.' is consumed only
// when fractional literals are enabled and the character after the dot is
// itself a digit; otherwise the dot is left for the next token.
func (l *Lexer) numberLiteral(startPos, startCol, startLine int) token.Token {
	for unicode.IsDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && unicode.IsDigit(l.peekNext()) && l.cfg.IsFeatureEnabled(config.FeatFloat) {
		l.advance()
		for unicode.IsDigit(l.peek()) {
			l.advance()
		}
		return l.makeToken(token.Float, string(l.source[startPos:l.pos]), startPos, startCol, startLine)
	}

	return l.makeToken(token.Number, string(l.source[startPos:l.pos]), startPos, startCol, startLine)
}

func (l *Lexer) identifierOrKeyword(startPos, startCol, startLine int) token.Token {
	l.scanWord()
	value := string(l.source[startPos:l.pos])
	if tokType, isKeyword := token.KeywordMap[value]; isKeyword {
		return l.makeToken(tokType, "", startPos, startCol, startLine)
	}
	return l.makeToken(token.Ident, value, startPos, startCol, startLine)
}

func (l *Lexer) mapKey(startPos, startCol, startLine int) token.Token {
	wordStart := l.pos
	l.scanWord()
	return l.makeToken(token.MapKey, string(l.source[wordStart:l.pos]), startPos, startCol, startLine)
}

func (l *Lexer) scanWord() {
	for isAlpha(l.peek()) || unicode.IsDigit(l.peek()) {
		l.advance()
	}
}
