package token

type Type int

const (
	EOF Type = iota
	Comment
	Whitespace
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Dot
	Colon
	Plus
	Minus
	Star
	Slash
	Bang
	BangEq
	Eq
	EqEq
	Greater
	GreaterEq
	Less
	LessEq
	Number
	Float
	String
	Ident
	MapKey
	And
	Or
	Def
	Defn
	Main
	Print
	Nil
	True
	False
	Cond
	For
)

var KeywordMap = map[string]Type{
	"and":   And,
	"or":    Or,
	"def":   Def,
	"defn":  Defn,
	"main":  Main,
	"print": Print,
	"nil":   Nil,
	"true":  True,
	"false": False,
	"cond":  Cond,
	"for":   For,
}

var typeNames = map[Type]string{
	EOF:        "eof",
	Comment:    "comment",
	Whitespace: "whitespace",
	LParen:     "'('",
	RParen:     "')'",
	LBrace:     "'{'",
	RBrace:     "'}'",
	LBracket:   "'['",
	RBracket:   "']'",
	Comma:      "','",
	Dot:        "'.'",
	Colon:      "':'",
	Plus:       "'+'",
	Minus:      "'-'",
	Star:       "'*'",
	Slash:      "'/'",
	Bang:       "'!'",
	BangEq:     "'!='",
	Eq:         "'='",
	EqEq:       "'=='",
	Greater:    "'>'",
	GreaterEq:  "'>='",
	Less:       "'<'",
	LessEq:     "'<='",
	Number:     "number",
	Float:      "float",
	String:     "string",
	Ident:      "identifier",
	MapKey:     "map key",
}

// String returns a printable name for the token type, suitable for
// diagnostics and the token dump.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	for word, typ := range KeywordMap {
		if typ == t {
			return "'" + word + "'"
		}
	}
	return "unknown"
}

// Position is a 1-indexed line/column location in the source text.
type Position struct {
	Line   int
	Column int
}

type Token struct {
	Type  Type
	Value string
	Pos   Position
	Len   int
}
