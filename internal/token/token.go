// Package token defines the closed set of lexical token kinds for the
// contract-oriented source language and the Token type the
// scanner produces.
package token

import "github.com/cwbudde/ctrc/internal/source"

// Kind is a lexical token category. The set is closed: the scanner never
// produces a kind outside this list.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	COMMENT

	IDENT
	UNDERSCORE // bare `_`, the wildcard token

	INT
	FLOAT
	STRING
	CHAR
	TRUE
	FALSE
	NIL

	// Reserved words.
	FN
	LET
	MUT
	TYPE
	STRUCT
	ENUM
	TRAIT
	IMPL
	CONTRACT
	INTENT
	EFFECT
	CAPABILITY
	REQUIRES
	ENSURES
	INVARIANT
	IF
	ELSE
	MATCH
	FOR
	WHILE
	RETURN
	IMPORT
	EXPORT
	WHERE
	PURE
	EXTERN
	SELF
	SELF_TYPE
	OLD
	FORALL
	EXISTS
	IN
	AS

	// Punctuators.
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMI
	COLON
	DOT
	DOTDOT    // ..
	DOTDOTEQ  // ..=
	ARROW     // ->
	FATARROW  // =>
	AT        // @
	QUESTION  // ?
	COLONCOLON

	// Arithmetic / comparison / logical / bitwise / shift operators.
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	STARSTAR // **

	EQ
	NE
	LT
	GT
	LE
	GE

	ANDAND
	OROR
	NOT

	AMP
	PIPE
	CARET
	TILDE
	SHL
	SHR

	ASSIGN
	PLUSEQ
	MINUSEQ
	STAREQ
	SLASHEQ
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENT: "IDENT", UNDERSCORE: "_",
	INT: "INT", FLOAT: "FLOAT", STRING: "STRING", CHAR: "CHAR", TRUE: "true", FALSE: "false", NIL: "nil",
	FN: "fn", LET: "let", MUT: "mut", TYPE: "type", STRUCT: "struct", ENUM: "enum", TRAIT: "trait",
	IMPL: "impl", CONTRACT: "contract", INTENT: "intent", EFFECT: "effect", CAPABILITY: "capability",
	REQUIRES: "requires", ENSURES: "ensures", INVARIANT: "invariant", IF: "if", ELSE: "else",
	MATCH: "match", FOR: "for", WHILE: "while", RETURN: "return", IMPORT: "import", EXPORT: "export",
	WHERE: "where", PURE: "pure", EXTERN: "extern", SELF: "self", SELF_TYPE: "Self", OLD: "old",
	FORALL: "forall", EXISTS: "exists", IN: "in", AS: "as",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
	COMMA: ",", SEMI: ";", COLON: ":", DOT: ".", DOTDOT: "..", DOTDOTEQ: "..=",
	ARROW: "->", FATARROW: "=>", AT: "@", QUESTION: "?", COLONCOLON: "::",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", STARSTAR: "**",
	EQ: "==", NE: "!=", LT: "<", GT: ">", LE: "<=", GE: ">=",
	ANDAND: "&&", OROR: "||", NOT: "!",
	AMP: "&", PIPE: "|", CARET: "^", TILDE: "~", SHL: "<<", SHR: ">>",
	ASSIGN: "=", PLUSEQ: "+=", MINUSEQ: "-=", STAREQ: "*=", SLASHEQ: "/=",
}

// String renders the canonical surface spelling (or a debug name for
// synthetic kinds such as ILLEGAL/EOF).
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Keywords maps reserved-word spellings to their keyword kind.
var Keywords = map[string]Kind{
	"fn": FN, "let": LET, "mut": MUT, "type": TYPE, "struct": STRUCT, "enum": ENUM,
	"trait": TRAIT, "impl": IMPL, "contract": CONTRACT, "intent": INTENT, "effect": EFFECT,
	"capability": CAPABILITY, "requires": REQUIRES, "ensures": ENSURES, "invariant": INVARIANT,
	"if": IF, "else": ELSE, "match": MATCH, "for": FOR, "while": WHILE, "return": RETURN,
	"import": IMPORT, "export": EXPORT, "where": WHERE, "pure": PURE, "extern": EXTERN,
	"true": TRUE, "false": FALSE, "nil": NIL, "self": SELF, "Self": SELF_TYPE,
	"old": OLD, "forall": FORALL, "exists": EXISTS, "in": IN, "as": AS,
}

// Token is a single lexical unit: kind, source text, position, and an
// optional pre-parsed literal value (set for INT, FLOAT, STRING, CHAR,
// TRUE, FALSE, NIL).
type Token struct {
	Kind    Kind
	Text    string
	Pos     source.Position
	Literal any
}
