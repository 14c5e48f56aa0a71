package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Literals
	SYMBOL = "SYMBOL" // foo, +, <=, ++
	NUMBER = "NUMBER" // 42, 3.5
	STRING = "STRING" // "foobar"

	// Delimiters
	LPAREN = "("
	RPAREN = ")"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src index of the token
}
