package lexer

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"eva/internal/ast"
	"eva/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 means EOF
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	start := l.position
	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Literal: "", Position: start}
	case '(':
		l.readChar()
		return token.Token{Type: token.LPAREN, Literal: "(", Position: start}
	case ')':
		l.readChar()
		return token.Token{Type: token.RPAREN, Literal: ")", Position: start}
	case '"':
		return l.readString()
	}

	atom := l.readAtom()
	if atom == "" {
		// a rune that cannot start any token
		ch := l.ch
		l.readChar()
		return token.Token{Type: token.ILLEGAL, Literal: string(ch), Position: start}
	}
	return token.Token{Type: classifyAtom(atom), Literal: atom, Position: start}
}

// Tokenize lexes the whole input, stopping after the first EOF or ILLEGAL token.
func Tokenize(input string) []token.Token {
	l := New(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF || tok.Type == token.ILLEGAL {
			return tokens
		}
	}
}

func classifyAtom(atom string) token.TokenType {
	if looksNumeric(atom) {
		if _, err := strconv.ParseFloat(atom, 64); err == nil {
			return token.NUMBER
		}
	}
	if ast.ValidSymbol(atom) {
		return token.SYMBOL
	}
	return token.ILLEGAL
}

// looksNumeric: a digit, or a sign directly followed by a digit.
func looksNumeric(atom string) bool {
	first, size := utf8.DecodeRuneInString(atom)
	if isDigit(first) {
		return true
	}
	if (first == '-' || first == '+') && len(atom) > size {
		second, _ := utf8.DecodeRuneInString(atom[size:])
		return isDigit(second)
	}
	return false
}

func (l *Lexer) readString() token.Token {
	start := l.position
	l.readChar() // opening quote
	for l.ch != '"' {
		if l.ch == 0 {
			return token.Token{Type: token.ILLEGAL, Literal: l.input[start:l.position], Position: start}
		}
		l.readChar()
	}
	value := l.input[start+1 : l.position]
	l.readChar() // closing quote
	return token.Token{Type: token.STRING, Literal: value, Position: start}
}

// readAtom consumes runes up to the next delimiter.
func (l *Lexer) readAtom() string {
	start := l.position
	for l.ch != 0 && !isDelimiter(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case l.ch == ';':
			l.skipToLineEnd()
		case l.ch == '/' && l.peekChar() == '/':
			l.skipToLineEnd()
		case l.ch != 0 && unicode.IsSpace(l.ch):
			l.readChar()
		default:
			return
		}
	}
}

func (l *Lexer) skipToLineEnd() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func isDelimiter(ch rune) bool {
	return ch == '(' || ch == ')' || ch == '"' || ch == ';' || unicode.IsSpace(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
