package parser

import (
	"fmt"
	"strconv"

	"eva/internal/ast"
	"eva/internal/lexer"
	"eva/internal/token"
)

// Error reports a syntax error at a byte offset of the source.
type Error struct {
	Position int
	Msg      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Position, e.Msg)
}

type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

// Parse reads exactly one expression from text.
func Parse(text string) (ast.Node, error) {
	p := New(lexer.New(text))
	if p.curTokenIs(token.EOF) {
		return nil, &Error{Position: p.curToken.Position, Msg: "empty input"}
	}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(token.EOF) {
		return nil, p.unexpected("end of input")
	}
	return node, nil
}

// ParseProgram reads every top-level expression of text and wraps them in an implicit
// (begin ...) block.
func ParseProgram(text string) (*ast.List, error) {
	p := New(lexer.New(text))
	program := ast.Form(ast.BEGIN)
	for !p.curTokenIs(token.EOF) {
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		program.Elements = append(program.Elements, node)
	}
	return program, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) parseExpression() (ast.Node, error) {
	switch p.curToken.Type {
	case token.LPAREN:
		return p.parseList()
	case token.NUMBER:
		value, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			return nil, &Error{Position: p.curToken.Position, Msg: fmt.Sprintf("could not parse %q as number", p.curToken.Literal)}
		}
		p.nextToken()
		return ast.Num(value), nil
	case token.STRING:
		node := ast.Str(p.curToken.Literal)
		p.nextToken()
		return node, nil
	case token.SYMBOL:
		node := ast.Sym(p.curToken.Literal)
		p.nextToken()
		return node, nil
	case token.ILLEGAL:
		return nil, &Error{Position: p.curToken.Position, Msg: fmt.Sprintf("illegal token %q", p.curToken.Literal)}
	default:
		return nil, p.unexpected("expression")
	}
}

func (p *Parser) parseList() (ast.Node, error) {
	open := p.curToken
	p.nextToken() // consume '('

	list := &ast.List{}
	for !p.curTokenIs(token.RPAREN) {
		if p.curTokenIs(token.EOF) {
			return nil, &Error{Position: open.Position, Msg: "unclosed '('"}
		}
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		list.Elements = append(list.Elements, node)
	}
	p.nextToken() // consume ')'
	return list, nil
}

func (p *Parser) unexpected(expected string) error {
	literal := p.curToken.Literal
	if p.curTokenIs(token.EOF) {
		literal = "end of input"
	}
	return &Error{
		Position: p.curToken.Position,
		Msg:      fmt.Sprintf("expected %s, got %q", expected, literal),
	}
}

// Balance returns the paren depth of text: positive when lists are still open.
func Balance(text string) int {
	depth := 0
	l := lexer.New(text)
	for {
		tok := l.NextToken()
		switch tok.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.EOF, token.ILLEGAL:
			return depth
		}
	}
}
