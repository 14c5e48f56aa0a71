package ast

import (
	"bytes"
	"strconv"
)

// Kind enumerates the closed set of node shapes produced by the parser.
type Kind int

const (
	NumberNode Kind = iota
	StringNode
	SymbolNode
	ListNode
)

var kindNames = [...]string{"Number", "String", "Symbol", "List"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Form tags understood by the evaluator. Anything else at the head of a list is a call.
const (
	BEGIN  = "begin"
	VAR    = "var"
	SET    = "set"
	IF     = "if"
	WHILE  = "while"
	DEF    = "def"
	SWITCH = "switch"
	FOR    = "for"
	INC    = "++"
	DEC    = "--"
	LAMBDA = "lambda"
	CLASS  = "class"
	SUPER  = "super"
	NEW    = "new"
	PROP   = "prop"
	MODULE = "module"
	IMPORT = "import"
	ELSE   = "else"
)

// The base Node interface
type Node interface {
	Kind() Kind
	String() string
}

type Number struct {
	Value float64
}

func (n *Number) Kind() Kind     { return NumberNode }
func (n *Number) String() string { return strconv.FormatFloat(n.Value, 'f', -1, 64) }

// String is a string literal; Value holds the content without the delimiting quotes.
type String struct {
	Value string
}

func (s *String) Kind() Kind     { return StringNode }
func (s *String) String() string { return `"` + s.Value + `"` }

type Symbol struct {
	Name string
}

func (s *Symbol) Kind() Kind     { return SymbolNode }
func (s *Symbol) String() string { return s.Name }

type List struct {
	Elements []Node
}

func (l *List) Kind() Kind { return ListNode }
func (l *List) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	for i, el := range l.Elements {
		if i > 0 {
			out.WriteString(" ")
		}
		if el == nil {
			out.WriteString("<nil>")
			continue
		}
		out.WriteString(el.String())
	}
	out.WriteString(")")
	return out.String()
}

// Tag returns the head symbol of the list, or "" when the head is not a symbol.
func (l *List) Tag() string {
	if len(l.Elements) == 0 {
		return ""
	}
	if sym, ok := l.Elements[0].(*Symbol); ok {
		return sym.Name
	}
	return ""
}

// Operands returns everything after the head.
func (l *List) Operands() []Node {
	if len(l.Elements) == 0 {
		return nil
	}
	return l.Elements[1:]
}

// Constructors used by the transformer and tests.

func Num(v float64) *Number   { return &Number{Value: v} }
func Str(v string) *String    { return &String{Value: v} }
func Sym(name string) *Symbol { return &Symbol{Name: name} }

func NewList(elements ...Node) *List {
	copied := make([]Node, len(elements))
	copy(copied, elements)
	return &List{Elements: copied}
}

// Form builds a tagged list: (tag operands...).
func Form(tag string, operands ...Node) *List {
	elements := make([]Node, 0, len(operands)+1)
	elements = append(elements, Sym(tag))
	elements = append(elements, operands...)
	return &List{Elements: elements}
}

// IsSymbol reports whether node is the symbol name.
func IsSymbol(node Node, name string) bool {
	sym, ok := node.(*Symbol)
	return ok && sym.Name == name
}

// IsSymbolChar reports whether r belongs to the symbol alphabet.
func IsSymbolChar(r rune) bool {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return true
	}
	switch r {
	case '_', '+', '-', '*', '/', '<', '>', '=':
		return true
	}
	return false
}

// ValidSymbol reports whether name is a non-empty token over the symbol alphabet.
func ValidSymbol(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !IsSymbolChar(r) {
			return false
		}
	}
	return true
}
