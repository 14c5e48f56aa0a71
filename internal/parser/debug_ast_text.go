package parser

import (
	"strings"

	"eva/internal/ast"
)

// RenderASTAsText pretty-prints a tree one form per line. Lists whose operands are all
// atoms stay on a single line.
func RenderASTAsText(node ast.Node, indent int) string {
	if node == nil {
		return "nil"
	}

	sp := strings.Repeat("  ", indent)

	list, ok := node.(*ast.List)
	if !ok || isFlat(list) {
		return sp + node.String()
	}

	var sb strings.Builder
	sb.WriteString(sp + "(")
	for i, el := range list.Elements {
		if i == 0 {
			// the head stays on the opening line
			sb.WriteString(RenderASTAsText(el, 0))
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(RenderASTAsText(el, indent+1))
	}
	sb.WriteString(")")
	return sb.String()
}

func isFlat(list *ast.List) bool {
	for _, el := range list.Elements {
		if _, ok := el.(*ast.List); ok {
			return false
		}
	}
	return true
}
