package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"eva/internal/ast"
)

// WalkAST recursively traverses an AST and serializes it into a map structure.
// This output is designed for stability and tool-chain consumption.
func WalkAST(node ast.Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *ast.Number:
		return map[string]interface{}{
			"type":  "Number",
			"value": n.Value,
		}

	case *ast.String:
		return map[string]interface{}{
			"type":  "String",
			"value": n.Value,
		}

	case *ast.Symbol:
		return map[string]interface{}{
			"type": "Symbol",
			"name": n.Name,
		}

	case *ast.List:
		elements := make([]interface{}, len(n.Elements))
		for i, el := range n.Elements {
			elements[i] = WalkAST(el)
		}
		out := map[string]interface{}{
			"type":     "List",
			"elements": elements,
		}
		if tag := n.Tag(); tag != "" {
			out["tag"] = tag
		}
		return out

	default:
		return map[string]interface{}{
			"type": fmt.Sprintf("%T", node),
		}
	}
}

func RenderASTAsJSON(node ast.Node) (string, error) {
	astMap := WalkAST(node)
	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(astMap); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %v", err)
	}
	return buf.String(), nil
}
