package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders a sequence of top-level nodes as an indented tree, one line
// per node. Used by the 'clove ast' debug command.
func Dump(nodes []*Node) string {
	var sb strings.Builder
	for _, node := range nodes {
		writeNode(&sb, node, 0)
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, node *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if node == nil {
		fmt.Fprintf(sb, "%snil\n", indent)
		return
	}

	switch d := node.Data.(type) {
	case IntegerNode:
		fmt.Fprintf(sb, "%sConstant %d\n", indent, d.Value)
	case StringNode:
		fmt.Fprintf(sb, "%sConstant %s\n", indent, strconv.Quote(d.Value))
	case KeywordNode:
		fmt.Fprintf(sb, "%sKeyword %s\n", indent, d.Token)
	case VariableNode:
		fmt.Fprintf(sb, "%sVariable %s\n", indent, d.Name)
	case MapNode:
		fmt.Fprintf(sb, "%sMap\n", indent)
		for _, entry := range d.Entries {
			fmt.Fprintf(sb, "%s  :%s\n", indent, entry.Key)
			writeNode(sb, entry.Value, depth+2)
		}
	case VectorNode:
		fmt.Fprintf(sb, "%sVector\n", indent)
		for _, item := range d.Items {
			writeNode(sb, item, depth+1)
		}
	case ListNode:
		fmt.Fprintf(sb, "%sList\n", indent)
		writeNode(sb, d.Head, depth+1)
		for _, item := range d.Rest {
			writeNode(sb, item, depth+1)
		}
	case DefNode:
		fmt.Fprintf(sb, "%sDef %s\n", indent, d.Name)
		writeNode(sb, d.Value, depth+1)
	case FunctionNode:
		fmt.Fprintf(sb, "%sFunction %s\n", indent, d.Name)
		fmt.Fprintf(sb, "%s  params\n", indent)
		for _, p := range d.Params {
			writeNode(sb, p, depth+2)
		}
		fmt.Fprintf(sb, "%s  body\n", indent)
		for _, b := range d.Body {
			writeNode(sb, b, depth+2)
		}
	case MainNode:
		fmt.Fprintf(sb, "%sMain\n", indent)
		fmt.Fprintf(sb, "%s  params\n", indent)
		for _, p := range d.Params {
			writeNode(sb, p, depth+2)
		}
		fmt.Fprintf(sb, "%s  body\n", indent)
		for _, b := range d.Body {
			writeNode(sb, b, depth+2)
		}
	default:
		fmt.Fprintf(sb, "%sNull\n", indent)
	}
}
