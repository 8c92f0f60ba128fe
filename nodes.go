package qubit

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	// name is the literal text of a number, the name of a variable,
	// constant, or function, or the source unit of a conversion.
	name string
	// to is the target unit of a conversion.
	to string
	// num is the value of a number literal.
	num float64

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum     // num
	nodeName    // lookup(name)
	nodeConst   // constant name
	nodeCall    // name is function to call, left is the argument
	nodeConvert // left is the number, name and to are unit names

	nodeNeg // evaluate left, then negate
	nodeNop // evaluate left

	nodeAdd       // evaluate left, add right
	nodeSub       // evaluate left, sub right
	nodeMul       // evaluate left, mul right
	nodeDiv       // evaluate left, div by right
	nodeMod       // evaluate left, remainder by right
	nodePow       // evaluate left, exp by right
	nodePercentOf // left percent of right
	nodePercentOn // right plus left percent of right
	nodeShr       // left shifted right by right
	nodeShl       // left shifted left by right
)

var nodeNames = [...]string{
	nodeNone:      "None",
	nodeNum:       "Num",
	nodeName:      "Name",
	nodeConst:     "Const",
	nodeCall:      "Call",
	nodeConvert:   "Convert",
	nodeNeg:       "Neg",
	nodeNop:       "Nop",
	nodeAdd:       "Add",
	nodeSub:       "Sub",
	nodeMul:       "Mul",
	nodeDiv:       "Div",
	nodeMod:       "Mod",
	nodePow:       "Pow",
	nodePercentOf: "PercentOf",
	nodePercentOn: "PercentOn",
	nodeShr:       "Shr",
	nodeShl:       "Shl",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeNames[k]
}

// binsyms gives the spelling of each binary operator node.
var binsyms = map[nodeKind]string{
	nodeAdd:       " + ",
	nodeSub:       " - ",
	nodeMul:       " * ",
	nodeDiv:       " / ",
	nodeMod:       " % ",
	nodePow:       " ^ ",
	nodePercentOf: " % of ",
	nodePercentOn: " % on ",
	nodeShr:       " >> ",
	nodeShl:       " << ",
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes n fully bracketed. The result parses to the same tree.
func (n *node) fmt(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	case nodeNum, nodeName, nodeConst:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		n.left.fmt(b)
	case nodeConvert:
		b.WriteString(n.left.name)
		b.WriteByte(' ')
		b.WriteString(n.name)
		b.WriteString(" to ")
		b.WriteString(n.to)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b)
	case nodeNop:
		b.WriteByte('+')
		n.left.fmt(b)
	default:
		sym, ok := binsyms[n.kind]
		if !ok {
			panic("qubit: invalid node kind " + n.kind.String() + " after writing " + b.String())
		}
		n.left.fmt(b)
		b.WriteString(sym)
		n.right.fmt(b)
	}
}
