package preprocess

import "github.com/lookbusy1344/z33-asm/source"

// NodeKind identifies which variant of Node is populated, mirroring the
// preprocessor node tree: Raw | Error | Define | Undefine |
// Include | If. Branching on Kind in the walker keeps the tree shape
// independently extensible in place of a class hierarchy.
type NodeKind int

const (
	NodeRaw NodeKind = iota
	NodeError
	NodeDefine
	NodeUndefine
	NodeInclude
	NodeIf
)

// Branch is one (condition, body) pair of an If node: the node itself plus
// every #elif that follows it.
type Branch struct {
	Condition    string
	ConditionLoc source.RelativeLocation
	Body         []Node
}

// Node is the preprocessor's parse-tree node sum type.
type Node struct {
	Kind NodeKind
	Loc  source.RelativeLocation

	// NodeRaw
	RawText string

	// NodeError
	Message    string
	MessageLoc source.RelativeLocation

	// NodeDefine / NodeUndefine
	Key    string
	KeyLoc source.RelativeLocation

	// NodeDefine only; nil means "#define NAME" with no body
	DefineBody    *string
	DefineBodyLoc source.RelativeLocation

	// NodeInclude
	Path    string
	PathLoc source.RelativeLocation

	// NodeIf
	Branches []Branch
	Fallback []Node // nil if there is no #else
	HasElse  bool
}

// Walk calls f on every node in the tree, depth-first, descending into an
// If node's branch bodies and fallback body. It does not descend into
// #include targets (those aren't part of this tree; they're resolved and
// parsed separately when the walker reaches them).
func Walk(nodes []Node, f func(*Node)) {
	for i := range nodes {
		n := &nodes[i]
		f(n)
		if n.Kind == NodeIf {
			for _, b := range n.Branches {
				Walk(b.Body, f)
			}
			if n.HasElse {
				Walk(n.Fallback, f)
			}
		}
	}
}
