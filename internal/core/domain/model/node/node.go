// Package node provides the closed set of canonical production nodes a
// garment passes through, with plain lookup functions over them.
package node

import "fmt"

// Node is a canonical production node.
type Node string

const (
	Cutting          Node = "cutting"
	Sewing           Node = "sewing"
	Finishing        Node = "finishing"
	Ironing          Node = "ironing"
	SecondaryProcess Node = "secondary_process"
	Quality          Node = "quality"
	Packaging        Node = "packaging"
	Warehousing      Node = "warehousing"
)

var ordered = []Node{Cutting, Sewing, Finishing, Ironing, SecondaryProcess, Quality, Packaging, Warehousing}

var labels = map[Node]string{
	Cutting:          "裁剪",
	Sewing:           "车缝",
	Finishing:        "尾部",
	Ironing:          "整烫",
	SecondaryProcess: "二次工艺",
	Quality:          "质检",
	Packaging:        "包装",
	Warehousing:      "入库",
}

// All returns the canonical nodes in workshop order.
func All() []Node {
	return append([]Node(nil), ordered...)
}

// Parse converts a code such as "sewing" into a Node.
func Parse(s string) (Node, error) {
	if _, ok := labels[Node(s)]; ok {
		return Node(s), nil
	}
	return "", fmt.Errorf("%q is not a production node", s)
}

// Label returns the shop-floor display name of n.
func Label(n Node) string {
	return labels[n]
}

// NextNode returns the node that follows n, or false for the last node.
func NextNode(n Node) (Node, bool) {
	for i, candidate := range ordered {
		if candidate == n && i+1 < len(ordered) {
			return ordered[i+1], true
		}
	}
	return "", false
}
