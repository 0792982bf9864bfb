package browser

import (
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
)

// Tags whose subtree carries nothing a client can act on.
var skippedTags = map[string]bool{
	"SCRIPT":   true,
	"STYLE":    true,
	"HEAD":     true,
	"META":     true,
	"LINK":     true,
	"NOSCRIPT": true,
	"TEMPLATE": true,
}

// Attributes worth surfacing in the outline.
var outlineAttrs = []string{"id", "role", "aria-label", "href", "alt", "placeholder", "type", "name"}

// outlineNode is one element of the snapshot outline, collected before uids
// are assigned.
type outlineNode struct {
	depth   int
	tag     string
	attrs   []string
	text    string
	backend cdp.BackendNodeID
}

// collectOutline flattens a DOM tree into outline entries, depth-first in
// document order, skipping non-element nodes and inert subtrees.
func collectOutline(root *cdp.Node) []outlineNode {
	var out []outlineNode
	if root == nil {
		return out
	}
	var walk func(n *cdp.Node, depth int)
	walk = func(n *cdp.Node, depth int) {
		childDepth := depth
		if n.NodeType == cdp.NodeTypeElement {
			tag := strings.ToUpper(n.NodeName)
			if skippedTags[tag] {
				return
			}
			out = append(out, outlineNode{
				depth:   depth,
				tag:     strings.ToLower(n.NodeName),
				attrs:   pickAttrs(n.Attributes),
				text:    ownText(n),
				backend: n.BackendNodeID,
			})
			childDepth = depth + 1
		}
		for _, child := range n.Children {
			walk(child, childDepth)
		}
		for _, child := range n.ShadowRoots {
			walk(child, childDepth)
		}
		if n.ContentDocument != nil {
			walk(n.ContentDocument, childDepth)
		}
	}
	walk(root, 0)
	return out
}

// renderOutline produces the indented text form, one element per line with
// its uid first so clients can copy it into element-scoped tool calls.
func renderOutline(nodes []outlineNode, uids []string) string {
	var sb strings.Builder
	for i, n := range nodes {
		sb.WriteString(strings.Repeat("  ", n.depth))
		fmt.Fprintf(&sb, "uid=%s <%s>", uids[i], n.tag)
		for _, attr := range n.attrs {
			sb.WriteString(" ")
			sb.WriteString(attr)
		}
		if n.text != "" {
			fmt.Fprintf(&sb, " %q", n.text)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// pickAttrs filters the flat name/value attribute list down to the
// interesting ones, formatted as name="value".
func pickAttrs(flat []string) []string {
	var out []string
	for i := 0; i+1 < len(flat); i += 2 {
		name, value := flat[i], flat[i+1]
		for _, want := range outlineAttrs {
			if name == want {
				out = append(out, fmt.Sprintf("%s=%q", name, truncate(value, 80)))
				break
			}
		}
	}
	return out
}

// ownText returns the trimmed text of the element's direct text children.
func ownText(n *cdp.Node) string {
	var parts []string
	for _, child := range n.Children {
		if child.NodeType == cdp.NodeTypeText {
			if t := strings.TrimSpace(child.NodeValue); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return truncate(strings.Join(parts, " "), 120)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
