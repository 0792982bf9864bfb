package browser

import (
	"strings"
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func elementNode(name string, backend cdp.BackendNodeID, attrs []string, children ...*cdp.Node) *cdp.Node {
	return &cdp.Node{
		NodeType:      cdp.NodeTypeElement,
		NodeName:      name,
		BackendNodeID: backend,
		Attributes:    attrs,
		Children:      children,
	}
}

func textNode(value string) *cdp.Node {
	return &cdp.Node{NodeType: cdp.NodeTypeText, NodeValue: value}
}

func docNode(children ...*cdp.Node) *cdp.Node {
	return &cdp.Node{NodeType: cdp.NodeTypeDocument, NodeName: "#document", Children: children}
}

func TestCollectOutline_DocumentOrderAndDepth(t *testing.T) {
	root := docNode(
		elementNode("HTML", 1, nil,
			elementNode("BODY", 2, nil,
				elementNode("A", 3, []string{"href", "/home"}, textNode("  Home  ")),
				elementNode("DIV", 4, nil,
					elementNode("BUTTON", 5, []string{"id", "go"}, textNode("Submit")),
				),
			),
		),
	)

	nodes := collectOutline(root)
	require.Len(t, nodes, 5)

	assert.Equal(t, "html", nodes[0].tag)
	assert.Equal(t, 0, nodes[0].depth)
	assert.Equal(t, "a", nodes[2].tag)
	assert.Equal(t, 2, nodes[2].depth)
	assert.Equal(t, "Home", nodes[2].text)
	assert.Equal(t, cdp.BackendNodeID(5), nodes[4].backend)
	assert.Equal(t, 3, nodes[4].depth)
}

func TestCollectOutline_SkipsInertSubtrees(t *testing.T) {
	root := docNode(
		elementNode("HTML", 1, nil,
			elementNode("HEAD", 2, nil,
				elementNode("TITLE", 3, nil, textNode("ignored")),
			),
			elementNode("BODY", 4, nil,
				elementNode("SCRIPT", 5, nil, textNode("var x=1")),
				elementNode("P", 6, nil, textNode("visible")),
			),
		),
	)

	nodes := collectOutline(root)
	tags := make([]string, len(nodes))
	for i, n := range nodes {
		tags[i] = n.tag
	}
	assert.Equal(t, []string{"html", "body", "p"}, tags)
}

func TestCollectOutline_FiltersAttributes(t *testing.T) {
	root := docNode(
		elementNode("INPUT", 1, []string{
			"id", "search",
			"data-internal", "x",
			"placeholder", "Search...",
		}),
	)

	nodes := collectOutline(root)
	require.Len(t, nodes, 1)
	assert.Equal(t, []string{`id="search"`, `placeholder="Search..."`}, nodes[0].attrs)
}

func TestRenderOutline(t *testing.T) {
	root := docNode(
		elementNode("BODY", 1, nil,
			elementNode("A", 2, []string{"href", "/x"}, textNode("Link")),
		),
	)
	nodes := collectOutline(root)
	text := renderOutline(nodes, []string{"7_0", "7_1"})

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `uid=7_0 <body>`, lines[0])
	assert.Equal(t, `  uid=7_1 <a> href="/x" "Link"`, lines[1])
}

func TestRegisterSnapshot_InvalidatesPreviousUIDs(t *testing.T) {
	pageID := target.ID("T1")
	s := &Session{attached: map[target.ID]*Page{pageID: {targetID: pageID}}}

	id, uids := s.registerSnapshot(pageID, []cdp.BackendNodeID{10, 11})
	assert.Equal(t, "1", id)
	assert.Equal(t, []string{"1_0", "1_1"}, uids)

	el, err := s.ElementByUID("1_1")
	require.NoError(t, err)
	require.NotNil(t, el)

	// A fresh snapshot replaces the uid map wholesale.
	id2, uids2 := s.registerSnapshot(pageID, []cdp.BackendNodeID{12})
	assert.Equal(t, "2", id2)
	assert.Equal(t, []string{"2_0"}, uids2)

	_, err = s.ElementByUID("1_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown uid")
}

func TestElementByUID_NoSnapshot(t *testing.T) {
	s := &Session{attached: map[target.ID]*Page{}}

	_, err := s.ElementByUID("1_0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no snapshot")
}
