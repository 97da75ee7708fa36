package xml

import (
	"bytes"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Name returns the element name.
func (n *Node) Name() string {
	if n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the text content of the node and its descendants.
func (n *Node) Text() string {
	if n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// InnerText returns all text content of the node and its descendants.
func (n *Node) InnerText() string {
	return n.Text()
}

// InnerXML returns the inner XML of the node.
func (n *Node) InnerXML() string {
	if n.node == nil {
		return ""
	}
	var buf bytes.Buffer
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		writeInline(&buf, child)
	}
	return buf.String()
}

// OuterXML returns the node itself serialized inline.
func (n *Node) OuterXML() string {
	if n.node == nil {
		return ""
	}
	var buf bytes.Buffer
	writeInline(&buf, n.node)
	return buf.String()
}

// IsElement reports whether the node is an element.
func (n *Node) IsElement() bool {
	return n.node != nil && n.node.Type == xmlquery.ElementNode
}

// Children returns the child element nodes.
func (n *Node) Children() []*Node {
	if n.node == nil {
		return nil
	}

	var children []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, &Node{node: child})
		}
	}
	return children
}

// Nodes returns every child node, including text and comments.
func (n *Node) Nodes() []*Node {
	if n.node == nil {
		return nil
	}
	var nodes []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		nodes = append(nodes, &Node{node: child})
	}
	return nodes
}

// HasElements reports whether the node has at least one child element.
func (n *Node) HasElements() bool {
	if n.node == nil {
		return false
	}
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}

// Attributes returns all attributes of the node.
func (n *Node) Attributes() map[string]string {
	if n.node == nil {
		return nil
	}

	attrs := make(map[string]string)
	for _, attr := range n.node.Attr {
		attrs[attr.Name.Local] = attr.Value
	}
	return attrs
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	if n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(name string) bool {
	return n.node != nil && n.node.HasAttr(name)
}

// SetAttr sets or adds an attribute.
func (n *Node) SetAttr(name, value string) {
	n.node.SetAttr(name, value)
}

// RemoveAttr removes an attribute if present.
func (n *Node) RemoveAttr(name string) {
	n.node.RemoveAttr(name)
}

// FindOne returns the first node matching expr relative to n, or nil.
func (n *Node) FindOne(expr string) *Node {
	if n == nil || n.node == nil {
		return nil
	}
	return wrap(xmlquery.FindOne(n.node, expr))
}

// Find returns all nodes matching expr relative to n.
func (n *Node) Find(expr string) []*Node {
	if n == nil || n.node == nil {
		return nil
	}
	return wrapAll(xmlquery.Find(n.node, expr))
}

// XPath executes an XPath query relative to the node.
func (n *Node) XPath(expr string) ([]*Node, error) {
	return queryAll(n.node, expr)
}

// Clear removes every child node. Attributes are kept.
func (n *Node) Clear() {
	for child := n.node.FirstChild; child != nil; {
		next := child.NextSibling
		xmlquery.RemoveFromTree(child)
		child = next
	}
}

// SetText replaces the node's content with a single text node. An empty
// string leaves the node empty.
func (n *Node) SetText(text string) {
	n.Clear()
	if text != "" {
		xmlquery.AddChild(n.node, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
	}
}

// Append adds child as the last child of n, detaching it from its current
// tree first.
func (n *Node) Append(child *Node) {
	if child == nil || child.node == nil {
		return
	}
	xmlquery.RemoveFromTree(child.node)
	xmlquery.AddChild(n.node, child.node)
}

// Remove detaches the node from its tree.
func (n *Node) Remove() {
	xmlquery.RemoveFromTree(n.node)
}

// Clone returns a detached deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil || n.node == nil {
		return nil
	}
	return &Node{node: cloneNode(n.node)}
}

// ReplaceChildrenWith replaces n's content with deep copies of src's
// children, so markup such as <see cref=""/> survives the copy.
func (n *Node) ReplaceChildrenWith(src *Node) {
	n.Clear()
	if src == nil || src.node == nil {
		return
	}
	for child := src.node.FirstChild; child != nil; child = child.NextSibling {
		xmlquery.AddChild(n.node, cloneNode(child))
	}
}

// IsBlank reports whether the node has no elements and only whitespace text.
func (n *Node) IsBlank() bool {
	return !n.HasElements() && strings.TrimSpace(n.Text()) == ""
}

func cloneNode(n *xmlquery.Node) *xmlquery.Node {
	c := &xmlquery.Node{
		Type:         n.Type,
		Data:         n.Data,
		Prefix:       n.Prefix,
		NamespaceURI: n.NamespaceURI,
	}
	if n.Attr != nil {
		c.Attr = append([]xmlquery.Attr(nil), n.Attr...)
	}
	if n.ProcInst != nil {
		inst := *n.ProcInst
		c.ProcInst = &inst
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		xmlquery.AddChild(c, cloneNode(child))
	}
	return c
}
