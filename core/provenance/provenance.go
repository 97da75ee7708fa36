// Package provenance tags synthesized documentation fragments with the rule
// that produced them, so a later run can remove exactly those fragments and
// insert fresh ones without touching hand-written siblings.
package provenance

import (
	"strings"

	"github.com/FocuswithJustin/docfixer/core/encoding"
	"github.com/FocuswithJustin/docfixer/core/xml"
)

// Sentinel is the placeholder text mdoc writes into unauthored nodes.
const Sentinel = "To be added."

// Stub replaces the sentinel when a node is wrapped before a fragment is
// appended to it.
const Stub = "(More documentation for this node is coming)"

// Marker is an attribute that identifies a machine-owned fragment.
type Marker struct {
	Attr  string
	Value string
}

// Markers written by the synchronization rules.
var (
	NullAllowed = Marker{Attr: "tool", Value: "nullallowed"}
	Threads     = Marker{Attr: "tool", Value: "threads"}
	Copied      = Marker{Attr: "copied", Value: "true"}
	Improve     = Marker{Attr: "class", Value: "improve-task-t-return-type-description"}
	ToolRemark  = Marker{Attr: "id", Value: "tool-remark"}

	// Older runs wrote these; they are recognized and removed but never written.
	Generated     = Marker{Attr: "generated", Value: "true"}
	ImproveLegacy = Marker{Attr: "class", Value: "improve"}
)

// String returns the marker as it appears in markup.
func (m Marker) String() string {
	return m.Attr + "=\"" + m.Value + "\""
}

// Mark sets the marker attribute on n.
func (m Marker) Mark(n *xml.Node) {
	n.SetAttr(m.Attr, m.Value)
}

// On reports whether n carries the marker.
func (m Marker) On(n *xml.Node) bool {
	return n.HasAttr(m.Attr) && n.Attr(m.Attr) == m.Value
}

// predicate builds an XPath predicate body matching any of markers.
func predicate(markers []Marker) string {
	parts := make([]string, len(markers))
	for i, m := range markers {
		parts[i] = "@" + m.Attr + "=" + xml.Literal(m.Value)
	}
	return strings.Join(parts, " or ")
}

// Find returns every descendant of node carrying any of markers.
func Find(node *xml.Node, markers ...Marker) []*xml.Node {
	if node == nil || len(markers) == 0 {
		return nil
	}
	return node.Find("descendant::*[" + predicate(markers) + "]")
}

// Has reports whether any descendant of node carries one of markers.
func Has(node *xml.Node, markers ...Marker) bool {
	return len(Find(node, markers...)) > 0
}

// Strip removes every descendant of node carrying any of markers and
// returns how many were removed.
func Strip(node *xml.Node, markers ...Marker) int {
	found := Find(node, markers...)
	for _, n := range found {
		n.Remove()
	}
	return len(found)
}

// Para builds a paragraph from inner markup and tags it with m.
func Para(m Marker, inner string) (*xml.Node, error) {
	return xml.ParseFragment("<para " + m.Attr + "=" + quoteAttr(m.Value) + ">" + inner + "</para>")
}

// Plain builds an untagged paragraph from inner markup.
func Plain(inner string) (*xml.Node, error) {
	return xml.ParseFragment("<para>" + inner + "</para>")
}

// Replace regenerates the m-tagged paragraph directly under node. Existing
// tagged paragraphs are removed; when there are none, text-only content is
// wrapped first so the new paragraph does not end up beside naked text.
func Replace(node *xml.Node, m Marker, inner string, stub bool) error {
	frag, err := Para(m, inner)
	if err != nil {
		return err
	}

	existing := node.Find("para[" + predicate([]Marker{m}) + "]")
	if len(existing) == 0 {
		PrepareNaked(node, stub)
	}
	for _, n := range existing {
		n.Remove()
	}
	node.Append(frag)
	return nil
}

// PrepareNaked wraps a text-only node's content in a paragraph. With stub,
// the sentinel is replaced by the placeholder Stub text. Nodes that already
// hold elements are left alone; blank nodes are emptied.
func PrepareNaked(node *xml.Node, stub bool) {
	if node.HasElements() {
		return
	}
	text := node.Text()
	if strings.TrimSpace(text) == "" {
		node.Clear()
		return
	}
	if stub && text == Sentinel {
		text = Stub
	}
	para, _ := xml.ParseFragment("<para />")
	para.SetText(text)
	node.Clear()
	node.Append(para)
}

// IsSentinel reports whether node is unauthored: its text content, markup
// aside, is exactly the sentinel.
func IsSentinel(node *xml.Node) bool {
	return node != nil && strings.TrimSpace(node.Text()) == Sentinel
}

// Escape makes s safe for inclusion in fragment markup.
func Escape(s string) string {
	return encoding.EscapeXMLText(s)
}

func quoteAttr(v string) string {
	return "\"" + encoding.EscapeXMLAttr(v) + "\""
}
