// Package xml provides the documentation tree used by every synchronization
// rule: parsing, XPath selection, in-place mutation and deterministic
// formatting of mdoc-style XML units.
//
// Security Notes:
//   - XXE (External Entity) attacks are mitigated by using Go's xml.Decoder
//     which doesn't fetch external entities by default.
//   - The xmlquery library is used for parsing, which uses Go's encoding/xml
//     internally and inherits its security properties.
package xml

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/FocuswithJustin/docfixer/core/encoding"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node represents an XML node (element, text, comment).
type Node struct {
	node *xmlquery.Node
}

// FormatOptions controls XML formatting behavior.
type FormatOptions struct {
	Indent string // Indentation string (e.g., "  " or "\t")
}

// DefaultIndent is the indentation used when writing documentation units.
const DefaultIndent = "  "

// Parse parses XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseFragment parses markup holding a single root element and returns that
// element detached from any tree, ready to be appended elsewhere.
func ParseFragment(markup string) (*Node, error) {
	doc, err := xmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			xmlquery.RemoveFromTree(child)
			return &Node{node: child}, nil
		}
	}
	return nil, fmt.Errorf("parsing fragment: no element in %q", markup)
}

// NewText returns a detached text node.
func NewText(text string) *Node {
	return &Node{node: &xmlquery.Node{Type: xmlquery.TextNode, Data: text}}
}

// Format formats/pretty-prints XML data.
func Format(data []byte, opts FormatOptions) ([]byte, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Format(opts), nil
}

// Literal quotes s for use as an XPath string literal.
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+p+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// Root returns the root element of the document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// XPath executes an XPath query and returns matching nodes.
func (d *Document) XPath(expr string) ([]*Node, error) {
	return queryAll(d.root, expr)
}

// XPathFirst executes an XPath query and returns the first matching node.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	return queryFirst(d.root, expr)
}

// FindOne returns the first node matching expr, or nil. The expression must
// be valid; an invalid expression panics, as with xmlquery.FindOne.
func (d *Document) FindOne(expr string) *Node {
	return wrap(xmlquery.FindOne(d.root, expr))
}

// Find returns all nodes matching expr. The expression must be valid.
func (d *Document) Find(expr string) []*Node {
	return wrapAll(xmlquery.Find(d.root, expr))
}

// Serialize converts the document back to XML bytes using the default
// deterministic formatting.
func (d *Document) Serialize() []byte {
	return d.Format(FormatOptions{})
}

// Format writes the document with stable indentation, LF line endings, no
// XML declaration and a trailing newline.
func (d *Document) Format(opts FormatOptions) []byte {
	if d.root == nil {
		return nil
	}
	if opts.Indent == "" {
		opts.Indent = DefaultIndent
	}
	var buf bytes.Buffer
	formatNode(&buf, d.root, 0, opts.Indent)
	return buf.Bytes()
}

// formatNode writes element-only content indented, one node per line, and
// mixed or text content verbatim on the element's line.
func formatNode(w *bytes.Buffer, n *xmlquery.Node, depth int, indent string) {
	switch n.Type {
	case xmlquery.DocumentNode:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			switch child.Type {
			case xmlquery.ElementNode, xmlquery.CommentNode:
				formatNode(w, child, depth, indent)
			}
		}

	case xmlquery.ElementNode:
		writeIndent(w, depth, indent)
		writeStartTag(w, n)

		switch contentKind(n) {
		case contentEmpty:
			w.WriteString(" />\n")
		case contentText:
			w.WriteString(">")
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				writeInline(w, child)
			}
			writeEndTag(w, n)
			w.WriteString("\n")
		default:
			w.WriteString(">\n")
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				if child.Type == xmlquery.ElementNode || child.Type == xmlquery.CommentNode {
					formatNode(w, child, depth+1, indent)
				}
			}
			writeIndent(w, depth, indent)
			writeEndTag(w, n)
			w.WriteString("\n")
		}

	case xmlquery.CommentNode:
		writeIndent(w, depth, indent)
		w.WriteString("<!--")
		w.WriteString(encoding.NormalizeNewlines(n.Data))
		w.WriteString("-->\n")
	}
}

type content int

const (
	contentEmpty content = iota
	contentText
	contentElements
)

func contentKind(n *xmlquery.Node) content {
	kind := contentEmpty
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.TextNode:
			if strings.TrimSpace(child.Data) != "" {
				return contentText
			}
		case xmlquery.CharDataNode:
			return contentText
		case xmlquery.ElementNode, xmlquery.CommentNode:
			kind = contentElements
		}
	}
	return kind
}

func writeInline(w *bytes.Buffer, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.TextNode:
		w.WriteString(encoding.EscapeXMLText(encoding.NormalizeNewlines(n.Data)))
	case xmlquery.CharDataNode:
		w.WriteString("<![CDATA[")
		w.WriteString(encoding.NormalizeNewlines(n.Data))
		w.WriteString("]]>")
	case xmlquery.CommentNode:
		w.WriteString("<!--")
		w.WriteString(encoding.NormalizeNewlines(n.Data))
		w.WriteString("-->")
	case xmlquery.ElementNode:
		writeStartTag(w, n)
		if n.FirstChild == nil {
			w.WriteString(" />")
			return
		}
		w.WriteString(">")
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeInline(w, child)
		}
		writeEndTag(w, n)
	}
}

func writeStartTag(w *bytes.Buffer, n *xmlquery.Node) {
	w.WriteString("<")
	writeQName(w, n)
	for _, attr := range n.Attr {
		w.WriteString(" ")
		if attr.Name.Space != "" {
			w.WriteString(attr.Name.Space)
			w.WriteString(":")
		}
		w.WriteString(attr.Name.Local)
		w.WriteString("=\"")
		w.WriteString(encoding.EscapeXMLAttr(encoding.NormalizeNewlines(attr.Value)))
		w.WriteString("\"")
	}
}

func writeEndTag(w *bytes.Buffer, n *xmlquery.Node) {
	w.WriteString("</")
	writeQName(w, n)
	w.WriteString(">")
}

func writeQName(w *bytes.Buffer, n *xmlquery.Node) {
	if n.Prefix != "" {
		w.WriteString(n.Prefix)
		w.WriteString(":")
	}
	w.WriteString(n.Data)
}

func writeIndent(w *bytes.Buffer, depth int, indent string) {
	for i := 0; i < depth; i++ {
		w.WriteString(indent)
	}
}

func queryAll(top *xmlquery.Node, expr string) ([]*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	nodes, err := xmlquery.QueryAll(top, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	return wrapAll(nodes), nil
}

func queryFirst(top *xmlquery.Node, expr string) (*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	node, err := xmlquery.Query(top, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	return wrap(node), nil
}

func wrap(n *xmlquery.Node) *Node {
	if n == nil {
		return nil
	}
	return &Node{node: n}
}

func wrapAll(nodes []*xmlquery.Node) []*Node {
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result
}
