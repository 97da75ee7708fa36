package docfix

import (
	"strings"

	"github.com/FocuswithJustin/docfixer/core/errors"
	"github.com/FocuswithJustin/docfixer/core/metadata"
	"github.com/FocuswithJustin/docfixer/core/provenance"
	"github.com/FocuswithJustin/docfixer/core/xml"
)

const notificationSuffix = "Notification"

// isNotification reports whether a constant names a posted notification:
// either it is marked so, or it is an NSString token whose native symbol
// ends in "Notification".
func isNotification(m *metadata.Member, node *xml.Node) bool {
	if m.Notification != nil {
		return true
	}
	ret := node.FindOne("ReturnValue/ReturnType")
	return ret != nil &&
		strings.HasSuffix(ret.Text(), ".Foundation.NSString") &&
		strings.HasSuffix(m.Field.Symbol, notificationSuffix)
}

// applyField fills the placeholders of a constant. Notification constants
// are merged from platform documentation when a source is configured.
func applyField(tc *typeCtx, m *metadata.Member, node *xml.Node) error {
	if isNotification(m, node) {
		if tc.opts.Merge == nil {
			return nil
		}
		return mergePlatformDoc(tc, m, node)
	}

	if value := node.FindOne("Docs/value"); provenance.IsSentinel(value) {
		value.Clear()
	}
	if summary := node.FindOne("Docs/summary"); provenance.IsSentinel(summary) {
		summary.SetText("Represents the value associated with the constant " + m.Field.Symbol)
	}
	return nil
}

// mergePlatformDoc replaces a notification constant's summary with the first
// block of its platform documentation and its remarks with the rest. An
// example already present in the remarks is kept.
func mergePlatformDoc(tc *typeCtx, m *metadata.Member, node *xml.Node) error {
	summary, err := tc.required(node, m.Name, "Docs/summary")
	if err != nil {
		return err
	}
	remarks, err := tc.required(node, m.Name, "Docs/remarks")
	if err != nil {
		return err
	}

	markup, err := tc.opts.Merge.MemberDoc(tc.ctx, tc.typ.FullName(), m.Field.Symbol)
	if err != nil {
		return errors.Wrapf(err, "platform doc for %s", m.Field.Symbol)
	}
	first, rest, err := tc.opts.Merge.Split(markup)
	if err != nil {
		return errors.NewMalformed(tc.typ.FullName(), m.Name, "platform doc", err.Error())
	}

	var example *xml.Node
	if ex := remarks.FindOne("example"); ex != nil {
		example = ex.Clone()
	}

	summary.Clear()
	summary.Append(first)
	remarks.Clear()
	for _, n := range rest {
		remarks.Append(n)
	}
	if example != nil && !containsBlock(rest, example) {
		remarks.Append(example)
	}
	return nil
}

func containsBlock(blocks []*xml.Node, want *xml.Node) bool {
	outer := want.OuterXML()
	for _, b := range blocks {
		if b.OuterXML() == outer {
			return true
		}
	}
	return false
}
