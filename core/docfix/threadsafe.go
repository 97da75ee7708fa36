package docfix

import (
	"github.com/FocuswithJustin/docfixer/core/errors"
	"github.com/FocuswithJustin/docfixer/core/metadata"
	"github.com/FocuswithJustin/docfixer/core/provenance"
	"github.com/FocuswithJustin/docfixer/core/xml"
)

const (
	threadSafeType   = "The members of this class can be used from a background thread."
	threadSafeMember = "This can be used from a background thread."
)

// annotateThreadSafeType marks the type remarks and the remarks of every
// documented member.
func annotateThreadSafeType(tc *typeCtx) error {
	remarks := tc.unit.Doc.FindOne("Type/Docs/remarks")
	if remarks == nil {
		return errors.NewMalformed(tc.typ.FullName(), "", "Type/Docs/remarks", "node missing")
	}
	if err := provenance.Replace(remarks, provenance.Threads, threadSafeType, true); err != nil {
		return err
	}
	for _, r := range tc.unit.Doc.Find("Type/Members/Member/Docs/remarks") {
		if err := provenance.Replace(r, provenance.Threads, threadSafeMember, true); err != nil {
			return err
		}
	}
	return nil
}

// applyThreadSafeMember marks one member's remarks, when it has any.
func applyThreadSafeMember(tc *typeCtx, m *metadata.Member, node *xml.Node) error {
	remarks := node.FindOne("Docs/remarks")
	if remarks == nil {
		return nil
	}
	return provenance.Replace(remarks, provenance.Threads, threadSafeMember, true)
}
