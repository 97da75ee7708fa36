package docfix

import (
	"github.com/FocuswithJustin/docfixer/core/metadata"
	"github.com/FocuswithJustin/docfixer/core/xml"
)

// rule is one synchronization rule keyed by capabilities.
type rule struct {
	name     string
	requires metadata.Capabilities
	excludes metadata.Capabilities
	apply    func(tc *typeCtx, m *metadata.Member, node *xml.Node) error
}

func (r rule) matches(c metadata.Capabilities) bool {
	return c.Has(r.requires) && c&r.excludes == 0
}

// propertyRules run, in order, against a property's member node. Constants
// are owned by the field and notification rules alone.
var propertyRules = []rule{
	{name: "field", requires: metadata.CapField, apply: applyField},
	{name: "notification", requires: metadata.CapField | metadata.CapNotification, apply: applyNotification},
	{name: "nullallowed", requires: metadata.CapNullAllowed, excludes: metadata.CapField, apply: applyNullableProperty},
	{name: "threadsafe", requires: metadata.CapThreadSafe, excludes: metadata.CapField, apply: applyThreadSafeMember},
}

// methodRules run against the member node bound to a method's selector.
// The async rule copies the synchronous docs, so it runs last.
var methodRules = []rule{
	{name: "nullallowed", requires: metadata.CapNullAllowedParam, apply: applyNullableParams},
	{name: "threadsafe", requires: metadata.CapThreadSafe, apply: applyThreadSafeMember},
	{name: "async", requires: metadata.CapExport | metadata.CapAsync, apply: applyAsync},
}
