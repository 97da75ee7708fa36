package metadata

import "strings"

// Capabilities is the set of markers carried by a member. Rule dispatch is
// keyed on it.
type Capabilities uint16

const (
	CapField Capabilities = 1 << iota
	CapNotification
	CapNullAllowed
	CapThreadSafe
	CapAsync
	CapExport
	CapWrap
	CapInternal
	// CapNullAllowedParam is set when any parameter is marked NullAllowed.
	CapNullAllowedParam
)

var capNames = []struct {
	cap  Capabilities
	name string
}{
	{CapField, "Field"},
	{CapNotification, "Notification"},
	{CapNullAllowed, "NullAllowed"},
	{CapThreadSafe, "ThreadSafe"},
	{CapAsync, "Async"},
	{CapExport, "Export"},
	{CapWrap, "Wrap"},
	{CapInternal, "Internal"},
	{CapNullAllowedParam, "NullAllowedParam"},
}

// Has reports whether every capability in want is present.
func (c Capabilities) Has(want Capabilities) bool {
	return c&want == want
}

func (c Capabilities) String() string {
	if c == 0 {
		return "none"
	}
	var names []string
	for _, cn := range capNames {
		if c.Has(cn.cap) {
			names = append(names, cn.name)
		}
	}
	return strings.Join(names, "|")
}

// Capabilities derives the member's capability set from its markers.
func (m *Member) Capabilities() Capabilities {
	var c Capabilities
	if m.Field != nil {
		c |= CapField
	}
	if m.Notification != nil {
		c |= CapNotification
	}
	if m.NullAllowed {
		c |= CapNullAllowed
	}
	if m.ThreadSafe {
		c |= CapThreadSafe
	}
	if m.Async != nil {
		c |= CapAsync
	}
	if m.Export != nil {
		c |= CapExport
	}
	if m.Wrap != "" {
		c |= CapWrap
	}
	if m.Internal {
		c |= CapInternal
	}
	for _, p := range m.Parameters {
		if p.NullAllowed {
			c |= CapNullAllowedParam
			break
		}
	}
	return c
}
