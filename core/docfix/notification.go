package docfix

import (
	"strings"

	"github.com/FocuswithJustin/docfixer/core/docstore"
	"github.com/FocuswithJustin/docfixer/core/errors"
	"github.com/FocuswithJustin/docfixer/core/metadata"
	"github.com/FocuswithJustin/docfixer/core/provenance"
	"github.com/FocuswithJustin/docfixer/core/xml"
)

// applyNotification rewrites a notification constant's remarks with usage
// guidance and documents the matching Observe method of the type's
// Notifications companion.
func applyNotification(tc *typeCtx, m *metadata.Member, node *xml.Node) error {
	remarks, err := tc.required(node, m.Name, "Docs/remarks")
	if err != nil {
		return err
	}

	short := strings.TrimSuffix(m.Name, notificationSuffix)
	observe := "Observe" + short
	body := notificationBody(tc.eventArgsProperties(m), m.Notification.EventArgs != "")

	handler, err := documentCompanion(tc, m, observe, body)
	if err != nil {
		return err
	}

	if args := m.Notification.EventArgs; args != "" {
		tc.notificationUses[args] = append(tc.notificationUses[args], tc.typ.FullName()+"."+m.Name)
	}

	full := tc.typ.FullName()
	center := tc.foundation() + ".NSNotificationCenter"
	blocks := []string{
		`<para ` + provenance.ToolRemark.String() + `>This constant can be used with the <see cref="T:` + center + `" /> to register a listener for this notification.   This is an NSString instead of a string, because these values can be used as tokens in some native libraries instead of being used purely for their actual string content.    The 'notification' parameter to the callback contains extra information that is specific to the notification type.</para>`,
		`<para ` + provenance.ToolRemark.String() + `>If you want to subscribe to this notification, you can use the convenience <see cref="T:` + full + docstore.CompanionSuffix + `" />.<see cref="M:` + full + docstore.CompanionSuffix + `.` + observe + `" /> method which offers strongly typed access to the parameters of the notification.</para>`,
		`<para>The following example shows how to use the strongly typed Notifications class, to take the guesswork out of the available properties in the notification:</para>`,
	}

	remarks.Clear()
	for _, b := range blocks {
		frag, err := xml.ParseFragment(b)
		if err != nil {
			return errors.NewMalformed(full, m.Name, "Docs/remarks", err.Error())
		}
		remarks.Append(frag)
	}
	remarks.Append(observerCode(tc.typ.Name, observe, body, handler))
	intro, _ := provenance.Plain("The following example shows how to use the notification with the DefaultCenter API:")
	remarks.Append(intro)
	remarks.Append(centerCode(tc.typ.Name, m.Name))
	return nil
}

// eventArgsProperties returns the property names of the marker's event-args
// type in declaration order.
func (tc *typeCtx) eventArgsProperties(m *metadata.Member) []string {
	name := m.Notification.EventArgs
	if name == "" {
		return nil
	}
	t, ok := tc.model.Lookup(name)
	if !ok {
		tc.skip("notification", errors.NewNotFound("event args type", name), "type", tc.typ.FullName(), "member", m.Name)
		return nil
	}
	props := make([]string, len(t.Properties))
	for i, p := range t.Properties {
		props[i] = p.Name
	}
	return props
}
