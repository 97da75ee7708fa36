package docfix

import (
	"github.com/FocuswithJustin/docfixer/core/docstore"
	"github.com/FocuswithJustin/docfixer/core/errors"
	"github.com/FocuswithJustin/docfixer/core/metadata"
	"github.com/FocuswithJustin/docfixer/core/provenance"
	"github.com/FocuswithJustin/docfixer/core/typeref"
	"github.com/FocuswithJustin/docfixer/core/xml"
)

// documentCompanion rewrites the type's Notifications companion unit and the
// Observe method for one notification, saves the unit, and returns the
// handler type used in the code examples.
//
// A missing companion unit aborts the run. A missing Observe method is
// reported as stale after the companion is saved.
func documentCompanion(tc *typeCtx, m *metadata.Member, observe, body string) (string, error) {
	full := tc.typ.FullName()
	unit, err := tc.store.Companion(tc.typ.Namespace, tc.typ.Name)
	if err != nil {
		if errors.Is(err, errors.ErrMissingDocumentation) {
			return "", &errors.StructuralError{Type: full, Reason: "Notifications class documentation missing"}
		}
		return "", &errors.StructuralError{Type: full, Reason: "Notifications class documentation unreadable: " + err.Error()}
	}

	if err := documentCompanionType(tc, unit); err != nil {
		return "", err
	}

	method := unit.Doc.FindOne("Type/Members/Member[@MemberName=" + xml.Literal(observe) + "]")
	var handler string
	var methodErr error
	if method == nil {
		methodErr = errors.NewStale(unit.Type, observe, "")
	} else {
		handler, methodErr = documentObserve(tc, m, unit, method, observe, body)
	}

	if _, err := tc.store.Save(tc.ctx, unit); err != nil {
		return "", err
	}
	return handler, methodErr
}

func documentCompanionType(tc *typeCtx, unit *docstore.Unit) error {
	full := tc.typ.FullName()
	summary := unit.Doc.FindOne("Type/Docs/summary")
	remarks := unit.Doc.FindOne("Type/Docs/remarks")
	if summary == nil || remarks == nil {
		return errors.NewMalformed(unit.Type, "", "Type/Docs", "summary or remarks missing")
	}

	foundation := tc.foundation()
	para, err := provenance.Plain(`Notification posted by the <see cref="T:` + full + `" /> class.`)
	if err != nil {
		return errors.NewMalformed(unit.Type, "", "Type/Docs/summary", err.Error())
	}
	summary.Clear()
	summary.Append(para)

	remarks.Clear()
	for _, inner := range []string{
		`This is a static class which contains various helper methods that allow developers to observe events posted in the iOS notification hub (<see cref="T:` + foundation + `.NSNotificationCenter" />).`,
		`The methods defined in this class post events invoke the provided method or lambda with a <see cref="T:` + foundation + `.NSNotificationEventArgs" /> parameter which contains strongly typed properties for the notification arguments.`,
	} {
		p, err := provenance.Plain(inner)
		if err != nil {
			return errors.NewMalformed(unit.Type, "", "Type/Docs/remarks", err.Error())
		}
		remarks.Append(p)
	}
	return nil
}

func documentObserve(tc *typeCtx, m *metadata.Member, unit *docstore.Unit, method *xml.Node, observe, body string) (string, error) {
	param := method.FindOne("Parameters/Parameter")
	docParam := method.FindOne("Docs/param")
	summary := method.FindOne("Docs/summary")
	returns := method.FindOne("Docs/returns")
	remarks := method.FindOne("Docs/remarks")
	if param == nil || docParam == nil || summary == nil || returns == nil || remarks == nil {
		return "", errors.NewMalformed(unit.Type, observe, "Docs", "parameter, summary, returns or remarks missing")
	}

	handler := tc.types.Unwrap(param.Attr("Type"), typeref.EventHandler)
	handler = typeref.TrimNamespace(handler, "System")

	docParam.SetText("Method to invoke when the notification is posted.")
	summary.SetText("Registers a method to be notified when the " + m.Field.Symbol + " notification is posted.")

	ret, err := provenance.Plain(`The returned NSObject represents the registered notification.   Either call Dispose on the object to stop receiving notifications, or pass it to <see cref="M:` + tc.foundation() + `.NSNotificationCenter.RemoveObserver" />`)
	if err != nil {
		return "", errors.NewMalformed(unit.Type, observe, "Docs/returns", err.Error())
	}
	returns.Clear()
	returns.Append(ret)

	intro, _ := provenance.Plain("The following example shows how you can use this method in your code")
	remarks.Clear()
	remarks.Append(intro)
	remarks.Append(observerCode(tc.typ.Name, observe, body, handler))
	return handler, nil
}
