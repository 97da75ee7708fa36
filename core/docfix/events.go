package docfix

import (
	"github.com/FocuswithJustin/docfixer/core/errors"
)

// populateEvents documents the members generated for each delegate-backed
// event pair: void delegate methods become events, value-returning ones
// become delegate properties.
func populateEvents(tc *typeCtx) error {
	for _, pair := range tc.typ.BaseType.Events {
		delegate, ok := tc.model.Lookup(pair.Delegate)
		if !ok {
			tc.skip("events", &errors.MissingCrossReferenceError{Type: pair.Delegate, Referrer: tc.typ.FullName()}, "type", tc.typ.FullName())
			continue
		}
		for _, dm := range delegate.Methods {
			if dm.Internal {
				continue
			}
			node := tc.memberNode(dm.Name)
			if node == nil {
				if err := tc.handle("events", dm, errors.NewStale(tc.typ.FullName(), dm.Name, "")); err != nil {
					return err
				}
				continue
			}
			summary := node.FindOne("Docs/summary")
			remarks := node.FindOne("Docs/remarks")
			if summary == nil || remarks == nil {
				if err := tc.handle("events", dm, errors.NewMalformed(tc.typ.FullName(), dm.Name, "Docs", "summary or remarks missing")); err != nil {
					return err
				}
				continue
			}

			if dm.Returns() {
				summary.SetText("Delegate invoked by the object to get a value.")
				remarks.SetText("You assign a function, delegate or anonymous method to this property to return a value to the object.   If you assign a value to this property, it this will reset the value for the " + pair.Accessor + " property to an internal handler that maps delegates to events.")
			} else {
				summary.SetText("Event raised by the object.")
				remarks.SetText("If you assign a value to this event, this will reset the value for the " + pair.Accessor + " property to an internal handler that maps delegates to events.")
			}
		}
	}
	return nil
}
