package docfix

import (
	"strings"

	"github.com/FocuswithJustin/docfixer/core/errors"
	"github.com/FocuswithJustin/docfixer/core/metadata"
	"github.com/FocuswithJustin/docfixer/core/provenance"
	"github.com/FocuswithJustin/docfixer/core/typeref"
	"github.com/FocuswithJustin/docfixer/core/xml"
	"github.com/FocuswithJustin/docfixer/internal/logging"
)

// applyAsync copies a synchronous method's documentation into its generated
// task-returning counterpart and derives the task's returns text.
func applyAsync(tc *typeCtx, m *metadata.Member, node *xml.Node) error {
	full := tc.typ.FullName()
	asyncName := m.AsyncName()
	target := tc.asyncNode(asyncName, node)
	if target == nil {
		return errors.NewStale(full, asyncName, "overload matching "+m.Name)
	}
	fullMethod := full + "." + asyncName

	summary, err := tc.required(node, m.Name, "Docs/summary")
	if err != nil {
		return err
	}
	tsummary, err := tc.required(target, asyncName, "Docs/summary")
	if err != nil {
		return err
	}
	hot := provenance.IsSentinel(summary)
	tsummary.ReplaceChildrenWith(summary)

	if err := copyRemarks(tc, node, target, m.Name, asyncName); err != nil {
		return err
	}
	if hot {
		tc.hotSummaries.Add(fullMethod)
	}

	if err := tc.asyncReturns(m, node, target, asyncName, fullMethod); err != nil {
		if herr := tc.handle("async", m, err); herr != nil {
			return herr
		}
	}

	for _, par := range target.Find("Docs/param") {
		name := par.Attr("name")
		src := node.FindOne("Docs/param[@name=" + xml.Literal(name) + "]")
		if src == nil {
			tc.skip("async", errors.NewNotFound("param", m.Name+"/"+name), "type", full, "member", asyncName)
			continue
		}
		par.ReplaceChildrenWith(src)
	}
	return nil
}

// asyncNode picks, among the members named asyncName, the first whose every
// parameter also appears on the synchronous node.
func (tc *typeCtx) asyncNode(asyncName string, sync *xml.Node) *xml.Node {
	for _, candidate := range tc.unit.Doc.Find("Type/Members/Member[@MemberName=" + xml.Literal(asyncName) + "]") {
		match := true
		for _, p := range candidate.Find("Parameters/Parameter") {
			expr := "Parameters/Parameter[@Type=" + xml.Literal(p.Attr("Type")) + " and @Name=" + xml.Literal(p.Attr("Name")) + "]"
			if sync.FindOne(expr) == nil {
				match = false
				break
			}
		}
		if match {
			return candidate
		}
	}
	return nil
}

// copyRemarks regenerates the copied part of the async remarks. Authored
// content already on the target is kept ahead of the copy.
func copyRemarks(tc *typeCtx, src, dst *xml.Node, name, asyncName string) error {
	sremarks, err := tc.required(src, name, "Docs/remarks")
	if err != nil {
		return err
	}
	tremarks, err := tc.required(dst, asyncName, "Docs/remarks")
	if err != nil {
		return err
	}

	provenance.Strip(tremarks, provenance.Copied, provenance.Generated)
	if provenance.IsSentinel(tremarks) {
		tremarks.Clear()
	}
	provenance.PrepareNaked(tremarks, false)

	intro, err := provenance.Para(provenance.Copied, "The "+provenance.Escape(asyncName)+" method is suitable to be used with C# async by returning control to the caller with a Task representing the operation.")
	if err != nil {
		return err
	}
	tremarks.Append(intro)

	if provenance.IsSentinel(sremarks) || sremarks.IsBlank() {
		return nil
	}
	if elementsOnly(sremarks) {
		for _, child := range sremarks.Children() {
			if ruleOwned(child) {
				continue
			}
			c := child.Clone()
			provenance.Copied.Mark(c)
			tremarks.Append(c)
		}
		return nil
	}
	para, err := provenance.Para(provenance.Copied, "")
	if err != nil {
		return err
	}
	for _, n := range sremarks.Nodes() {
		if ruleOwned(n) {
			continue
		}
		para.Append(n.Clone())
	}
	tremarks.Append(para)
	return nil
}

// ruleOwned reports whether n is a fragment the target's own rules write,
// or the stub paragraph left in front of one. Copying it would duplicate
// the target's marker.
func ruleOwned(n *xml.Node) bool {
	if !n.IsElement() {
		return false
	}
	if provenance.Threads.On(n) || provenance.NullAllowed.On(n) {
		return true
	}
	return n.Name() == "para" && !n.HasElements() && strings.TrimSpace(n.Text()) == provenance.Stub
}

// elementsOnly reports whether n holds elements and no text besides
// whitespace between them.
func elementsOnly(n *xml.Node) bool {
	if !n.HasElements() {
		return false
	}
	for _, c := range n.Nodes() {
		if !c.IsElement() && strings.TrimSpace(c.Text()) != "" {
			return false
		}
	}
	return true
}

// asyncReturns derives the returns text of the async node. Authored returns
// are left alone; the returns node is only replaced once the new text was
// derived.
func (tc *typeCtx) asyncReturns(m *metadata.Member, src, dst *xml.Node, asyncName, fullMethod string) error {
	retNode, err := tc.required(dst, asyncName, "ReturnValue/ReturnType")
	if err != nil {
		return err
	}
	returns, err := tc.required(dst, asyncName, "Docs/returns")
	if err != nil {
		return err
	}

	ret := strings.TrimSpace(retNode.Text())
	if ret == typeref.Task {
		returns.SetText("A task that represents the asynchronous " + m.Name + " operation")
		return nil
	}
	if !provenance.IsSentinel(returns) && !provenance.Has(returns, provenance.Improve, provenance.ImproveLegacy) {
		return nil
	}

	last, err := tc.required(src, m.Name, "Parameters/Parameter[last()]")
	if err != nil {
		return err
	}
	lastType := last.Attr("Type")
	prefix := "A task that represents the asynchronous " + provenance.Escape(m.Name) + " operation."

	var text string
	ref, perr := tc.types.Parse(lastType)
	switch {
	case perr == nil && ref.IsGeneric(typeref.Action):
		logging.Improvement(tc.ctx, "document the Task<T> result type", "method", fullMethod)
		text = prefix + "  The value of the TResult parameter is of type " + provenance.Escape(ref.ArgList()) + "."

	case m.Async.ResultTypeName != "":
		text, err = tc.documentResultType(ret, prefix, fullMethod)
		if err != nil {
			return err
		}

	default:
		if _, err := tc.store.Lookup(lastType); err != nil {
			return &errors.MissingCrossReferenceError{Type: lastType, Referrer: fullMethod, Err: err}
		}
		text = prefix + "   The value of the TResult parameter is a " + provenance.Escape(lastType) + "."
	}

	para, err := provenance.Para(provenance.Improve, text)
	if err != nil {
		return errors.NewMalformed(tc.typ.FullName(), asyncName, "Docs/returns", err.Error())
	}
	returns.Clear()
	returns.Append(para)
	tc.asyncResultTypes.Add(lastType)
	return nil
}

// documentResultType rewrites the unit of a generated result-holder type so
// its remarks list every async method seen so far in this run, saves it, and
// returns the returns text for the current method.
func (tc *typeCtx) documentResultType(ret, prefix, fullMethod string) (string, error) {
	name := tc.types.Unwrap(ret, typeref.Task)
	unit, err := tc.store.Lookup(name)
	if err != nil {
		return "", &errors.MissingCrossReferenceError{Type: name, Referrer: fullMethod, Err: err}
	}
	summary := unit.Doc.FindOne("Type/Docs/summary")
	remarks := unit.Doc.FindOne("Type/Docs/remarks")
	if summary == nil || remarks == nil {
		return "", errors.NewMalformed(name, "", "Type/Docs", "summary or remarks missing")
	}
	if provenance.IsSentinel(summary) {
		logging.Improvement(tc.ctx, "document the result type summary", "type", name, "method", fullMethod)
	}
	text := prefix + "   The value of the TResult parameter is of type " + provenance.Escape(name) + ".  " + provenance.Escape(strings.TrimSpace(summary.Text()))

	uses := append(tc.resultTypeUses[name], fullMethod)
	tc.resultTypeUses[name] = uses

	refs := make([]string, len(uses))
	for i, u := range uses {
		refs[i] = `<see cref="M:` + provenance.Escape(u) + `" />`
	}
	sep := " "
	if len(uses) > 1 {
		sep = "s "
	}
	para, err := provenance.Plain("This class holds the return values from the asynchronous method" + sep + strings.Join(refs, ", ") + ".")
	if err != nil {
		return "", errors.NewMalformed(name, "", "Type/Docs/remarks", err.Error())
	}
	remarks.Clear()
	remarks.Append(para)

	if ctor := unit.Doc.FindOne("Type/Members/Member[@MemberName='.ctor']"); ctor != nil {
		if s := ctor.FindOne("Docs/summary"); s != nil {
			s.SetText("Constructs an instance of " + name)
		}
		if r := ctor.FindOne("Docs/remarks"); r != nil {
			r.Clear()
		}
		for _, p := range ctor.Find("Docs/param") {
			p.SetText("Result value from the async operation")
		}
	}

	if _, err := tc.store.Save(tc.ctx, unit); err != nil {
		return "", err
	}
	return text, nil
}
