package docfix

import (
	"strings"

	"github.com/FocuswithJustin/docfixer/core/errors"
	"github.com/FocuswithJustin/docfixer/core/metadata"
	"github.com/FocuswithJustin/docfixer/core/provenance"
	"github.com/FocuswithJustin/docfixer/core/xml"
)

const (
	nullValueText = `This value can be <see langword="null" />.`
	nullParamText = `This parameter can be <see langword="null" />.`

	// weakPrefix names the untyped backing property of a strongly typed
	// wrapper, e.g. WeakDelegate behind Delegate.
	weakPrefix = "Weak"
)

// applyNullableProperty marks a property's value as nullable. The strongly
// typed wrapper of a Weak property is annotated the same way.
func applyNullableProperty(tc *typeCtx, m *metadata.Member, node *xml.Node) error {
	if err := annotateNullValue(tc, m.Name, node); err != nil {
		return err
	}

	if !strings.HasPrefix(m.Name, weakPrefix) || len(m.Name) == len(weakPrefix) {
		return nil
	}
	name := strings.TrimPrefix(m.Name, weakPrefix)
	sibling := tc.typ.Property(name)
	if sibling == nil || sibling.Wrap == "" {
		tc.skip("nullallowed", errors.NewNotFound("wrapper property", tc.typ.FullName()+"."+name), "type", tc.typ.FullName(), "member", m.Name)
		return nil
	}
	sibNode := tc.memberNode(sibling.Name)
	if sibNode == nil {
		return tc.handle("nullallowed", sibling, errors.NewStale(tc.typ.FullName(), sibling.Name, ""))
	}
	return annotateNullValue(tc, sibling.Name, sibNode)
}

func annotateNullValue(tc *typeCtx, member string, node *xml.Node) error {
	value, err := tc.required(node, member, "Docs/value")
	if err != nil {
		return err
	}
	return provenance.Replace(value, provenance.NullAllowed, nullValueText, true)
}

// applyNullableParams marks every nullable parameter of a method.
func applyNullableParams(tc *typeCtx, m *metadata.Member, node *xml.Node) error {
	for _, p := range m.Parameters {
		if !p.NullAllowed {
			continue
		}
		expr := "Docs/param[@name=" + xml.Literal(p.Name) + "]"
		par := node.FindOne(expr)
		if par == nil {
			if err := tc.handle("nullallowed", m, errors.NewStale(tc.typ.FullName(), m.Name, expr)); err != nil {
				return err
			}
			continue
		}
		if err := provenance.Replace(par, provenance.NullAllowed, nullParamText, false); err != nil {
			return err
		}
	}
	return nil
}
