// Package docfix synchronizes per-type documentation units with binding
// metadata. One Engine.Run makes a single pass over the model in declaration
// order, applying every rule whose capabilities match a member, and then
// writes back all cached units.
//
// Rules only fill placeholders and regenerate fragments they own (see
// package provenance). Every failure is a per-item skip except a missing
// Notifications companion unit, which aborts the run.
package docfix

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/docfixer/core/docstore"
	"github.com/FocuswithJustin/docfixer/core/errors"
	"github.com/FocuswithJustin/docfixer/core/metadata"
	"github.com/FocuswithJustin/docfixer/core/platformdoc"
	"github.com/FocuswithJustin/docfixer/core/typeref"
	"github.com/FocuswithJustin/docfixer/core/xml"
	"github.com/FocuswithJustin/docfixer/internal/logging"
)

// DefaultPlatform is the namespace prefix of the binding layer.
const DefaultPlatform = "MonoTouch"

// typeRefMemo bounds the type references remembered by one run.
const typeRefMemo = 1024

// Store is the document store used by a run.
type Store interface {
	Get(namespace, name string) (*docstore.Unit, error)
	Companion(namespace, name string) (*docstore.Unit, error)
	Lookup(fullName string) (*docstore.Unit, error)
	Save(ctx context.Context, u *docstore.Unit) (bool, error)
	SaveAll(ctx context.Context) (docstore.SaveStats, error)
}

// Options configures an Engine.
type Options struct {
	// Only restricts the run to the type with this full name.
	Only string
	// Merge enables merging platform documentation into notification
	// constants. Nil disables it.
	Merge platformdoc.Source
	// Platform is the binding namespace prefix, e.g. "MonoTouch".
	Platform string
	// Verbose enables per-type tracing.
	Verbose bool
	// Out receives the saving banner and the reports. Defaults to io.Discard.
	Out io.Writer
}

// Engine applies the synchronization rules.
type Engine struct {
	model metadata.Model
	store Store
	opts  Options
}

// New creates an Engine.
func New(model metadata.Model, store Store, opts Options) *Engine {
	if opts.Platform == "" {
		opts.Platform = DefaultPlatform
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Engine{model: model, store: store, opts: opts}
}

// Run makes one synchronization pass and saves every cached unit. The
// returned report is complete even when the run was aborted; the error is
// then the structural violation that stopped it.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	r := newRun(ctx, e)

	var runErr error
	for _, t := range e.model.Types() {
		if e.opts.Only != "" && t.FullName() != e.opts.Only {
			continue
		}
		if err := r.processType(t); err != nil {
			if errors.Fatal(err) {
				logging.ErrorContext(ctx, "aborting run", "type", t.FullName(), "error", err.Error())
				runErr = err
				break
			}
			r.skip("type", err, "type", t.FullName())
		}
	}

	fmt.Fprintln(e.opts.Out, "saving")
	stats, err := e.store.SaveAll(ctx)
	if err != nil && runErr == nil {
		runErr = err
	}

	report := r.report(stats)
	report.Aborted = errors.Fatal(runErr)
	if err := report.Write(e.opts.Out); err != nil {
		logging.WarnContext(ctx, "writing report", "error", err.Error())
	}
	if e.opts.Verbose {
		if err := report.WriteNotificationUses(e.opts.Out); err != nil {
			logging.WarnContext(ctx, "writing report", "error", err.Error())
		}
	}
	return report, runErr
}

// run holds the state owned by one synchronization pass.
type run struct {
	ctx   context.Context
	model metadata.Model
	store Store
	opts  Options
	types *typeref.Parser

	warned           map[string]bool
	resultTypeUses   map[string][]string
	notificationUses map[string][]string
	asyncResultTypes Frequency
	hotSummaries     Frequency
	skipped          int
}

func newRun(ctx context.Context, e *Engine) *run {
	return &run{
		ctx:              ctx,
		model:            e.model,
		store:            e.store,
		opts:             e.opts,
		types:            typeref.NewParser(typeRefMemo),
		warned:           make(map[string]bool),
		resultTypeUses:   make(map[string][]string),
		notificationUses: make(map[string][]string),
		asyncResultTypes: make(Frequency),
		hotSummaries:     make(Frequency),
	}
}

// skip logs a recoverable condition.
func (r *run) skip(rule string, err error, args ...any) {
	r.skipped++
	logging.Skip(r.ctx, rule, err, args...)
}

// typeCtx is the run state bound to one type and its unit.
type typeCtx struct {
	*run
	typ  *metadata.Type
	unit *docstore.Unit
}

// handle classifies a rule error. Structural violations are returned; stale
// documentation is reported once per type; everything else is logged.
func (tc *typeCtx) handle(rule string, m *metadata.Member, err error) error {
	if err == nil {
		return nil
	}
	if errors.Fatal(err) {
		return err
	}
	if errors.Is(err, errors.ErrStaleDocumentation) {
		if tc.warned[tc.typ.FullName()] {
			tc.skipped++
			return nil
		}
		tc.warned[tc.typ.FullName()] = true
	}
	args := []any{"type", tc.typ.FullName()}
	if m != nil {
		args = append(args, "member", m.Name)
	}
	tc.skip(rule, err, args...)
	return nil
}

func (r *run) processType(t *metadata.Type) error {
	if r.opts.Verbose {
		logging.TypeTrace(r.ctx, t.FullName())
	}
	unit, err := r.store.Get(t.Namespace, t.Name)
	if err != nil {
		return err
	}
	tc := &typeCtx{run: r, typ: t, unit: unit}

	if t.ThreadSafe {
		if err := tc.handle("threadsafe", nil, annotateThreadSafeType(tc)); err != nil {
			return err
		}
	}

	for _, p := range t.Properties {
		if err := tc.dispatch(p, tc.memberNode(p.Name), propertyRules); err != nil {
			return err
		}
	}

	for _, m := range t.Methods {
		if m.Internal || m.Export == nil {
			continue
		}
		node := tc.exportNode(m.Export.Selector)
		if node == nil {
			tc.skip("export", errors.NewNotFound("selector", m.Export.Selector), "type", t.FullName(), "member", m.Name)
			continue
		}
		if err := tc.dispatch(m, node, methodRules); err != nil {
			return err
		}
	}

	if t.BaseType != nil && len(t.BaseType.Events) > 0 {
		if err := tc.handle("events", nil, populateEvents(tc)); err != nil {
			return err
		}
	}
	return nil
}

// dispatch runs every rule of table matching the member's capabilities.
func (tc *typeCtx) dispatch(m *metadata.Member, node *xml.Node, table []rule) error {
	caps := m.Capabilities()
	if caps.Has(metadata.CapInternal) {
		return nil
	}
	for _, rl := range table {
		if !rl.matches(caps) {
			continue
		}
		if node == nil {
			return tc.handle(rl.name, m, errors.NewStale(tc.typ.FullName(), m.Name, ""))
		}
		if err := tc.handle(rl.name, m, rl.apply(tc, m, node)); err != nil {
			return err
		}
	}
	return nil
}

// memberNode finds a member by name, or nil.
func (tc *typeCtx) memberNode(name string) *xml.Node {
	return tc.unit.Doc.FindOne("Type/Members/Member[@MemberName=" + xml.Literal(name) + "]")
}

// exportNode finds the member bound to a native selector, or nil.
func (tc *typeCtx) exportNode(selector string) *xml.Node {
	needle := `Export("` + selector + `"`
	for _, m := range tc.unit.Doc.Find("Type/Members/Member") {
		for _, a := range m.Find("Attributes/Attribute/AttributeName") {
			if strings.Contains(a.Text(), needle) {
				return m
			}
		}
	}
	return nil
}

// foundation returns the platform's Foundation namespace.
func (r *run) foundation() string {
	return r.opts.Platform + ".Foundation"
}

// required returns the node at expr under n or a MalformedContentError.
func (tc *typeCtx) required(n *xml.Node, member, expr string) (*xml.Node, error) {
	found := n.FindOne(expr)
	if found == nil {
		return nil, errors.NewMalformed(tc.typ.FullName(), member, expr, "node missing")
	}
	return found, nil
}
