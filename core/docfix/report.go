package docfix

import (
	"fmt"
	"io"
	"sort"

	"github.com/FocuswithJustin/docfixer/core/docstore"
)

// Frequency counts occurrences by name.
type Frequency map[string]int

// Add counts one occurrence of name.
func (f Frequency) Add(name string) {
	f[name]++
}

// Count is one ranked entry of a Frequency.
type Count struct {
	Name  string
	Count int
}

// Ranked returns the entries by count descending, ties by name.
func (f Frequency) Ranked() []Count {
	out := make([]Count, 0, len(f))
	for name, n := range f {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Report summarizes a run.
type Report struct {
	// AsyncResultTypes ranks the result and delegate types async returns
	// were derived from.
	AsyncResultTypes []Count
	// HotSummaries ranks async methods whose synchronous summary was unauthored.
	HotSummaries []Count
	// NotificationUses lists, per event-args type, the notifications using it.
	NotificationUses map[string][]string
	// CrossReferences lists, per result-holder type, its originating methods.
	CrossReferences map[string][]string
	Saved           docstore.SaveStats
	Skipped         int
	Aborted         bool
}

func (r *run) report(stats docstore.SaveStats) *Report {
	return &Report{
		AsyncResultTypes: r.asyncResultTypes.Ranked(),
		HotSummaries:     r.hotSummaries.Ranked(),
		NotificationUses: r.notificationUses,
		CrossReferences:  r.resultTypeUses,
		Saved:            stats,
		Skipped:          r.skipped,
	}
}

// Write prints the two ranked frequency reports.
func (r *Report) Write(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Async Result Types"); err != nil {
		return err
	}
	for _, c := range r.AsyncResultTypes {
		if _, err := fmt.Fprintf(w, "   Async Result: %d %s\n", c.Count, c.Name); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "Hot summaries"); err != nil {
		return err
	}
	for _, c := range r.HotSummaries {
		if _, err := fmt.Fprintf(w, "   Hot Summary: %d %s\n", c.Count, c.Name); err != nil {
			return err
		}
	}
	return nil
}

// WriteNotificationUses prints the notifications observed per event-args
// type, sorted by type name.
func (r *Report) WriteNotificationUses(w io.Writer) error {
	names := make([]string, 0, len(r.NotificationUses))
	for name := range r.NotificationUses {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
			return err
		}
		for _, use := range r.NotificationUses[name] {
			if _, err := fmt.Fprintf(w, "   %s\n", use); err != nil {
				return err
			}
		}
	}
	return nil
}
