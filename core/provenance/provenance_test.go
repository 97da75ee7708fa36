package provenance

import (
	"testing"

	"github.com/FocuswithJustin/docfixer/core/xml"
)

func mustFragment(t *testing.T, markup string) *xml.Node {
	t.Helper()
	n, err := xml.ParseFragment(markup)
	if err != nil {
		t.Fatalf("ParseFragment(%q) failed: %v", markup, err)
	}
	return n
}

// TestReplaceIdempotent verifies regenerating a marker never duplicates it.
func TestReplaceIdempotent(t *testing.T) {
	value := mustFragment(t, "<value>To be added.</value>")

	for i := 0; i < 3; i++ {
		if err := Replace(value, NullAllowed, `This value can be <see langword="null" />.`, true); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}
	}

	want := `<para>(More documentation for this node is coming)</para><para tool="nullallowed">This value can be <see langword="null" />.</para>`
	if got := value.InnerXML(); got != want {
		t.Errorf("InnerXML = %q, want %q", got, want)
	}
	if n := len(value.Find("para[@tool='nullallowed']")); n != 1 {
		t.Errorf("marker count = %d, want 1", n)
	}
}

// TestReplaceKeepsAuthoredContent verifies hand-written siblings survive.
func TestReplaceKeepsAuthoredContent(t *testing.T) {
	remarks := mustFragment(t, `<remarks><para>Authored.</para><para tool="threads">Old.</para></remarks>`)
	if err := Replace(remarks, Threads, "This can be used from a background thread.", true); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	want := `<para>Authored.</para><para tool="threads">This can be used from a background thread.</para>`
	if got := remarks.InnerXML(); got != want {
		t.Errorf("InnerXML = %q, want %q", got, want)
	}
}

// TestPrepareNaked verifies text wrapping rules.
func TestPrepareNaked(t *testing.T) {
	tests := []struct {
		name  string
		input string
		stub  bool
		want  string
	}{
		{"sentinel with stub", "<value>To be added.</value>", true, "<para>(More documentation for this node is coming)</para>"},
		{"sentinel without stub", "<param>To be added.</param>", false, "<para>To be added.</para>"},
		{"authored text", "<param>The view &amp; its frame.</param>", true, "<para>The view &amp; its frame.</para>"},
		{"already structured", "<remarks><para>x</para></remarks>", true, "<para>x</para>"},
		{"empty", "<remarks></remarks>", true, ""},
		{"blank", "<remarks>  \n </remarks>", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustFragment(t, tt.input)
			PrepareNaked(n, tt.stub)
			if got := n.InnerXML(); got != tt.want {
				t.Errorf("InnerXML = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestStripScopedToNode verifies only descendants of the node are removed.
func TestStripScopedToNode(t *testing.T) {
	doc, err := xml.Parse([]byte(`<Type>
  <A><remarks><para copied="true">a</para><para>keep</para><para generated="true">legacy</para></remarks></A>
  <B><remarks><para copied="true">b</para></remarks></B>
</Type>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	target := doc.FindOne("Type/A/remarks")
	if n := Strip(target, Copied, Generated); n != 2 {
		t.Errorf("Strip removed %d, want 2", n)
	}
	if got := target.InnerXML(); got != "<para>keep</para>" {
		t.Errorf("InnerXML = %q", got)
	}
	if doc.FindOne("Type/B/remarks/para[@copied='true']") == nil {
		t.Error("Strip reached outside the target node")
	}
}

func TestHas(t *testing.T) {
	returns := mustFragment(t, `<returns><para class="improve">x</para></returns>`)
	if !Has(returns, Improve, ImproveLegacy) {
		t.Error("Has should find the legacy improve marker")
	}
	if Has(returns, Improve) {
		t.Error("Has should not match a different class")
	}
	if Has(nil, Improve) {
		t.Error("Has(nil) should be false")
	}
}

func TestMarker(t *testing.T) {
	p, err := Para(Copied, "The <see cref=\"T:X\" /> thing.")
	if err != nil {
		t.Fatalf("Para failed: %v", err)
	}
	if !Copied.On(p) || Threads.On(p) {
		t.Error("marker detection mismatch")
	}
	if Copied.String() != `copied="true"` {
		t.Errorf("String() = %q", Copied.String())
	}
	plain, _ := Plain("x")
	Threads.Mark(plain)
	if !Threads.On(plain) {
		t.Error("Mark did not tag the node")
	}
}

func TestIsSentinel(t *testing.T) {
	if !IsSentinel(mustFragment(t, "<summary>To be added.</summary>")) {
		t.Error("sentinel not detected")
	}
	if !IsSentinel(mustFragment(t, "<summary>\n  To be added.\n</summary>")) {
		t.Error("surrounding whitespace should not hide the sentinel")
	}
	if IsSentinel(mustFragment(t, "<summary>To be added. Later.</summary>")) {
		t.Error("authored text is not the sentinel")
	}
	if IsSentinel(nil) {
		t.Error("nil is not the sentinel")
	}
}
