package platformdoc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/docfixer/core/errors"
)

func buildIndex(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "appledocs.db")
	ix, err := Create(ctx, path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer ix.Close()

	entries := []struct{ typ, symbol, body string }{
		{"UIKeyboard", "UIKeyboardWillShowNotification", `<para>Posted immediately prior to the display of the keyboard.</para><para>The notification object is nil.</para>`},
		{"MonoTouch.Foo.Client", "ClientDidConnectNotification", `<para>Full name entry.</para>`},
	}
	for _, e := range entries {
		if err := ix.Put(ctx, e.typ, e.symbol, e.body); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	return path
}

// TestMemberDoc verifies lookups by full and short type name.
func TestMemberDoc(t *testing.T) {
	ix, err := Open(buildIndex(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer ix.Close()
	ctx := context.Background()

	body, err := ix.MemberDoc(ctx, "MonoTouch.UIKit.UIKeyboard", "UIKeyboardWillShowNotification")
	if err != nil {
		t.Fatalf("MemberDoc failed: %v", err)
	}
	if body != `<para>Posted immediately prior to the display of the keyboard.</para><para>The notification object is nil.</para>` {
		t.Errorf("body = %q", body)
	}

	body, err = ix.MemberDoc(ctx, "MonoTouch.Foo.Client", "ClientDidConnectNotification")
	if err != nil || body != "<para>Full name entry.</para>" {
		t.Errorf("full-name lookup = %q, %v", body, err)
	}

	_, err = ix.MemberDoc(ctx, "MonoTouch.UIKit.UIKeyboard", "Missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing symbol = %v, want ErrNotFound", err)
	}
}

func TestOpenRejectsNonDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.db")
	if err := os.WriteFile(path, []byte("not sqlite"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("Open should reject files that are not SQLite databases")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("Open should fail for a missing file")
	}
}

// TestSplit verifies first-block and remainder separation.
func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		markup    string
		wantFirst string
		wantRest  []string
	}{
		{
			name:      "paragraphs",
			markup:    `<para>First <see cref="T:A" />.</para> <para>Second.</para><example><code>x</code></example>`,
			wantFirst: `<para>First <see cref="T:A" />.</para>`,
			wantRest:  []string{"<para>Second.</para>", "<example><code>x</code></example>"},
		},
		{
			name:      "bare text",
			markup:    "  Just text.  ",
			wantFirst: "<para>Just text.</para>",
		},
		{
			name:      "single block",
			markup:    "<para>Only.</para>",
			wantFirst: "<para>Only.</para>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, rest, err := Split(tt.markup)
			if err != nil {
				t.Fatalf("Split failed: %v", err)
			}
			if got := first.OuterXML(); got != tt.wantFirst {
				t.Errorf("first = %q, want %q", got, tt.wantFirst)
			}
			if len(rest) != len(tt.wantRest) {
				t.Fatalf("rest = %d blocks, want %d", len(rest), len(tt.wantRest))
			}
			for i, r := range rest {
				if got := r.OuterXML(); got != tt.wantRest[i] {
					t.Errorf("rest[%d] = %q, want %q", i, got, tt.wantRest[i])
				}
			}
		})
	}

	for _, bad := range []string{"", "   ", "<para>"} {
		if _, _, err := Split(bad); err == nil {
			t.Errorf("Split(%q) should fail", bad)
		}
	}
}
