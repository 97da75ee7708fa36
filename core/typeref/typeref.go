// Package typeref parses the CLR-style type references found in mdoc
// documentation units, such as "System.Action<Foundation.NSError>" or
// "System.Threading.Tasks.Task<UIKit.UIImage[]>".
package typeref

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/docfixer/core/cache"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Well-known wrapper types.
const (
	Void         = "System.Void"
	Task         = "System.Threading.Tasks.Task"
	Action       = "System.Action"
	EventHandler = "System.EventHandler"
)

// Ref is a parsed type reference.
type Ref struct {
	Name   string `@Ident ( @( "." | "+" ) @Ident )*`
	Args   []*Ref `( "<" @@ ( "," @@ )* ">" )?`
	Suffix string `( @"[" @"]" | @"&" | @"*" )*`
}

var typeRefLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: "[A-Za-z_][A-Za-z0-9_`]*"},
	{Name: "Punct", Pattern: `[<>,.+\[\]&*]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var typeRefParser = participle.MustBuild[Ref](
	participle.Lexer(typeRefLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a type reference.
func Parse(input string) (*Ref, error) {
	input = strings.TrimSpace(input)
	ref, err := typeRefParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("failed to parse type reference %q: %w", input, err)
	}
	return ref, nil
}

// Parser memoizes Parse. Refs it returns are shared between callers and
// must not be modified.
type Parser struct {
	memo *cache.LRU[string, *Ref]
}

// NewParser creates a Parser remembering up to size references.
func NewParser(size int) *Parser {
	return &Parser{memo: cache.NewLRU[string, *Ref](cache.Config{MaxSize: size})}
}

// Parse parses input, reusing an earlier result for the same text.
func (p *Parser) Parse(input string) (*Ref, error) {
	input = strings.TrimSpace(input)
	return p.memo.GetOrLoad(input, func() (*Ref, error) {
		return Parse(input)
	})
}

// Unwrap is the memoized form of the package-level Unwrap.
func (p *Parser) Unwrap(input, wrapper string) string {
	ref, err := p.Parse(input)
	if err != nil {
		return input
	}
	return ref.Unwrap(wrapper)
}

// Stats reports memo hits and misses.
func (p *Parser) Stats() cache.Stats {
	return p.memo.Stats()
}

// String renders the reference in canonical form, without spaces.
func (r *Ref) String() string {
	var sb strings.Builder
	r.write(&sb)
	return sb.String()
}

func (r *Ref) write(sb *strings.Builder) {
	sb.WriteString(r.Name)
	if len(r.Args) > 0 {
		sb.WriteString("<")
		sb.WriteString(r.ArgList())
		sb.WriteString(">")
	}
	sb.WriteString(r.Suffix)
}

// ArgList renders the generic arguments joined by commas.
func (r *Ref) ArgList() string {
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = a.String()
	}
	return strings.Join(args, ",")
}

// IsGeneric reports whether r is an instantiation of the generic type name.
func (r *Ref) IsGeneric(name string) bool {
	return r.Name == name && len(r.Args) > 0 && r.Suffix == ""
}

// Unwrap returns the generic arguments of r when r instantiates wrapper, and
// the reference itself otherwise.
func (r *Ref) Unwrap(wrapper string) string {
	if r.IsGeneric(wrapper) {
		return r.ArgList()
	}
	return r.String()
}

// TrimNamespace removes ns and the following dot from the start of name.
func TrimNamespace(name, ns string) string {
	return strings.TrimPrefix(name, ns+".")
}

// Unwrap parses input and strips the wrapper generic, returning input
// unchanged when it cannot be parsed.
func Unwrap(input, wrapper string) string {
	ref, err := Parse(input)
	if err != nil {
		return input
	}
	return ref.Unwrap(wrapper)
}
