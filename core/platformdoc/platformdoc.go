// Package platformdoc supplies reference documentation for native symbols
// from a prebuilt SQLite index, for merging into constant and notification
// documentation.
package platformdoc

import (
	"context"
	"database/sql"
	"strings"

	"github.com/FocuswithJustin/docfixer/core/errors"
	"github.com/FocuswithJustin/docfixer/core/sqlite"
	"github.com/FocuswithJustin/docfixer/core/xml"
	"github.com/FocuswithJustin/docfixer/internal/validation"
)

// Source fetches and splits platform documentation.
type Source interface {
	// MemberDoc returns block-level markup documenting symbol on a type.
	MemberDoc(ctx context.Context, typeFullName, symbol string) (string, error)
	// Split separates markup into its first block and the remaining blocks.
	Split(markup string) (first *xml.Node, rest []*xml.Node, err error)
}

// Schema creates the member_docs table.
const Schema = `CREATE TABLE IF NOT EXISTS member_docs (
	type_name TEXT NOT NULL,
	symbol    TEXT NOT NULL,
	body      TEXT NOT NULL,
	PRIMARY KEY (type_name, symbol)
)`

// Index is a Source backed by a SQLite database.
type Index struct {
	db *sql.DB
}

// Open opens an existing index read-only.
func Open(path string) (*Index, error) {
	if err := validation.RequireFileType(path, validation.FileTypeSQLite); err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	return &Index{db: db}, nil
}

// Create opens or creates a writable index and ensures the schema exists.
func Create(ctx context.Context, path string) (*Index, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, errors.NewIO("create schema", path, err)
	}
	return &Index{db: db}, nil
}

// Close closes the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Put stores or replaces the documentation of one symbol.
func (ix *Index) Put(ctx context.Context, typeName, symbol, body string) error {
	_, err := ix.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO member_docs (type_name, symbol, body) VALUES (?, ?, ?)`,
		typeName, symbol, body)
	if err != nil {
		return errors.Wrapf(err, "storing %s.%s", typeName, symbol)
	}
	return nil
}

// MemberDoc looks up symbol under the type's full name, then under its short
// name, since native reference docs are usually keyed by class name alone.
func (ix *Index) MemberDoc(ctx context.Context, typeFullName, symbol string) (string, error) {
	names := []string{typeFullName}
	if idx := strings.LastIndex(typeFullName, "."); idx >= 0 {
		names = append(names, typeFullName[idx+1:])
	}

	for _, name := range names {
		var body string
		err := ix.db.QueryRowContext(ctx,
			`SELECT body FROM member_docs WHERE type_name = ? AND symbol = ?`,
			name, symbol).Scan(&body)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return "", errors.Wrapf(err, "querying %s.%s", name, symbol)
		}
		return body, nil
	}
	return "", errors.NewNotFound("platform doc", typeFullName+"."+symbol)
}

// Split separates markup into its first block and the rest. Bare text is
// returned as a single paragraph.
func (ix *Index) Split(markup string) (*xml.Node, []*xml.Node, error) {
	return Split(markup)
}

// Split is the markup splitter used by Index.
func Split(markup string) (*xml.Node, []*xml.Node, error) {
	section, err := xml.ParseFragment("<section>" + markup + "</section>")
	if err != nil {
		return nil, nil, errors.NewParse("platform doc", "", err.Error())
	}

	var blocks []*xml.Node
	for _, n := range section.Nodes() {
		switch {
		case n.IsElement():
			blocks = append(blocks, n)
		case strings.TrimSpace(n.Text()) != "":
			para, _ := xml.ParseFragment("<para />")
			para.SetText(strings.TrimSpace(n.Text()))
			blocks = append(blocks, para)
		}
	}
	if len(blocks) == 0 {
		return nil, nil, errors.NewParse("platform doc", "", "no content")
	}
	for _, b := range blocks {
		b.Remove()
	}
	return blocks[0], blocks[1:], nil
}
