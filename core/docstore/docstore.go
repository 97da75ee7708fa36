// Package docstore loads, caches and writes back per-type documentation
// units laid out by mdoc as {root}/{namespace}/{type}.xml.
//
// Units obtained with Get are cached for the lifetime of the Store and
// written once by SaveAll. Companion and Lookup units are loaded fresh and
// written immediately with Save. In a dry run they are instead kept by path
// and diffed once by SaveAll, so repeated edits show up as a single diff.
package docstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/docfixer/core/errors"
	"github.com/FocuswithJustin/docfixer/core/xml"
	"github.com/FocuswithJustin/docfixer/internal/archive"
	"github.com/FocuswithJustin/docfixer/internal/logging"
	"github.com/FocuswithJustin/docfixer/internal/validation"
	"github.com/zeebo/blake3"
)

// CompanionSuffix names the unit of a type's generated Notifications class.
const CompanionSuffix = "+Notifications"

// DefaultAliases maps binding type names to the names their units were
// published under. They apply only in the {Platform}.Foundation namespace.
var DefaultAliases = map[string]string{
	"NSString2": "NSString",
	"NSObject2": "NSObject",
}

// Options configures a Store.
type Options struct {
	// Root is the locale directory holding one subdirectory per namespace.
	Root string
	// Platform prefixes the Foundation namespace that aliases apply to.
	Platform string
	// Aliases overrides DefaultAliases when non-nil.
	Aliases map[string]string
	// Indent is the indentation written by the formatter.
	Indent string
	// DryRun writes unified diffs to Diff instead of touching files.
	DryRun bool
	Diff   io.Writer
	// Backup, when set, is a .tar.xz or .tar.gz archive that receives the
	// original bytes of every unit before it is first overwritten.
	Backup string
}

// Unit is one loaded documentation unit.
type Unit struct {
	// Type is the full name the unit was requested under.
	Type string
	Path string
	Doc  *xml.Document

	original []byte
	digest   [32]byte
}

// Root returns the unit's root element.
func (u *Unit) Root() *xml.Node {
	return u.Doc.Root()
}

// SaveStats counts the outcome of a batch save.
type SaveStats struct {
	Written   int
	Unchanged int
	Failed    int
}

// Store is the run-scoped unit cache.
type Store struct {
	opts    Options
	aliases map[string]string
	cache   map[string]*Unit
	order   []*Unit
	backup  *archive.Writer

	// detached holds dry-run Companion and Lookup units by path.
	detached map[string]*Unit
}

// New creates a Store.
func New(opts Options) *Store {
	aliases := opts.Aliases
	if aliases == nil {
		aliases = DefaultAliases
	}
	if opts.Indent == "" {
		opts.Indent = xml.DefaultIndent
	}
	if opts.Diff == nil {
		opts.Diff = io.Discard
	}
	return &Store{
		opts:    opts,
		aliases: aliases,
		cache:    make(map[string]*Unit),
		detached: make(map[string]*Unit),
	}
}

// Path returns the unit path for a type. The legacy aliases are applied in
// the platform's Foundation namespace.
func (s *Store) Path(namespace, name string, companion bool) (string, error) {
	if namespace == s.opts.Platform+".Foundation" {
		if alias, ok := s.aliases[name]; ok {
			name = alias
		}
	}
	return s.path(namespace, name, companion)
}

func (s *Store) path(namespace, name string, companion bool) (string, error) {
	file := name
	if companion {
		file += CompanionSuffix
	}
	file += ".xml"

	if err := validation.ValidateFilename(namespace); err != nil {
		return "", errors.NewValidation("namespace", err.Error())
	}
	if err := validation.ValidateFilename(file); err != nil {
		return "", errors.NewValidation("type", err.Error())
	}
	rel, err := validation.SanitizePath(s.opts.Root, filepath.Join(namespace, file))
	if err != nil {
		return "", errors.NewValidation("type", err.Error())
	}
	return filepath.Join(s.opts.Root, rel), nil
}

// Get returns the cached unit for a type, loading it on first use. A missing
// file yields a MissingDocumentationError; the caller skips the type.
func (s *Store) Get(namespace, name string) (*Unit, error) {
	full := fullName(namespace, name)
	if u, ok := s.cache[full]; ok {
		return u, nil
	}
	path, err := s.Path(namespace, name, false)
	if err != nil {
		return nil, err
	}
	if u, ok := s.detached[path]; ok {
		s.cache[full] = u
		return u, nil
	}
	u, err := load(full, path)
	if err != nil {
		return nil, err
	}
	s.cache[full] = u
	s.order = append(s.order, u)
	return u, nil
}

// Companion loads a type's Notifications companion unit. It is only kept
// across calls in a dry run.
func (s *Store) Companion(namespace, name string) (*Unit, error) {
	path, err := s.Path(namespace, name, true)
	if err != nil {
		return nil, err
	}
	return s.loadDetached(fullName(namespace, name)+CompanionSuffix, path)
}

// Lookup loads the unit of an arbitrary type by full name. If Get already
// cached that type, the cached unit is returned.
func (s *Store) Lookup(full string) (*Unit, error) {
	if u, ok := s.cache[full]; ok {
		return u, nil
	}
	idx := strings.LastIndex(full, ".")
	if idx <= 0 || idx == len(full)-1 {
		return nil, errors.NewValidation("type", "not a qualified type name: "+full)
	}
	path, err := s.path(full[:idx], full[idx+1:], false)
	if err != nil {
		return nil, err
	}
	return s.loadDetached(full, path)
}

// loadDetached loads a unit that the caller saves itself.
func (s *Store) loadDetached(full, path string) (*Unit, error) {
	if !s.opts.DryRun {
		return load(full, path)
	}
	if u, ok := s.detached[path]; ok {
		return u, nil
	}
	u, err := load(full, path)
	if err != nil {
		return nil, err
	}
	s.detached[path] = u
	s.order = append(s.order, u)
	return u, nil
}

// Cached returns the number of units held for the batch save.
func (s *Store) Cached() int {
	return len(s.cache)
}

// Save writes one unit immediately. It reports whether the file changed.
// In a dry run the diff of a Companion or Lookup unit is left to SaveAll.
func (s *Store) Save(ctx context.Context, u *Unit) (bool, error) {
	if s.opts.DryRun && s.detached[u.Path] == u {
		data := u.Doc.Format(xml.FormatOptions{Indent: s.opts.Indent})
		return blake3.Sum256(data) != u.digest, nil
	}
	return s.write(ctx, u)
}

func (s *Store) write(ctx context.Context, u *Unit) (bool, error) {
	data := u.Doc.Format(xml.FormatOptions{Indent: s.opts.Indent})
	digest := blake3.Sum256(data)
	if digest == u.digest {
		return false, nil
	}

	if s.opts.DryRun {
		if err := s.diff(u, data); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := s.backupUnit(u); err != nil {
		return false, err
	}
	if err := os.WriteFile(u.Path, data, 0644); err != nil {
		return false, errors.NewIO("write", u.Path, err)
	}
	u.original = data
	u.digest = digest
	logging.Saved(ctx, u.Path, "type", u.Type)
	return true, nil
}

// SaveAll writes every cached unit once, in load order. A failed unit does
// not stop the others; the failures are returned joined.
func (s *Store) SaveAll(ctx context.Context) (SaveStats, error) {
	var stats SaveStats
	var errs []error
	for _, u := range s.order {
		changed, err := s.write(ctx, u)
		switch {
		case err != nil:
			stats.Failed++
			errs = append(errs, err)
		case changed:
			stats.Written++
		default:
			stats.Unchanged++
		}
	}
	return stats, errors.Join(errs...)
}

// Close finalizes the backup archive, if one was started.
func (s *Store) Close() error {
	if s.backup == nil {
		return nil
	}
	err := s.backup.Close()
	s.backup = nil
	return err
}

func (s *Store) backupUnit(u *Unit) error {
	if s.opts.Backup == "" {
		return nil
	}
	if s.backup == nil {
		w, err := archive.NewWriter(s.opts.Backup)
		if err != nil {
			return errors.NewIO("create", s.opts.Backup, err)
		}
		s.backup = w
	}
	return s.backup.Add(s.archiveName(u.Path), u.original)
}

// archiveName is the unit path relative to the parent of Root, so entries
// read as en/{namespace}/{type}.xml.
func (s *Store) archiveName(path string) string {
	base := filepath.Dir(filepath.Clean(s.opts.Root))
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.Base(path)
	}
	return rel
}

func load(full, path string) (*Unit, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.MissingDocumentationError{Type: full, Path: path}
		}
		return nil, errors.NewIO("stat", path, err)
	}
	if err := validation.ValidateFileSize(info.Size()); err != nil {
		return nil, errors.NewParse("XML", path, err.Error())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, errors.NewParse("XML", path, err.Error())
	}
	if doc.Root() == nil {
		return nil, errors.NewParse("XML", path, "no root element")
	}
	return &Unit{
		Type:     full,
		Path:     path,
		Doc:      doc,
		original: data,
		digest:   blake3.Sum256(data),
	}, nil
}

func fullName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
