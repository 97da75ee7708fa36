package docstore

import (
	"path/filepath"

	"github.com/FocuswithJustin/docfixer/core/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// diff writes a unified diff between the unit's on-disk bytes and data.
func (s *Store) diff(u *Unit, data []byte) error {
	name := filepath.ToSlash(s.archiveName(u.Path))
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(u.original)),
		B:        difflib.SplitLines(string(data)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
	if err != nil {
		return errors.Wrapf(err, "diffing %s", u.Path)
	}
	if _, err := s.opts.Diff.Write([]byte(text)); err != nil {
		return errors.NewIO("write", "diff", err)
	}
	return nil
}
