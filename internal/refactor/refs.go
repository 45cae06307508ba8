package refactor

import (
	"os"
	"path/filepath"

	"github.com/phobologic/modgen/internal/discover"
	"github.com/phobologic/modgen/internal/model"
	"github.com/phobologic/modgen/internal/qname"
)

// FindReferences lists every token-boundary occurrence of the qualified name
// in the source files of the project at root, ordered by file then position.
func FindReferences(root, name string) ([]model.Reference, error) {
	const op = "find references"
	n, err := parseName(op, name)
	if err != nil {
		return nil, err
	}
	files, err := discover.Files(root, nil)
	if err != nil {
		return nil, ioError(op, root, err)
	}

	var refs []model.Reference
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(root, f.Path))
		if err != nil {
			return nil, ioError(op, f.Path, err)
		}
		for _, occ := range qname.Find(string(data), n) {
			refs = append(refs, model.Reference{
				File:   filepath.ToSlash(f.Path),
				Line:   occ.Line,
				Column: occ.Column,
			})
		}
	}
	return refs, nil
}
