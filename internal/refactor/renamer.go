// Package refactor renames packages and classes across a Java or Kotlin
// project tree, keeping directories, file names, declarations and
// cross-file references in sync.
//
// Matching is textual: qualified names are rewritten where they appear as
// complete tokens (see qname.Rewrite). Sources are never parsed.
//
// Operations are synchronous and must not run concurrently on the same tree.
package refactor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/phobologic/modgen/internal/discover"
	"github.com/phobologic/modgen/internal/lang"
	"github.com/phobologic/modgen/internal/model"
	"github.com/phobologic/modgen/internal/qname"
)

// Options configures a Renamer.
type Options struct {
	Logger *zap.Logger

	// NoRollback leaves the tree as it is when an operation fails midway
	// instead of undoing the steps already applied.
	NoRollback bool
}

// Renamer applies rename operations to one project tree and language.
type Renamer struct {
	root     string
	lang     *lang.Language
	logger   *zap.Logger
	rollback bool
}

// New returns a Renamer for the project rooted at root.
func New(root string, l *lang.Language, opts Options) *Renamer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renamer{
		root:     root,
		lang:     l,
		logger:   logger.With(zap.String("language", l.Name)),
		rollback: !opts.NoRollback,
	}
}

// RenamePackage renames oldPackage to newPackage in the project at root.
func RenamePackage(root string, l *lang.Language, oldPackage, newPackage string) error {
	_, err := New(root, l, Options{}).RenamePackage(oldPackage, newPackage)
	return err
}

// RenameClass renames the fully-qualified class oldClass to newClass in the
// project at root.
func RenameClass(root string, l *lang.Language, oldClass, newClass string) error {
	_, err := New(root, l, Options{}).RenameClass(oldClass, newClass)
	return err
}

// run executes fn with a fresh journal and undoes its steps if it fails.
func (r *Renamer) run(fn func(j *journal) error) error {
	j := newJournal(r.logger)
	err := fn(j)
	if err == nil || !r.rollback || j.count() == 0 {
		return err
	}
	r.logger.Warn("rename failed, rolling back", zap.Error(err), zap.Int("steps", j.count()))
	if uerr := j.undo(); uerr != nil {
		return errors.Join(err, fmt.Errorf("rollback incomplete: %w", uerr))
	}
	return err
}

// rewriteReferences applies the token-boundary rewrite old -> repl to every
// source file of every supported language in the project, except the
// absolute paths in skip.
func (r *Renamer) rewriteReferences(j *journal, report *model.Report, old, repl qname.Name, skip map[string]bool) error {
	const op = "rewrite references"
	files, err := discover.Files(r.root, nil)
	if err != nil {
		return ioError(op, r.root, err)
	}
	for _, f := range files {
		path := filepath.Join(r.root, f.Path)
		if skip[path] {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return ioError(op, f.Path, err)
		}
		out, n := qname.Rewrite(string(data), old, repl)
		if n == 0 || out == string(data) {
			continue
		}
		if err := j.writeFile(path, data, []byte(out)); err != nil {
			return ioError(op, f.Path, err)
		}
		report.AddEdit(filepath.ToSlash(f.Path), 0, n)
		r.logger.Debug("rewrote references", zap.String("path", f.Path), zap.Int("count", n))
	}
	return nil
}

// removeEmptyAncestors removes dir and its parents while they are empty,
// stopping before stop.
func (r *Renamer) removeEmptyAncestors(j *journal, dir, stop string) error {
	for within(dir, stop) && dir != stop {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			return nil
		}
		if err := j.rmdir(dir); err != nil {
			return err
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

func (r *Renamer) rel(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// within reports whether path is dir or lies beneath it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// rewriteLines replaces every line whose trimmed text equals oldDecl with
// newDecl, keeping indentation and line endings. Other lines go through
// other, when it is non-nil. It returns the declaration and other counts.
func rewriteLines(text, oldDecl, newDecl string, other func(line string) (string, int)) (string, int, int) {
	lines := strings.SplitAfter(text, "\n")
	decls, refs := 0, 0
	for i, line := range lines {
		body := strings.TrimRight(line, "\r\n")
		if oldDecl != newDecl && strings.TrimSpace(body) == oldDecl {
			indent := body[:len(body)-len(strings.TrimLeft(body, " \t"))]
			lines[i] = indent + newDecl + line[len(body):]
			decls++
			continue
		}
		if other != nil {
			var n int
			lines[i], n = other(line)
			refs += n
		}
	}
	if decls == 0 && refs == 0 {
		return text, 0, 0
	}
	return strings.Join(lines, ""), decls, refs
}
