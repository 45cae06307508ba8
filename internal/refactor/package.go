package refactor

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/phobologic/modgen/internal/model"
	"github.com/phobologic/modgen/internal/qname"
)

// RenamePackage moves the directory of oldPackage to that of newPackage,
// rewrites the package declarations of the moved files and every reference
// to oldPackage in the project.
//
// Existing target directories are merged; a file that would land on an
// existing file fails the operation with KindConflict before anything moves.
// Renaming a package to itself moves nothing but still scans the tree.
func (r *Renamer) RenamePackage(oldPackage, newPackage string) (*model.Report, error) {
	const op = "rename package"
	oldName, err := parseName(op, oldPackage)
	if err != nil {
		return nil, err
	}
	newName, err := parseName(op, newPackage)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		Operation: model.RenamePackage,
		Language:  r.lang.Name,
		From:      oldName.String(),
		To:        newName.String(),
	}
	err = r.run(func(j *journal) error {
		return r.renamePackage(j, report, oldName, newName)
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("renamed package",
		zap.String("from", report.From),
		zap.String("to", report.To),
		zap.Int("edited", len(report.Edits)))
	return report, nil
}

func (r *Renamer) renamePackage(j *journal, report *model.Report, oldName, newName qname.Name) error {
	const op = "rename package"
	srcRoot := r.lang.SourceRoot(r.root)
	oldDir := filepath.Join(srcRoot, oldName.Path())
	newDir := filepath.Join(srcRoot, newName.Path())

	info, err := os.Stat(oldDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notFound(op, r.rel(oldDir))
		}
		return ioError(op, r.rel(oldDir), err)
	}
	if !info.IsDir() {
		return notFound(op, r.rel(oldDir))
	}

	if !oldName.Equal(newName) {
		if err := r.movePackageDir(j, srcRoot, oldDir, newDir); err != nil {
			return err
		}
		report.Moves = append(report.Moves, model.Move{From: r.rel(oldDir), To: r.rel(newDir)})
	}

	done, err := r.rewritePackageFiles(j, report, newDir, oldName, newName)
	if err != nil {
		return err
	}
	return r.rewriteReferences(j, report, oldName, newName, done)
}

// movePackageDir relocates the subtree at oldDir to newDir through a staging
// directory inside srcRoot, so that targets nested in, or enclosing, the
// source subtree work the same as unrelated ones.
func (r *Renamer) movePackageDir(j *journal, srcRoot, oldDir, newDir string) error {
	const op = "move package"

	files, err := listFiles(oldDir)
	if err != nil {
		return ioError(op, r.rel(oldDir), err)
	}
	for _, rel := range files {
		target := filepath.Join(newDir, rel)
		if within(target, oldDir) {
			// Vacated by the move before anything lands here.
			continue
		}
		if _, err := os.Lstat(target); err == nil {
			return conflict(op, r.rel(target))
		}
	}

	staging, err := os.MkdirTemp(srcRoot, ".modgen-")
	if err != nil {
		return ioError(op, r.rel(srcRoot), err)
	}
	j.recordMkdir(staging)
	staged := filepath.Join(staging, "tree")

	if err := j.rename(oldDir, staged); err != nil {
		return ioError(op, r.rel(oldDir), err)
	}
	if err := r.removeEmptyAncestors(j, filepath.Dir(oldDir), srcRoot); err != nil {
		return ioError(op, r.rel(filepath.Dir(oldDir)), err)
	}

	if _, err := os.Stat(newDir); errors.Is(err, fs.ErrNotExist) {
		if err := j.mkdirAll(filepath.Dir(newDir)); err != nil {
			return ioError(op, r.rel(filepath.Dir(newDir)), err)
		}
		if err := j.rename(staged, newDir); err != nil {
			return ioError(op, r.rel(newDir), err)
		}
	} else {
		for _, rel := range files {
			target := filepath.Join(newDir, rel)
			if err := j.mkdirAll(filepath.Dir(target)); err != nil {
				return ioError(op, r.rel(filepath.Dir(target)), err)
			}
			if err := j.rename(filepath.Join(staged, rel), target); err != nil {
				return ioError(op, r.rel(target), err)
			}
		}
		if err := removeEmptyTree(j, staged); err != nil {
			return ioError(op, r.rel(staged), err)
		}
	}

	if err := j.rmdir(staging); err != nil {
		return ioError(op, r.rel(staging), err)
	}
	return nil
}

// rewritePackageFiles rewrites every file of the renamer's language under
// dir in one pass per file: lines equal to the old package declaration
// become the new one, all other lines get the reference rewrite. Files with
// zero or several declaration lines are not an error. It returns the paths
// visited so the project-wide reference pass leaves them alone.
func (r *Renamer) rewritePackageFiles(j *journal, report *model.Report, dir string, oldName, newName qname.Name) (map[string]bool, error) {
	const op = "rewrite declarations"
	oldDecl := r.lang.Declaration(oldName.String())
	newDecl := r.lang.Declaration(newName.String())
	refs := func(line string) (string, int) {
		return qname.Rewrite(line, oldName, newName)
	}

	done := make(map[string]bool)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return ioError(op, r.rel(path), err)
		}
		if d.IsDir() || filepath.Ext(path) != r.lang.Extension {
			return nil
		}
		done[path] = true
		data, err := os.ReadFile(path)
		if err != nil {
			return ioError(op, r.rel(path), err)
		}
		out, decls, n := rewriteLines(string(data), oldDecl, newDecl, refs)
		if decls != 1 && filepath.Dir(path) == dir {
			r.logger.Debug("unexpected package declaration count",
				zap.String("path", r.rel(path)), zap.Int("count", decls))
		}
		if out == string(data) {
			return nil
		}
		if err := j.writeFile(path, data, []byte(out)); err != nil {
			return ioError(op, r.rel(path), err)
		}
		report.AddEdit(r.rel(path), decls, n)
		return nil
	})
	return done, err
}

// listFiles returns the paths of all non-directory entries under dir,
// relative to dir, sorted.
func listFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	sort.Strings(files)
	return files, err
}

// removeEmptyTree removes dir and every directory below it. It fails if any
// non-directory entry remains.
func removeEmptyTree(j *journal, dir string) error {
	var dirs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	// Children sort after their parents; remove in reverse.
	sort.Strings(dirs)
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := j.rmdir(dirs[i]); err != nil {
			return err
		}
	}
	return nil
}
