package refactor

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/phobologic/modgen/internal/model"
	"github.com/phobologic/modgen/internal/parse"
	"github.com/phobologic/modgen/internal/qname"
)

// RenameClass moves the source file of the fully-qualified class oldClass to
// the file named by newClass, which may sit in another package, rewrites its
// declarations and every reference to oldClass in the project.
//
// An existing target file fails the operation with KindConflict.
func (r *Renamer) RenameClass(oldClass, newClass string) (*model.Report, error) {
	const op = "rename class"
	oldName, err := parseName(op, oldClass)
	if err != nil {
		return nil, err
	}
	newName, err := parseName(op, newClass)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		Operation: model.RenameClass,
		Language:  r.lang.Name,
		From:      oldName.String(),
		To:        newName.String(),
	}
	err = r.run(func(j *journal) error {
		return r.renameClass(j, report, oldName, newName)
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("renamed class",
		zap.String("from", report.From),
		zap.String("to", report.To),
		zap.Int("edited", len(report.Edits)))
	return report, nil
}

func (r *Renamer) renameClass(j *journal, report *model.Report, oldName, newName qname.Name) error {
	const op = "rename class"
	oldPkg, err := oldName.Parent()
	if err != nil {
		return malformed(op, oldName.String(), err)
	}
	newPkg, err := newName.Parent()
	if err != nil {
		return malformed(op, newName.String(), err)
	}

	srcRoot := r.lang.SourceRoot(r.root)
	oldFile := filepath.Join(srcRoot, oldPkg.Path(), r.lang.FileName(oldName.Last()))
	newFile := filepath.Join(srcRoot, newPkg.Path(), r.lang.FileName(newName.Last()))

	oldInfo, err := os.Stat(oldFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notFound(op, r.rel(oldFile))
		}
		return ioError(op, r.rel(oldFile), err)
	}
	if oldInfo.IsDir() {
		return notFound(op, r.rel(oldFile))
	}

	if !oldName.Equal(newName) {
		// A case-only rename on a case-insensitive filesystem sees the
		// source file as the target.
		if newInfo, err := os.Stat(newFile); err == nil && !os.SameFile(oldInfo, newInfo) {
			return conflict(op, r.rel(newFile))
		}
		if err := j.mkdirAll(filepath.Dir(newFile)); err != nil {
			return ioError(op, r.rel(filepath.Dir(newFile)), err)
		}
		if err := j.rename(oldFile, newFile); err != nil {
			return ioError(op, r.rel(newFile), err)
		}
		report.Moves = append(report.Moves, model.Move{From: r.rel(oldFile), To: r.rel(newFile)})

		if !oldPkg.Equal(newPkg) {
			if err := r.removeEmptyAncestors(j, filepath.Dir(oldFile), srcRoot); err != nil {
				return ioError(op, r.rel(filepath.Dir(oldFile)), err)
			}
		}

		if err := r.rewriteClassFile(j, report, newFile, oldName, newName, oldPkg, newPkg); err != nil {
			return err
		}
	}

	return r.rewriteReferences(j, report, oldName, newName, nil)
}

// rewriteClassFile updates the moved file: its type declaration, its package
// declaration when the package changed, and self references by simple name.
// Comments and string literals keep the old simple name.
func (r *Renamer) rewriteClassFile(j *journal, report *model.Report, path string, oldName, newName, oldPkg, newPkg qname.Name) error {
	const op = "rewrite class declaration"
	data, err := os.ReadFile(path)
	if err != nil {
		return ioError(op, r.rel(path), err)
	}

	var decls, refs int
	out := string(data)
	if oldName.Last() != newName.Last() {
		oldSimple, newSimple := qname.MustParse(oldName.Last()), qname.MustParse(newName.Last())
		out = r.rewriteCode(out, func(code string) string {
			code, n := rewriteTypeDeclaration(code, r.lang.TypeKeywords, oldSimple.String(), newSimple.String())
			decls += n
			code, n = qname.Rewrite(code, oldSimple, newSimple)
			refs += n
			return code
		})
		if decls == 0 {
			r.logger.Debug("no type declaration found", zap.String("path", r.rel(path)), zap.String("class", oldName.Last()))
		}
	}
	if !oldPkg.Equal(newPkg) {
		var n, m int
		out, n, m = rewriteLines(out, r.lang.Declaration(oldPkg.String()), r.lang.Declaration(newPkg.String()), func(line string) (string, int) {
			if !strings.HasPrefix(strings.TrimSpace(line), "package ") {
				return line, 0
			}
			return qname.Rewrite(line, oldPkg, newPkg)
		})
		decls += n + m
	}

	if out == string(data) {
		return nil
	}
	if err := j.writeFile(path, data, []byte(out)); err != nil {
		return ioError(op, r.rel(path), err)
	}
	report.AddEdit(r.rel(path), decls, refs)
	return nil
}

// rewriteCode applies fn to the parts of text outside comments and string
// and character literals.
func (r *Renamer) rewriteCode(text string, fn func(code string) string) string {
	parser := r.lang.NewParser()
	defer parser.Close()

	var b strings.Builder
	pos := 0
	for _, span := range parse.TextSpans(r.lang, parser, []byte(text)) {
		if span.Start < pos {
			continue
		}
		b.WriteString(fn(text[pos:span.Start]))
		b.WriteString(text[span.Start:span.End])
		pos = span.End
	}
	b.WriteString(fn(text[pos:]))
	return b.String()
}

// rewriteTypeDeclaration renames "<keyword> oldSimple" to "<keyword> newSimple"
// for any of the given declaration keywords, matching whole tokens only.
func rewriteTypeDeclaration(text string, keywords []string, oldSimple, newSimple string) (string, int) {
	if oldSimple == newSimple || len(keywords) == 0 {
		return text, 0
	}
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	const ident = `\p{L}\p{N}_$`
	re := regexp.MustCompile(`(^|[^` + ident + `])(` + strings.Join(quoted, "|") + `)(\s+)` +
		regexp.QuoteMeta(oldSimple) + `($|[^` + ident + `])`)

	count := len(re.FindAllStringIndex(text, -1))
	if count == 0 {
		return text, 0
	}
	return re.ReplaceAllString(text, "${1}${2}${3}"+strings.ReplaceAll(newSimple, "$", "$$")+"${4}"), count
}
