// Package check verifies that source files sit where their package
// declarations say they should, using tree-sitter to read the declarations.
package check

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/phobologic/modgen/internal/discover"
	"github.com/phobologic/modgen/internal/lang"
	"github.com/phobologic/modgen/internal/model"
	"github.com/phobologic/modgen/internal/parse"
)

const defaultMaxFileSize = 1_000_000 // 1 MB

// Options configures Run.
type Options struct {
	// Languages restricts the check; all supported languages when empty.
	Languages []*lang.Language

	// MaxFileSize skips larger files. Zero means 1 MB.
	MaxFileSize int64

	Logger *zap.Logger
}

// Run inspects every source file under the language source roots of the
// project at root and reports layout problems:
//
//   - package-mismatch when the declared package differs from the one
//     implied by the file's directory;
//   - missing-type when a Java file declares no top-level type named after
//     the file.
func Run(root string, opts Options) (*model.CheckReport, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = defaultMaxFileSize
	}
	languages := opts.Languages
	if len(languages) == 0 {
		languages = lang.All()
	}

	entries, err := discover.Files(root, languages)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}

	var files []sourceFile
	for _, e := range entries {
		sf, ok := locate(root, e)
		if !ok {
			logger.Debug("outside source root", zap.String("path", e.Path))
			continue
		}
		fi, err := os.Stat(filepath.Join(root, e.Path))
		if err == nil && fi.Size() > maxSize {
			logger.Warn("skipped large file", zap.String("path", e.Path), zap.Int64("size", fi.Size()))
			continue
		}
		files = append(files, sf)
	}

	problems := inspectConcurrent(root, files, logger)
	sort.SliceStable(problems, func(i, j int) bool {
		if problems[i].File != problems[j].File {
			return problems[i].File < problems[j].File
		}
		return problems[i].Kind < problems[j].Kind
	})

	return &model.CheckReport{
		Root:     filepath.Base(root),
		Files:    len(files),
		Problems: problems,
	}, nil
}

type sourceFile struct {
	discover.FileEntry
	pkg string // implied by the directory, "" for the source root itself
}

// locate places a discovered file under its language source root.
func locate(root string, e discover.FileEntry) (sourceFile, bool) {
	srcRoot := e.Language.SourceRoot(root)
	rel, err := filepath.Rel(srcRoot, filepath.Join(root, e.Path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return sourceFile{}, false
	}
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." {
		dir = ""
	}
	return sourceFile{FileEntry: e, pkg: strings.ReplaceAll(dir, "/", ".")}, true
}

func inspectConcurrent(root string, files []sourceFile, logger *zap.Logger) []model.Problem {
	if len(files) == 0 {
		return nil
	}
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan sourceFile, len(files))
	results := make(chan []model.Problem, len(files))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Parsers are not safe for concurrent use; one per goroutine.
			parsers := make(map[string]*sitter.Parser)

			for f := range work {
				p, ok := parsers[f.Language.Name]
				if !ok {
					p = f.Language.NewParser()
					parsers[f.Language.Name] = p
				}
				source, err := os.ReadFile(filepath.Join(root, f.Path))
				if err != nil {
					logger.Warn("failed to read", zap.String("path", f.Path), zap.Error(err))
					continue
				}
				results <- inspect(f, parse.Declarations(f.Language, p, source))
			}
		}()
	}

	for _, f := range files {
		work <- f
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	var problems []model.Problem
	for ps := range results {
		problems = append(problems, ps...)
	}
	return problems
}

func inspect(f sourceFile, decls model.Declarations) []model.Problem {
	var problems []model.Problem
	path := filepath.ToSlash(f.Path)

	if decls.Package != f.pkg {
		problems = append(problems, model.Problem{
			File:     path,
			Kind:     model.PackageMismatch,
			Expected: f.pkg,
			Actual:   decls.Package,
		})
	}

	// Kotlin allows any file name.
	if f.Language.Name == lang.Java {
		stem := strings.TrimSuffix(filepath.Base(f.Path), f.Language.Extension)
		names := make([]string, 0, len(decls.Types))
		found := false
		for _, t := range decls.Types {
			if t.Name == stem {
				found = true
				break
			}
			names = append(names, t.Name)
		}
		// package-info.java and module-info.java declare no types.
		if !found && !strings.Contains(stem, "-") {
			problems = append(problems, model.Problem{
				File:     path,
				Kind:     model.MissingType,
				Expected: stem,
				Actual:   strings.Join(names, ","),
			})
		}
	}
	return problems
}
