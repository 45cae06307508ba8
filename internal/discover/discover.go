// Package discover finds Java and Kotlin source files in a project tree.
package discover

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/modgen/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to project root
	Language *lang.Language
}

// skipDirs are build output and tool directories. They are only skipped
// outside the language source roots, where a package may use the same name.
var skipDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	".gradle":      {},
	".idea":        {},
	".kotlin":      {},
	"build":        {},
	"out":          {},
	"run":          {},
	"bin":          {},
	"node_modules": {},
}

// Files discovers source files under root.
// If languages is non-empty, only files of those languages are returned.
// Every file under a language source root is returned; ignore rules and
// skipDirs apply to the rest of the tree.
func Files(root string, languages []*lang.Language) ([]FileEntry, error) {
	var sourceRoots []string
	for _, l := range lang.All() {
		sourceRoots = append(sourceRoots, filepath.ToSlash(l.SourceRoot("")))
	}
	langSet := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		langSet[l.Name] = struct{}{}
	}
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip unreadable entries below the root
		}

		name := d.Name()

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		source := underAny(filepath.ToSlash(rel), sourceRoots)

		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if _, skip := skipDirs[name]; skip && !source {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		l := lang.ForExtension(filepath.Ext(name))
		if l == nil {
			return nil
		}
		if len(langSet) > 0 {
			if _, ok := langSet[l.Name]; !ok {
				return nil
			}
		}

		if source {
			results = append(results, FileEntry{Path: rel, Language: l})
			return nil
		}
		if gitFiles != nil {
			if _, ok := gitFiles[filepath.ToSlash(rel)]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(filepath.ToSlash(rel)) {
			return nil
		}

		results = append(results, FileEntry{Path: rel, Language: l})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

// underAny reports whether the slash-separated rel is one of dirs or lies
// beneath one.
func underAny(rel string, dirs []string) bool {
	for _, dir := range dirs {
		if rel == dir || strings.HasPrefix(rel, dir+"/") {
			return true
		}
	}
	return false
}

// gitLsFiles returns the tracked and untracked-but-not-ignored files of a git
// work tree rooted at root, or nil when root is not one.
func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
