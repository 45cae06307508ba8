package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	sentinelStart = "<!-- modgen:start -->"
	sentinelEnd   = "<!-- modgen:end -->"
)

var errUnbalancedSentinels = errors.New("modgen section markers are unbalanced; fix or remove them by hand")

// newInitCmd implements `modgen init`, which writes (or updates) a modgen
// usage section in an agent instructions file.
func newInitCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "init [path-to-AGENTS.md]",
		Short: "Write a modgen usage section to an agent instructions file",
		Long: `Write a modgen usage section to an agent instructions file. The section is
wrapped in sentinel comments so it can be updated in place on subsequent runs
without touching surrounding content. Creates the file if it does not exist.

path-to-AGENTS.md defaults to AGENTS.md in the project root (--root).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section := generateSection()

			// --dry-run with no path: just print the section itself.
			if dryRun && len(args) == 0 {
				_, _ = fmt.Fprintln(a.stdout, section)
				return nil
			}

			var path string
			if len(args) > 0 {
				path = args[0]
			} else {
				root, err := a.projectRoot()
				if err != nil {
					return err
				}
				path = filepath.Join(root, "AGENTS.md")
			}

			existing, err := os.ReadFile(path)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			updated, err := applySection(string(existing), section)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			if dryRun {
				_, _ = fmt.Fprint(a.stdout, updated)
				return nil
			}
			if updated == string(existing) {
				a.logger.Info("modgen section up to date", zap.String("path", path))
				return nil
			}
			if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			a.logger.Info("wrote modgen section", zap.String("path", path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

// generateSection returns the full sentinel-wrapped modgen documentation block.
func generateSection() string {
	body := `## modgen: Package and Class Renames

Use ` + "`modgen`" + ` via the Bash tool to rename Java or Kotlin packages and classes
instead of moving files and editing imports by hand. It moves the directory
or file, rewrites declarations and updates every reference in one step, and
undoes everything if a step fails.

**Availability:** Check with ` + "`modgen --version`" + ` first; skip gracefully if
not found.

**Run it:**
` + "```" + `bash
modgen package net.fabricmc.example com.acme.mod        # rename a package
modgen class com.acme.mod.ExampleMod com.acme.mod.Acme  # rename or move a class
modgen refs com.acme.mod                                # list references
modgen check                                            # layout problems
modgen -C /path/to/project -l kotlin package a.b a.c    # explicit root and language
` + "```" + `

**All flags:** ` + "`modgen --help`" + `

**Rules:**

1. **Run ` + "`modgen refs`" + ` before a rename** to see what will change.

2. **Rename with modgen, not sed.** Matching is token-aware: renaming ` + "`a.b`" + `
   updates ` + "`a.b.Foo`" + ` but leaves ` + "`a.bc`" + ` and ` + "`x.a.b`" + ` alone.

3. **Run ` + "`modgen check`" + ` afterwards.** It exits non-zero when a file's package
   does not match its directory.`

	return sentinelStart + "\n" + body + "\n" + sentinelEnd
}

// applySection inserts section into content, replacing the existing
// sentinel block if there is one and appending after a blank line if not.
// A lone or reversed sentinel is an error: the block boundary is unknown.
func applySection(content, section string) (string, error) {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	switch {
	case start < 0 && end < 0:
	case start >= 0 && end > start:
		return content[:start] + section + content[end+len(sentinelEnd):], nil
	default:
		return "", errUnbalancedSentinels
	}

	if content == "" {
		return section + "\n", nil
	}
	content = strings.TrimRight(content, "\n")
	return content + "\n\n" + section + "\n", nil
}
