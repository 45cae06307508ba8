package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phobologic/modgen/internal/check"
	"github.com/phobologic/modgen/internal/lang"
	"github.com/phobologic/modgen/internal/refactor"
	"github.com/phobologic/modgen/internal/toon"
)

func newRefsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refs <name>",
		Short: "List every reference to a qualified package or class name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.projectRoot()
			if err != nil {
				return err
			}
			refs, err := refactor.FindReferences(root, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, toon.EncodeReferences(args[0], refs))
			return nil
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	var maxFileSize int64
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report files whose package or type does not match their location",
		Long: `Parse every source file under the language source roots and report
package declarations that disagree with the directory layout, and Java files
that declare no top-level type named after the file.

Exits non-zero when problems are found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.projectRoot()
			if err != nil {
				return err
			}
			var languages []*lang.Language
			if a.langName != "" {
				l, err := lang.Lookup(a.langName)
				if err != nil {
					return err
				}
				languages = append(languages, l)
			}
			report, err := check.Run(root, check.Options{
				Languages:   languages,
				MaxFileSize: maxFileSize,
				Logger:      a.logger,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, toon.EncodeCheck(report))
			if n := len(report.Problems); n > 0 {
				return fmt.Errorf("%d layout problem(s) found", n)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&maxFileSize, "max-file-size", 1_000_000, "skip files larger than this many bytes")
	return cmd
}
