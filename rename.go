package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phobologic/modgen/internal/toon"
)

func newPackageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "package <old> <new>",
		Short: "Rename a package: move its directory and rewrite declarations and references",
		Long: `Move the directory of package <old> to that of <new> under the language
source root (src/main/java or src/main/kotlin), rewrite the package
declaration of every moved file and every reference to <old> in the project.

Existing target directories are merged. A file that would overwrite an
existing file aborts the rename before anything moves.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.projectRoot()
			if err != nil {
				return err
			}
			l, err := a.language(root)
			if err != nil {
				return err
			}
			report, err := a.renamer(root, l).RenamePackage(args[0], args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, toon.EncodeReport(report))
			return nil
		},
	}
}

func newClassCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "class <old> <new>",
		Short: "Rename a fully-qualified class, moving its file across packages if needed",
		Long: `Rename the source file of class <old> after <new>, rewrite its type and
package declarations and every reference to <old> in the project.

Both names are fully qualified, e.g. com.acme.mod.ExampleMod.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.projectRoot()
			if err != nil {
				return err
			}
			l, err := a.language(root)
			if err != nil {
				return err
			}
			report, err := a.renamer(root, l).RenameClass(args[0], args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, toon.EncodeReport(report))
			return nil
		},
	}
}
