package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phobologic/modgen/internal/scaffold"
	"github.com/phobologic/modgen/internal/toon"
)

func newNewCmd(a *app) *cobra.Command {
	var opts scaffold.Options
	cmd := &cobra.Command{
		Use:   "new <path>",
		Short: "Create a Fabric mod from the example template",
		Long: `Clone the Fabric example mod for the selected language into <path>, start a
fresh git repository and rename the template after the new mod: package and
main class, mixin config, fabric.mod.json and gradle.properties.

--main must have at least three segments: maven group, archive base name and
class, e.g. com.acme.mod.AcmeMod.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.language("")
			if err != nil {
				return err
			}
			opts.Path = args[0]
			opts.Language = l
			if opts.Name == "" {
				opts.Name = opts.ModID
			}

			creator := scaffold.NewCreator(a.cfg, a.logger)
			if a.noRollback {
				creator.NoRollback = true
			}
			reports, err := creator.Create(cmd.Context(), opts)
			if err != nil {
				return err
			}
			for _, r := range reports {
				_, _ = fmt.Fprintln(a.stdout, toon.EncodeReport(r))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.ModID, "id", "", "mod id, e.g. acme-mod")
	cmd.Flags().StringVar(&opts.MainClass, "main", "", "fully-qualified main class, e.g. com.acme.mod.AcmeMod")
	cmd.Flags().StringVar(&opts.Name, "name", "", "human-readable mod name (default: the mod id)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("main")
	return cmd
}
