package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// invalidator is implemented by catalog sources that cache.
type invalidator interface {
	Invalidate(ctx context.Context) error
}

func newProgramsCmd(st *rootState) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "programs",
		Short: "List the programs a lead can be interested in",
		Long: `List the program catalog. The live catalog is read from the CRM backend;
when it cannot be reached the built-in list is shown instead. --refresh drops
the cached copy first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if refresh {
				if inv, ok := st.app.Programs.(invalidator); ok {
					if err := inv.Invalidate(cmd.Context()); err != nil {
						return fmt.Errorf("failed to drop cached catalog: %w", err)
					}
				}
			}

			items := st.app.Programs.Catalog(cmd.Context()).All()
			out := cmd.OutOrStdout()

			if st.asJSON {
				return printJSON(out, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "No programs found")
				return nil
			}

			width := len("ID")
			for _, p := range items {
				if n := len([]rune(p.ID)); n > width {
					width = n
				}
			}
			fmt.Fprintf(out, "%s  %s\n", padRight("ID", width), "NAME")
			for _, p := range items {
				fmt.Fprintf(out, "%s  %s\n", padRight(p.ID, width), p.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Drop the cached catalog before reading it")
	return cmd
}
