package cli

import (
	"fmt"
	"strings"

	"crm-leads/internal/validation"

	"github.com/spf13/cobra"
)

func newGetCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "get <lead-id>",
		Short: "Show one lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if err := validation.New().Var(id, "required,objectid"); err != nil {
				return fmt.Errorf("invalid lead id %q", id)
			}

			res, err := st.app.Leads.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get lead: %w", err)
			}
			if !res.Success {
				msg := res.Error
				if msg == "" {
					msg = "lead not found"
				}
				return fmt.Errorf("%s", msg)
			}

			out := cmd.OutOrStdout()
			if st.asJSON || res.Object == nil {
				return printJSON(out, res.Object)
			}

			l := res.Object
			rows := [][2]string{
				{"ID", l.ID},
				{"Name", l.FullName},
				{"Email", l.Email},
				{"Phone", l.MobilePhone},
				{"Program", l.InterestProgram},
				{"Campaign", l.Campaign},
				{"Status", l.Status},
			}
			for _, row := range rows {
				fmt.Fprintf(out, "%s %s\n", padRight(row[0]+":", 10), row[1])
			}
			return nil
		},
	}
}
