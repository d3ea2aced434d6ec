package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"crm-leads/internal/leadform"
	"crm-leads/internal/leads"

	"github.com/spf13/cobra"
)

var errRejected = errors.New("lead was not created")

func newCreateCmd(st *rootState) *cobra.Command {
	var (
		draft    leads.Draft
		external bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a lead",
		Long: `Validate a lead and send it to the CRM backend.

Field errors are printed one per line and nothing is sent. Authenticated
submissions use the configured default campaign and user unless --campaign
and --user are given. --external sends through the public endpoint with the
configured placeholder identity.

Examples:
  leadctl create --first-name Laura --last-name Gómez --email laura@example.com \
    --phone 3001234567 --program 2
  leadctl create --external --first-name Ana --last-name Ruiz \
    --email ana@example.com --phone 3019876543 --program 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			variant := leads.VariantAuthenticated
			if external {
				variant = leads.VariantExternal
			}

			form := leadform.New(st.app.Leads, leadform.Options{
				Mode:     leadform.ModeCreate,
				Variant:  variant,
				Defaults: st.app.Defaults,
				Log:      st.app.Log,
			})
			form.SetDraft(draft)

			res, err := form.Submit(cmd.Context())
			out := cmd.OutOrStdout()

			var verrs leads.ValidationErrors
			if errors.As(err, &verrs) {
				printFieldErrors(cmd.ErrOrStderr(), form.Errors())
				return fmt.Errorf("invalid lead: %d field(s)", len(verrs))
			}

			toast := form.Toast()
			if toast.Open {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", toast.Title, toast.Description)
			}
			if err != nil {
				return err
			}
			if !res.Success {
				return errRejected
			}

			if st.asJSON {
				return printJSON(out, res)
			}
			if res.Object != nil && res.Object.ID != "" {
				fmt.Fprintln(out, res.Object.ID)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&draft.FirstName, "first-name", "", "First name")
	f.StringVar(&draft.LastName, "last-name", "", "Last name")
	f.StringVar(&draft.Email, "email", "", "Email address")
	f.StringVar(&draft.MobilePhone, "phone", "", "Mobile phone, 10 to 15 digits")
	f.StringVar(&draft.InterestProgram, "program", "", "Program id (see 'leadctl programs')")
	f.StringVar(&draft.Campaign, "campaign", "", "Campaign id (default from DEFAULT_CAMPAIGN_ID)")
	f.StringVar(&draft.User, "user", "", "User id (default from DEFAULT_USER_ID)")
	f.BoolVar(&external, "external", false, "Send through the public endpoint")

	return cmd
}

func printFieldErrors(w io.Writer, errs leads.ValidationErrors) {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(w, "%s: %s\n", field, errs[field])
	}
}
