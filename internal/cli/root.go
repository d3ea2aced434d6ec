// Package cli provides the leadctl command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"crm-leads/internal/leads"
	"crm-leads/internal/programs"

	"github.com/spf13/cobra"
)

var Version = "dev"

// LeadService is the part of leads.Service the commands need.
type LeadService interface {
	Submit(ctx context.Context, variant leads.Variant, draft leads.Draft) (leads.Result, error)
	Get(ctx context.Context, id string) (leads.Result, error)
}

// App carries the dependencies shared by every command.
type App struct {
	Programs programs.Source
	Leads    LeadService
	Defaults leads.Defaults
	Log      *slog.Logger
	// Close releases connections opened by the builder. May be nil.
	Close func() error
}

// Builder constructs the App once flags are parsed.
type Builder func(ctx context.Context, log *slog.Logger) (*App, error)

type rootState struct {
	build   Builder
	app     *App
	verbose bool
	asJSON  bool
}

// NewRootCmd creates the leadctl root command. A nil builder wires the app from the environment.
func NewRootCmd(build Builder) *cobra.Command {
	if build == nil {
		build = FromConfig
	}
	st := &rootState{build: build}

	root := &cobra.Command{
		Use:   "leadctl",
		Short: "Capture and inspect CRM leads",
		Long: `leadctl talks to the CRM backend configured by CRM_BASE_URL.

Examples:
  leadctl programs
  leadctl create --first-name Laura --last-name Gómez --email laura@example.com \
    --phone 3001234567 --program 2
  leadctl get 67e46027c13cec9e6b46b799`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if st.verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			app, err := st.build(cmd.Context(), log)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			if app.Log == nil {
				app.Log = log
			}
			st.app = app
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if st.app != nil && st.app.Close != nil {
				return st.app.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "Log debug output to stderr")
	root.PersistentFlags().BoolVar(&st.asJSON, "json", false, "Print results as JSON")

	root.AddCommand(newProgramsCmd(st))
	root.AddCommand(newCreateCmd(st))
	root.AddCommand(newGetCmd(st))
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd(nil)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
