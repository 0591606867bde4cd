package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-roleconnections/internal/cli/ui"
)

// NewRegisterCommand replaces the application's registered metadata schema
// with the declaration's descriptor.
func NewRegisterCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register the metadata schema with the platform",
		Long: `Register the declaration's schema descriptor as the application's
role-connection metadata. This replaces every previously registered field.

Requires --client-id, --client-secret, --redirect-uri and --bot-token (or
their ROLECONN_ environment variables).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			def, err := a.definition(ctx)
			if err != nil {
				return err
			}
			c, err := a.client(def, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			preview, err := encodeEntries(def.ToSchema())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Schema for %s:\n%s", def.PlatformName(), preview)

			if !yes {
				confirmed := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Replace the registered schema of application %s?", a.cfg.OAuth.ClientID),
					Default: false,
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					ui.Warn(out, "registration cancelled")
					return nil
				}
			}

			registered, err := c.RegisterSchema(ctx)
			if err != nil {
				ui.Failure(out, "schema registration failed")
				return fmt.Errorf("register schema: %w", err)
			}
			ui.Success(out, "registered %d metadata field(s)", len(registered))
			for _, entry := range registered {
				ui.Field(out, entry.Key, entry.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
