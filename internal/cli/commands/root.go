package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the roleconn command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "roleconn",
		Short: "Declare, register and serve linked-role metadata",
		Long: color.CyanString(`roleconn - linked-role metadata tooling

Declare up to five comparison fields in a YAML or JSON file, register them
as the application's role-connection schema, and run the OAuth server that
pushes each user's metadata.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ./roleconn.yaml)")
	flags.String("declaration", "", "declaration file, URL or example:<name>")
	flags.String("timestamp-encoding", "", "override the declaration's timestamp encoding (rfc3339, unix)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("log-pretty", false, "human-readable log output")
	flags.String("client-id", "", "OAuth client id")
	flags.String("client-secret", "", "OAuth client secret")
	flags.String("redirect-uri", "", "OAuth redirect uri")
	flags.String("bot-token", "", "bot token for schema calls")
	flags.String("base-url", "", "platform API base url")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewSchemaCommand(opts))
	rootCmd.AddCommand(NewValidateCommand(opts))
	rootCmd.AddCommand(NewRegisterCommand(opts))
	rootCmd.AddCommand(NewServeCommand(opts))

	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
