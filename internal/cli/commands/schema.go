package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-roleconnections/pkg/declaration"
	"github.com/goliatone/go-roleconnections/pkg/metadata"
	"github.com/goliatone/go-roleconnections/pkg/openapi"
)

// Output formats for the schema command.
const (
	formatJSON    = "json"
	formatYAML    = "yaml"
	formatOpenAPI = "openapi"
)

// NewSchemaCommand prints the schema descriptor of the declaration.
func NewSchemaCommand(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
		remote bool
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the metadata schema descriptor",
		Long: `Print the schema descriptor built from the declaration.

Formats:
  json     the descriptor sent to the platform (default)
  yaml     the normalized declaration file
  openapi  an OpenAPI 3 document describing the metadata endpoints

With --remote the schema currently registered on the platform is printed
instead (requires --bot-token).`,
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

			var data []byte
			if remote {
				c, err := a.client(def, nil)
				if err != nil {
					return err
				}
				entries, err := c.GetSchema(ctx)
				if err != nil {
					return fmt.Errorf("fetch registered schema: %w", err)
				}
				data, err = encodeEntries(entries)
				if err != nil {
					return err
				}
			} else {
				data, err = renderSchema(def, format, a.cfg.Platform.BaseURL)
				if err != nil {
					return err
				}
			}

			if output != "" {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", output)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json, yaml or openapi")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&remote, "remote", false, "print the schema registered on the platform")
	return cmd
}

func renderSchema(def *metadata.Definition, format, serverURL string) ([]byte, error) {
	switch format {
	case formatJSON:
		return encodeEntries(def.ToSchema())
	case formatYAML:
		return declaration.FromDefinition(def).Marshal()
	case formatOpenAPI:
		doc := openapi.Document(def, openapi.WithServer(serverURL))
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode openapi document: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want json, yaml or openapi)", format)
	}
}

func encodeEntries(entries []metadata.SchemaEntry) ([]byte, error) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	return append(data, '\n'), nil
}
