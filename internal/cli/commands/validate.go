package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-roleconnections/internal/cli/ui"
	"github.com/goliatone/go-roleconnections/internal/server"
	"github.com/goliatone/go-roleconnections/pkg/metadata"
	"github.com/goliatone/go-roleconnections/pkg/openapi"
)

type violation struct {
	location string
	message  string
}

// NewValidateCommand checks declarations and, optionally, a values file
// against them.
func NewValidateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [declarations...]",
		Short: "Validate declarations and user values",
		Long: `Validate one or more declaration files. Without arguments the configured
declaration is checked.

With --values every user in the values file is instantiated against the
declaration and the resulting payload is checked against the metadata
schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			locations := args
			if len(locations) == 0 {
				if err := a.cfg.RequireDeclaration(); err != nil {
					return err
				}
				locations = []string{a.cfg.Declaration}
			}
			if a.cfg.Server.ValuesFile != "" && len(locations) > 1 {
				return fmt.Errorf("--values checks a single declaration, got %d", len(locations))
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			var violations []violation
			for _, location := range locations {
				def, err := a.loadDefinition(ctx, location)
				if err != nil {
					violations = append(violations, violation{location: location, message: err.Error()})
					ui.Failure(out, "%s", location)
					continue
				}
				if err := openapi.ValidateSchemaDescriptor(def, def.ToSchema()); err != nil {
					violations = append(violations, violation{location: location, message: err.Error()})
					ui.Failure(out, "%s", location)
					continue
				}
				ui.Success(out, "%s: %s (%d fields, %s timestamps)", location, def.PlatformName(), def.Len(), def.TimestampEncoding())
				for _, decl := range def.Fields() {
					ui.Field(out, decl.Name, fmt.Sprintf("%s %s", decl.Spec.Key(), decl.Spec.Tag()))
				}

				if a.cfg.Server.ValuesFile != "" {
					found, err := validateValues(ctx, def, a.cfg.Server.ValuesFile)
					if err != nil {
						return err
					}
					violations = append(violations, found...)
				}
			}

			if len(violations) == 0 {
				return nil
			}
			errOut := cmd.ErrOrStderr()
			for _, v := range violations {
				fmt.Fprintf(errOut, "%s: %s\n", v.location, v.message)
			}
			return fmt.Errorf("validation failed with %d violation(s)", len(violations))
		},
	}

	cmd.Flags().String("values", "", "values file to check against the declaration")
	return cmd
}

func validateValues(ctx context.Context, def *metadata.Definition, path string) ([]violation, error) {
	values, err := server.LoadStaticValues(path)
	if err != nil {
		return nil, err
	}

	users := make([]string, 0, len(values))
	for id := range values {
		users = append(users, id)
	}
	sort.Strings(users)

	var violations []violation
	for _, id := range users {
		location := fmt.Sprintf("%s#%s", path, id)
		identity, raw, err := values.Values(ctx, id)
		if err != nil {
			return nil, err
		}
		inst, err := def.Instantiate(identity, raw)
		if err == nil {
			err = openapi.ValidatePayload(def, inst.ToMetadataPayload())
		}
		if err != nil {
			violations = append(violations, violation{location: location, message: err.Error()})
		}
	}
	return violations, nil
}
