package openapi

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-roleconnections/pkg/metadata"
)

// DocumentOptions tunes the exported document.
type DocumentOptions struct {
	Title   string
	Version string
	Server  string
}

// DocumentOption mutates DocumentOptions.
type DocumentOption func(*DocumentOptions)

// WithTitle sets info.title.
func WithTitle(title string) DocumentOption {
	return func(opts *DocumentOptions) { opts.Title = title }
}

// WithVersion sets info.version.
func WithVersion(version string) DocumentOption {
	return func(opts *DocumentOptions) { opts.Version = version }
}

// WithServer sets the single server URL.
func WithServer(url string) DocumentOption {
	return func(opts *DocumentOptions) { opts.Server = url }
}

// Document builds an OpenAPI 3 document covering the schema registration and
// metadata push endpoints for def.
func Document(def *metadata.Definition, options ...DocumentOption) *openapi3.T {
	opts := DocumentOptions{
		Version: "1.0.0",
		Server:  "https://discord.com/api/v10",
	}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.Title == "" {
		opts.Title = "Role connection metadata"
		if def.PlatformName() != "" {
			opts.Title = def.PlatformName() + " role connection metadata"
		}
	}

	entryRef := "#/components/schemas/" + SchemaEntryComponent
	valuesRef := "#/components/schemas/" + ValuePayloadComponent

	descriptor := openapi3.NewArraySchema()
	descriptor.Items = openapi3.NewSchemaRef(entryRef, SchemaDescriptorSchema(def).Items.Value)
	descriptor.MaxItems = openapi3.Uint64Ptr(metadata.MaxFields)

	register := operation("registerRoleConnectionMetadata", "Register the metadata schema",
		openapi3.NewSchemaRef("", descriptor), openapi3.NewSchemaRef("", descriptor))
	register.Parameters = openapi3.Parameters{applicationIDParameter()}

	getSchema := operation("getRoleConnectionMetadata", "Read the registered metadata schema",
		nil, openapi3.NewSchemaRef("", descriptor))
	getSchema.Parameters = openapi3.Parameters{applicationIDParameter()}

	push := operation("updateUserRoleConnection", "Push the current user's metadata values",
		openapi3.NewSchemaRef(valuesRef, nil), openapi3.NewSchemaRef(valuesRef, nil))
	push.Parameters = openapi3.Parameters{applicationIDParameter()}

	getValues := operation("getUserRoleConnection", "Read the current user's metadata values",
		nil, openapi3.NewSchemaRef(valuesRef, nil))
	getValues.Parameters = openapi3.Parameters{applicationIDParameter()}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   opts.Title,
			Version: opts.Version,
		},
		Servers: openapi3.Servers{{URL: opts.Server}},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/applications/{application_id}/role-connections/metadata", &openapi3.PathItem{
				Put: register,
				Get: getSchema,
			}),
			openapi3.WithPath("/users/@me/applications/{application_id}/role-connection", &openapi3.PathItem{
				Put: push,
				Get: getValues,
			}),
		),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				SchemaEntryComponent:  openapi3.NewSchemaRef("", SchemaDescriptorSchema(def).Items.Value),
				ValuePayloadComponent: openapi3.NewSchemaRef("", ValuePayloadSchema(def)),
			},
		},
	}
	return doc
}

// Load parses an exported document back through the kin-openapi loader and
// validates it.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

func operation(id, summary string, request, response *openapi3.SchemaRef) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Tags = []string{"role-connections"}
	if request != nil {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(request),
		}
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("OK").WithJSONSchemaRef(response),
		}),
	)
	return op
}

func applicationIDParameter() *openapi3.ParameterRef {
	param := openapi3.NewPathParameter("application_id").WithSchema(openapi3.NewStringSchema())
	param.Description = "Application snowflake"
	return &openapi3.ParameterRef{Value: param}
}
