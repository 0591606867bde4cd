package openapi

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-roleconnections/pkg/metadata"
)

// ValidatePayload checks a value payload against ValuePayloadSchema(def).
func ValidatePayload(def *metadata.Definition, payload metadata.ValuePayload) error {
	if err := visit(ValuePayloadSchema(def), payload); err != nil {
		return fmt.Errorf("openapi: value payload: %w", err)
	}
	return nil
}

// ValidateSchemaDescriptor checks descriptor entries against
// SchemaDescriptorSchema(def).
func ValidateSchemaDescriptor(def *metadata.Definition, entries []metadata.SchemaEntry) error {
	if err := visit(SchemaDescriptorSchema(def), entries); err != nil {
		return fmt.Errorf("openapi: schema descriptor: %w", err)
	}
	return nil
}

// visit validates v in its JSON form; VisitJSON only understands the
// generic shapes encoding/json produces.
func visit(schema *openapi3.Schema, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	return schema.VisitJSON(generic, openapi3.MultiErrors())
}
