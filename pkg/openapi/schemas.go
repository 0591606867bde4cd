package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-roleconnections/pkg/metadata"
)

// Component names used in the exported document.
const (
	SchemaEntryComponent  = "RoleConnectionMetadataField"
	ValuePayloadComponent = "RoleConnectionValues"
	keyPattern            = `^[a-z0-9_]+$`
)

// SchemaEntrySchema describes one schema descriptor entry. descriptionMax
// caps the description length; values ≤ 0 use the default cap.
func SchemaEntrySchema(descriptionMax int) *openapi3.Schema {
	if descriptionMax <= 0 {
		descriptionMax = metadata.DefaultDescriptionMaxLength
	}

	// Enum members compare against decoded JSON numbers.
	codes := make([]any, 0, len(metadata.AllFieldTypeTags()))
	for _, tag := range metadata.AllFieldTypeTags() {
		codes = append(codes, float64(tag.Code()))
	}

	localizations := openapi3.NewObjectSchema().
		WithAdditionalProperties(openapi3.NewStringSchema())

	schema := openapi3.NewObjectSchema().
		WithProperty("type", openapi3.NewIntegerSchema().WithEnum(codes...)).
		WithProperty("key", openapi3.NewStringSchema().
			WithMinLength(metadata.KeyMinLength).
			WithMaxLength(metadata.KeyMaxLength).
			WithPattern(keyPattern)).
		WithProperty("name", openapi3.NewStringSchema().
			WithMinLength(metadata.NameMinLength).
			WithMaxLength(metadata.NameMaxLength)).
		WithProperty("name_localizations", localizations).
		WithProperty("description", openapi3.NewStringSchema().
			WithMinLength(metadata.DescriptionMinLength).
			WithMaxLength(int64(descriptionMax))).
		WithProperty("description_localizations", localizations)
	schema.Required = []string{"type", "key", "name", "description"}
	schema.AdditionalProperties = openapi3.AdditionalProperties{Has: openapi3.BoolPtr(false)}
	return schema
}

// SchemaDescriptorSchema describes the full descriptor array for def.
func SchemaDescriptorSchema(def *metadata.Definition) *openapi3.Schema {
	max := metadata.DefaultDescriptionMaxLength
	for _, decl := range def.Fields() {
		if n := decl.Spec.DescriptionMaxLength(); n > max {
			max = n
		}
	}
	schema := openapi3.NewArraySchema().WithItems(SchemaEntrySchema(max))
	schema.MaxItems = openapi3.Uint64Ptr(metadata.MaxFields)
	return schema
}

// ValuePayloadSchema describes the per-user value payload for def. Metadata
// members are optional since unset fields are omitted.
func ValuePayloadSchema(def *metadata.Definition) *openapi3.Schema {
	values := openapi3.NewObjectSchema()
	for _, decl := range def.Fields() {
		values.WithProperty(decl.Spec.Key(), valueSchema(def, decl.Spec.Tag()))
	}
	values.AdditionalProperties = openapi3.AdditionalProperties{Has: openapi3.BoolPtr(false)}

	schema := openapi3.NewObjectSchema().
		WithProperty("platform_name", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("platform_username", openapi3.NewStringSchema()).
		WithProperty("metadata", values)
	schema.Required = []string{"platform_name", "metadata"}
	return schema
}

func valueSchema(def *metadata.Definition, tag metadata.FieldTypeTag) *openapi3.Schema {
	var schema *openapi3.Schema
	switch tag.ValueKind() {
	case metadata.KindInteger:
		schema = openapi3.NewInt64Schema()
	case metadata.KindTimestamp:
		if def.TimestampEncoding() == metadata.TimestampUnixSeconds {
			schema = openapi3.NewInt64Schema()
		} else {
			schema = openapi3.NewDateTimeSchema()
		}
	case metadata.KindBoolean:
		schema = openapi3.NewBoolSchema()
	default:
		schema = openapi3.NewSchema()
	}
	schema.Description = tag.String()
	return schema
}
