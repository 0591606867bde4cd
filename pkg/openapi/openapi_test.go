package openapi

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-roleconnections/pkg/metadata"
)

func libraryDefinition(t *testing.T, options ...metadata.Option) *metadata.Definition {
	t.Helper()

	def, err := metadata.Define("Library", []metadata.FieldDecl{
		metadata.Declare("books", metadata.MustFieldSpec("books_read", "Books read", "Total books read", metadata.IntegerGreaterThanOrEqual)),
		metadata.Declare("member_since", metadata.MustFieldSpec("member_since", "Member since", "First visit", metadata.DatetimeLessThanOrEqual)),
		metadata.Declare("verified", metadata.MustFieldSpec("verified", "Verified", "Verified reader", metadata.BooleanEqual)),
	}, options...)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	return def
}

func TestValidatePayloadAcceptsInstances(t *testing.T) {
	for _, encoding := range []metadata.TimestampEncoding{metadata.TimestampRFC3339, metadata.TimestampUnixSeconds} {
		def := libraryDefinition(t, metadata.WithTimestampEncoding(encoding))
		inst, err := def.Instantiate(metadata.Identity{PlatformUsername: "reader"}, map[string]any{
			"books":        7,
			"member_since": time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
			"verified":     true,
		})
		if err != nil {
			t.Fatalf("instantiate: %v", err)
		}
		if err := ValidatePayload(def, inst.ToMetadataPayload()); err != nil {
			t.Fatalf("%s: payload rejected: %v", encoding, err)
		}
	}
}

func TestValidatePayloadRejectsForeignShapes(t *testing.T) {
	def := libraryDefinition(t)

	tests := map[string]metadata.ValuePayload{
		"unknown key":      {PlatformName: "Library", Metadata: map[string]any{"mystery": 1}},
		"string integer":   {PlatformName: "Library", Metadata: map[string]any{"books_read": "7"}},
		"float integer":    {PlatformName: "Library", Metadata: map[string]any{"books_read": 7.5}},
		"integer boolean":  {PlatformName: "Library", Metadata: map[string]any{"verified": 1}},
		"missing platform": {Metadata: map[string]any{}},
	}
	for name, payload := range tests {
		if err := ValidatePayload(def, payload); err == nil {
			t.Fatalf("%s: expected payload to be rejected", name)
		}
	}
}

func TestValidateSchemaDescriptor(t *testing.T) {
	def := libraryDefinition(t)
	if err := ValidateSchemaDescriptor(def, def.ToSchema()); err != nil {
		t.Fatalf("descriptor rejected: %v", err)
	}

	bad := def.ToSchema()
	bad[0].Type = 9
	if err := ValidateSchemaDescriptor(def, bad); err == nil {
		t.Fatalf("expected out-of-range type to be rejected")
	}

	bad = def.ToSchema()
	bad[1].Key = "Member-Since"
	if err := ValidateSchemaDescriptor(def, bad); err == nil {
		t.Fatalf("expected invalid key to be rejected")
	}

	bad = def.ToSchema()
	bad[2].Description = strings.Repeat("d", 101)
	if err := ValidateSchemaDescriptor(def, bad); err == nil {
		t.Fatalf("expected long description to be rejected")
	}
}

func TestDocumentRoundTripsThroughLoader(t *testing.T) {
	def := libraryDefinition(t)
	doc := Document(def, WithVersion("2.0.0"))

	if doc.Info.Title != "Library role connection metadata" {
		t.Fatalf("title mismatch: %q", doc.Info.Title)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	loaded, err := Load(context.Background(), data)
	if err != nil {
		t.Fatalf("load:\n%s\n%v", data, err)
	}
	if loaded.Info.Version != "2.0.0" {
		t.Fatalf("version mismatch: %q", loaded.Info.Version)
	}
	if loaded.Paths.Find("/users/@me/applications/{application_id}/role-connection") == nil {
		t.Fatalf("metadata push path missing")
	}

	values := loaded.Components.Schemas[ValuePayloadComponent].Value.Properties["metadata"].Value
	for _, key := range []string{"books_read", "member_since", "verified"} {
		if _, ok := values.Properties[key]; !ok {
			t.Fatalf("metadata property %q missing", key)
		}
	}
}
