package declaration_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/goliatone/go-roleconnections/pkg/metadata"
	"github.com/goliatone/go-roleconnections/pkg/testsupport"
)

func TestLibraryDeclarationSchemaGolden(t *testing.T) {
	def := testsupport.LoadDefinition(t, "testdata/library.yaml")

	got := testsupport.MarshalGolden(t, def.ToSchema())
	goldenPath := "testdata/library.schema.golden.json"
	if testsupport.WriteMaybeGolden(t, goldenPath, got) {
		return
	}
	if diff := testsupport.CompareJSON(t, testsupport.MustReadGolden(t, goldenPath), got); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestLibraryDeclarationPayloadGolden(t *testing.T) {
	def := testsupport.LoadDefinition(t, "testdata/library.yaml")

	inst, err := def.Instantiate(metadata.Identity{PlatformUsername: "reader"}, map[string]any{
		"books":        12,
		"member_since": time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		"banned":       false,
	})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}

	got := testsupport.MarshalGolden(t, inst.ToMetadataPayload())
	goldenPath := "testdata/library.payload.golden.json"
	if testsupport.WriteMaybeGolden(t, goldenPath, got) {
		return
	}
	if diff := testsupport.CompareJSON(t, testsupport.MustReadGolden(t, goldenPath), got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	parsed, err := def.ParseResponse(got)
	if err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if diff := testsupport.CompareGolden(inst.ToMetadataPayload().AsResponse(), parsed.ToMetadataPayload().AsResponse()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	var generic map[string]any
	if err := json.Unmarshal(got, &generic); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if _, ok := generic["metadata"].(map[string]any)["late_returns"]; ok {
		t.Fatalf("unset field must be omitted from the payload")
	}
}
