package declaration

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-roleconnections/pkg/metadata"
)

const libraryYAML = `
platform_name: Library
timestamp_encoding: unix
fields:
  - field: books
    key: books_read
    type: integer_greater_than_or_equal
    name: Books read
    description: Minimum number of books read
    name_localizations:
      fr: Livres lus
  - key: verified
    type: 7
    name: Verified
    description: Reader verified their card
`

func TestParseBuildsDefinition(t *testing.T) {
	doc := MustNewDocument(SourceFromFile("library.yaml"), []byte(libraryYAML))

	def, err := Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if def.PlatformName() != "Library" {
		t.Fatalf("platform name mismatch: %q", def.PlatformName())
	}
	if def.TimestampEncoding() != metadata.TimestampUnixSeconds {
		t.Fatalf("timestamp encoding mismatch: %q", def.TimestampEncoding())
	}

	want := []metadata.SchemaEntry{
		{Type: 2, Key: "books_read", Name: "Books read", Description: "Minimum number of books read", NameLocalizations: map[string]string{"fr": "Livres lus"}},
		{Type: 7, Key: "verified", Name: "Verified", Description: "Reader verified their card"},
	}
	if diff := cmp.Diff(want, def.ToSchema()); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}

	if _, ok := def.Field("books"); !ok {
		t.Fatalf("expected declared field name books")
	}
	if _, ok := def.Field("verified"); !ok {
		t.Fatalf("expected field name to default to the key")
	}
}

func TestParseRejectsInvalidDeclarations(t *testing.T) {
	field := func(key string) string {
		return "  - key: " + key + "\n    type: 1\n    name: N\n    description: D\n"
	}

	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "too many fields", body: "fields:\n" + field("a") + field("b") + field("c") + field("d") + field("e") + field("f"), want: metadata.ErrTooManyFields},
		{name: "bad key", body: "fields:\n" + field("Bad"), want: metadata.ErrInvalidKeyFormat},
		{name: "duplicate key", body: "fields:\n" + field("a") + field("a"), want: metadata.ErrDuplicateField},
		{name: "unknown type", body: "fields:\n  - key: a\n    type: 9\n    name: N\n    description: D\n", want: metadata.ErrInvalidFieldType},
		{name: "long name", body: "fields:\n  - key: a\n    type: 1\n    name: " + strings.Repeat("n", 101) + "\n    description: D\n", want: metadata.ErrNameLengthOutOfRange},
		{name: "long description", body: "fields:\n  - key: a\n    type: 1\n    name: N\n    description: " + strings.Repeat("d", 101) + "\n", want: metadata.ErrDescriptionLengthOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(MustNewDocument(SourceFromFS("decl.yaml"), []byte(tt.body)))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseDescriptionOverride(t *testing.T) {
	body := "fields:\n  - key: a\n    type: 1\n    name: N\n    description: " + strings.Repeat("d", 150) + "\n    description_max_length: 200\n"
	def, err := Parse(MustNewDocument(SourceFromFS("decl.yaml"), []byte(body)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	spec, _ := def.Field("a")
	if spec.DescriptionMaxLength() != 200 {
		t.Fatalf("override not applied: %d", spec.DescriptionMaxLength())
	}
}

func TestDecodeRejectsUnknownMembers(t *testing.T) {
	_, err := Decode([]byte("fields: []\nplatform: oops\n"))
	if err == nil {
		t.Fatalf("expected unknown member to be rejected")
	}
	if _, err := Decode([]byte("")); err == nil {
		t.Fatalf("expected empty document to be rejected")
	}
}

func TestFromDefinitionRoundTrip(t *testing.T) {
	def, err := Parse(MustNewDocument(SourceFromFile("library.yaml"), []byte(libraryYAML)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	data, err := FromDefinition(def).Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := Parse(MustNewDocument(SourceFromFile("roundtrip.yaml"), data))
	if err != nil {
		t.Fatalf("re-parse:\n%s\n%v", data, err)
	}

	if diff := cmp.Diff(def.ToSchema(), again.ToSchema()); diff != "" {
		t.Fatalf("schema mismatch after round trip (-want +got):\n%s", diff)
	}
	if again.TimestampEncoding() != def.TimestampEncoding() {
		t.Fatalf("timestamp encoding lost: %q", again.TimestampEncoding())
	}
	if _, ok := again.Field("books"); !ok {
		t.Fatalf("declared field name lost:\n%s", data)
	}
}

func TestResolveSource(t *testing.T) {
	src, err := ResolveSource("https://example.com/decl.yaml")
	if err != nil || src.Kind() != SourceKindURL {
		t.Fatalf("expected url source, got %v (%v)", src, err)
	}
	src, err = ResolveSource("./decl.yaml")
	if err != nil || src.Kind() != SourceKindFile || src.Location() != "decl.yaml" {
		t.Fatalf("expected cleaned file source, got %v (%v)", src, err)
	}
	if _, err := ResolveSource(""); err == nil {
		t.Fatalf("expected empty location to fail")
	}
}

func TestNewDocumentCopiesInput(t *testing.T) {
	raw := []byte("fields: []")
	doc, err := NewDocument(SourceFromFS("a.yaml"), raw)
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	raw[0] = 'X'
	if string(doc.Raw()) != "fields: []" {
		t.Fatalf("document aliased caller buffer")
	}
	if _, err := NewDocument(nil, raw); err == nil {
		t.Fatalf("expected nil source to fail")
	}
	if _, err := NewDocument(SourceFromFS("a.yaml"), nil); err == nil {
		t.Fatalf("expected empty payload to fail")
	}
}
