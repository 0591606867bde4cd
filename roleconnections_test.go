package roleconnections

import (
	"context"
	"io/fs"
	"testing"

	"github.com/goliatone/go-roleconnections/pkg/declaration"
	"github.com/goliatone/go-roleconnections/pkg/metadata"
)

func TestExampleDeclarationsFSContainsLibrary(t *testing.T) {
	fsys := ExampleDeclarationsFS()
	if _, err := fs.ReadFile(fsys, "library.yaml"); err != nil {
		t.Fatalf("expected library declaration to be readable: %v", err)
	}
	if _, err := fs.ReadFile(fsys, "minimal.json"); err != nil {
		t.Fatalf("expected minimal declaration to be readable: %v", err)
	}
}

func TestLoadDefinitionFromExampleFS(t *testing.T) {
	def, err := LoadDefinition(context.Background(),
		declaration.SourceFromFS("library.yaml"),
		declaration.WithFileSystem(ExampleDeclarationsFS()),
	)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	if def.PlatformName() != "Library" {
		t.Fatalf("platform name mismatch: %q", def.PlatformName())
	}

	schema := def.ToSchema()
	if len(schema) != 3 {
		t.Fatalf("expected 3 schema entries, got %d", len(schema))
	}
	wantTypes := []int{2, 5, 7}
	for i, entry := range schema {
		if entry.Type != wantTypes[i] {
			t.Fatalf("entry %d: type %d want %d", i, entry.Type, wantTypes[i])
		}
	}

	inst, err := def.Instantiate(metadata.Identity{}, map[string]any{"books": 4, "verified": true})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if got := len(inst.ToMetadataPayload().Metadata); got != 2 {
		t.Fatalf("expected 2 metadata keys, got %d", got)
	}
}

func TestLoadDefinitionJSON(t *testing.T) {
	def, err := LoadDefinition(context.Background(),
		declaration.SourceFromFS("minimal.json"),
		declaration.WithFileSystem(ExampleDeclarationsFS()),
	)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	spec, ok := def.Field("books_read")
	if !ok || spec.Tag() != metadata.IntegerGreaterThanOrEqual {
		t.Fatalf("expected books_read integer >= field, got %v (ok=%v)", spec.Tag(), ok)
	}
}

func TestLoadFileAllowsOverrides(t *testing.T) {
	file, err := LoadFile(context.Background(),
		declaration.SourceFromFS("library.yaml"),
		declaration.WithFileSystem(ExampleDeclarationsFS()),
	)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	file.TimestampEncoding = "unix"

	def, err := file.Definition()
	if err != nil {
		t.Fatalf("definition: %v", err)
	}
	if def.TimestampEncoding() != metadata.TimestampUnixSeconds {
		t.Fatalf("expected unix encoding, got %q", def.TimestampEncoding())
	}
}
