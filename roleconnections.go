// Package roleconnections wires the declaration loader and parser into a
// single entry point.
//
//	def, err := roleconnections.LoadDefinition(ctx, declaration.SourceFromFile("roleconn.yaml"))
//	inst, err := def.Instantiate(metadata.Identity{PlatformUsername: "reader"}, map[string]any{"books_read": 12})
//	payload := inst.ToMetadataPayload()
package roleconnections

import (
	"context"
	"fmt"

	internalloader "github.com/goliatone/go-roleconnections/internal/declaration/loader"
	"github.com/goliatone/go-roleconnections/pkg/declaration"
	"github.com/goliatone/go-roleconnections/pkg/metadata"
)

// NewLoader constructs a declaration loader while keeping the concrete type
// hidden from consumers.
func NewLoader(options ...declaration.LoaderOption) declaration.Loader {
	cfg := declaration.NewLoaderOptions(options...)
	return internalloader.New(cfg)
}

// LoadFile loads src and decodes it without building the Definition, so
// callers can adjust the file first.
func LoadFile(ctx context.Context, src declaration.Source, options ...declaration.LoaderOption) (declaration.File, error) {
	doc, err := NewLoader(options...).Load(ctx, src)
	if err != nil {
		return declaration.File{}, err
	}
	file, err := declaration.Decode(doc.Raw())
	if err != nil {
		return declaration.File{}, fmt.Errorf("%w (%s)", err, doc.Location())
	}
	return file, nil
}

// LoadDefinition loads src and parses it into a Definition.
func LoadDefinition(ctx context.Context, src declaration.Source, options ...declaration.LoaderOption) (*metadata.Definition, error) {
	doc, err := NewLoader(options...).Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return declaration.Parse(doc)
}
