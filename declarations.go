package roleconnections

import (
	"embed"
	"io/fs"
)

//go:embed declarations/*.yaml declarations/*.json
var embeddedDeclarations embed.FS

// ExampleDeclarationsFS exposes the bundled example declaration files. Pair
// it with declaration.WithFileSystem and declaration.SourceFromFS:
//
//	def, err := roleconnections.LoadDefinition(ctx,
//	  declaration.SourceFromFS("library.yaml"),
//	  declaration.WithFileSystem(roleconnections.ExampleDeclarationsFS()),
//	)
func ExampleDeclarationsFS() fs.FS {
	sub, err := fs.Sub(embeddedDeclarations, "declarations")
	if err != nil {
		return embeddedDeclarations
	}
	return sub
}
