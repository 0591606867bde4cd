package declaration

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-roleconnections/pkg/metadata"
)

// File is the decoded shape of a declaration file.
type File struct {
	PlatformName      string      `yaml:"platform_name,omitempty" json:"platform_name,omitempty"`
	TimestampEncoding string      `yaml:"timestamp_encoding,omitempty" json:"timestamp_encoding,omitempty"`
	Fields            []FieldFile `yaml:"fields" json:"fields"`
}

// FieldFile declares one comparison field.
type FieldFile struct {
	Field                    string            `yaml:"field,omitempty" json:"field,omitempty"`
	Key                      string            `yaml:"key" json:"key"`
	Type                     TypeName          `yaml:"type" json:"type"`
	Name                     string            `yaml:"name" json:"name"`
	Description              string            `yaml:"description" json:"description"`
	DescriptionMaxLength     int               `yaml:"description_max_length,omitempty" json:"description_max_length,omitempty"`
	NameLocalizations        map[string]string `yaml:"name_localizations,omitempty" json:"name_localizations,omitempty"`
	DescriptionLocalizations map[string]string `yaml:"description_localizations,omitempty" json:"description_localizations,omitempty"`
}

// TypeName holds a field type as written in the file: a tag name such as
// "boolean_equal" or its wire code.
type TypeName string

// UnmarshalYAML accepts any scalar so numeric codes decode as-is.
func (t *TypeName) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("declaration: line %d: field type must be a scalar", node.Line)
	}
	*t = TypeName(node.Value)
	return nil
}

// Decode reads a declaration file. Unknown members are rejected. JSON input
// is accepted since it is valid YAML.
func Decode(data []byte) (File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, errors.New("declaration: document is empty")
		}
		return File{}, fmt.Errorf("declaration: decode: %w", err)
	}
	return file, nil
}

// Parse decodes doc and builds the Definition it declares.
func Parse(doc Document) (*metadata.Definition, error) {
	file, err := Decode(doc.raw)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, doc.Location())
	}
	def, err := file.Definition()
	if err != nil {
		return nil, fmt.Errorf("declaration: %s: %w", doc.Location(), err)
	}
	return def, nil
}

// Definition validates the file and builds the metadata.Definition.
func (f File) Definition() (*metadata.Definition, error) {
	encoding, err := metadata.ParseTimestampEncoding(f.TimestampEncoding)
	if err != nil {
		return nil, err
	}
	// Checked before the per-field work so oversized files fail with the
	// count error rather than a field error.
	if err := metadata.ValidateFieldCount(len(f.Fields)); err != nil {
		return nil, err
	}

	decls := make([]metadata.FieldDecl, 0, len(f.Fields))
	for i, field := range f.Fields {
		spec, err := field.Spec()
		if err != nil {
			return nil, fmt.Errorf("field %d (%s): %w", i, field.Key, err)
		}
		decls = append(decls, metadata.Declare(field.Field, spec))
	}

	return metadata.Define(f.PlatformName, decls, metadata.WithTimestampEncoding(encoding))
}

// Spec builds the FieldSpec described by the entry.
func (f FieldFile) Spec() (metadata.FieldSpec, error) {
	tag, err := metadata.ParseFieldTypeTag(string(f.Type))
	if err != nil {
		return metadata.FieldSpec{}, err
	}

	var options []metadata.FieldOption
	if f.NameLocalizations != nil {
		options = append(options, metadata.WithNameLocalizations(f.NameLocalizations))
	}
	if f.DescriptionLocalizations != nil {
		options = append(options, metadata.WithDescriptionLocalizations(f.DescriptionLocalizations))
	}
	if f.DescriptionMaxLength > 0 {
		options = append(options, metadata.WithDescriptionMaxLength(f.DescriptionMaxLength))
	}

	return metadata.NewFieldSpec(f.Key, f.Name, f.Description, tag, options...)
}

// FromDefinition converts a Definition back into its file form. Type names
// are written as tag names.
func FromDefinition(def *metadata.Definition) File {
	file := File{
		PlatformName:      def.PlatformName(),
		TimestampEncoding: string(def.TimestampEncoding()),
	}
	for _, decl := range def.Fields() {
		spec := decl.Spec
		entry := FieldFile{
			Key:                      spec.Key(),
			Type:                     TypeName(spec.Tag().String()),
			Name:                     spec.Name(),
			Description:              spec.Description(),
			NameLocalizations:        spec.NameLocalizations(),
			DescriptionLocalizations: spec.DescriptionLocalizations(),
		}
		if decl.Name != spec.Key() {
			entry.Field = decl.Name
		}
		if spec.DescriptionMaxLength() != metadata.DefaultDescriptionMaxLength {
			entry.DescriptionMaxLength = spec.DescriptionMaxLength()
		}
		file.Fields = append(file.Fields, entry)
	}
	return file
}

// Marshal encodes the file as YAML.
func (f File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("declaration: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("declaration: encode: %w", err)
	}
	return buf.Bytes(), nil
}
