package metadata

import "strconv"

// FieldOption configures optional FieldSpec attributes.
type FieldOption func(*fieldOptions)

type fieldOptions struct {
	nameLocalizations        map[string]string
	descriptionLocalizations map[string]string
	descriptionMaxLength     int
}

// WithNameLocalizations sets the locale → name map. Contents are passed
// through unvalidated.
func WithNameLocalizations(localizations map[string]string) FieldOption {
	return func(opts *fieldOptions) {
		opts.nameLocalizations = copyLocalizations(localizations)
	}
}

// WithDescriptionLocalizations sets the locale → description map. Contents
// are passed through unvalidated.
func WithDescriptionLocalizations(localizations map[string]string) FieldOption {
	return func(opts *fieldOptions) {
		opts.descriptionLocalizations = copyLocalizations(localizations)
	}
}

// WithDescriptionMaxLength overrides DefaultDescriptionMaxLength for one
// field.
func WithDescriptionMaxLength(max int) FieldOption {
	return func(opts *fieldOptions) {
		opts.descriptionMaxLength = max
	}
}

// FieldSpec is one declared comparison field plus its optional current
// value. FieldSpec is a value type; WithValue returns a modified copy.
type FieldSpec struct {
	key         string
	name        string
	description string
	tag         FieldTypeTag
	opts        fieldOptions

	value    Value
	hasValue bool
}

// NewFieldSpec validates the static field metadata and returns the field spec
// without a value.
func NewFieldSpec(key, name, description string, tag FieldTypeTag, options ...FieldOption) (FieldSpec, error) {
	opts := fieldOptions{descriptionMaxLength: DefaultDescriptionMaxLength}
	for _, opt := range options {
		opt(&opts)
	}

	if err := ValidateKey(key); err != nil {
		return FieldSpec{}, err
	}
	if err := ValidateName(name); err != nil {
		return FieldSpec{}, err
	}
	if err := ValidateDescription(description, opts.descriptionMaxLength); err != nil {
		return FieldSpec{}, err
	}
	if !tag.Valid() {
		return FieldSpec{}, &InvalidFieldTypeError{Raw: strconv.Itoa(int(tag))}
	}

	return FieldSpec{
		key:         key,
		name:        name,
		description: description,
		tag:         tag,
		opts:        opts,
	}, nil
}

// MustFieldSpec panics if the field spec is invalid. Intended for package-level
// declarations.
func MustFieldSpec(key, name, description string, tag FieldTypeTag, options ...FieldOption) FieldSpec {
	spec, err := NewFieldSpec(key, name, description, tag, options...)
	if err != nil {
		panic(err)
	}
	return spec
}

// Key returns the wire key the platform stores the value under.
func (f FieldSpec) Key() string { return f.key }

// Name returns the display name shown to users.
func (f FieldSpec) Name() string { return f.name }

// Description returns the display description.
func (f FieldSpec) Description() string { return f.description }

// Tag returns the comparison tag.
func (f FieldSpec) Tag() FieldTypeTag { return f.tag }

// DescriptionMaxLength returns the description cap the field spec was validated
// against.
func (f FieldSpec) DescriptionMaxLength() int { return f.opts.descriptionMaxLength }

// NameLocalizations returns a copy of the name localizations, or nil.
func (f FieldSpec) NameLocalizations() map[string]string {
	return copyLocalizations(f.opts.nameLocalizations)
}

// DescriptionLocalizations returns a copy of the description localizations,
// or nil.
func (f FieldSpec) DescriptionLocalizations() map[string]string {
	return copyLocalizations(f.opts.descriptionLocalizations)
}

// Value returns the current value, or false when the field is unset.
func (f FieldSpec) Value() (Value, bool) {
	return f.value, f.hasValue
}

// WithValue returns a copy of the field spec holding raw. A nil raw clears the
// value. Mismatched kinds fail with ValueTypeMismatchError naming the key.
func (f FieldSpec) WithValue(raw any) (FieldSpec, error) {
	return f.withValue(f.key, raw)
}

func (f FieldSpec) withValue(field string, raw any) (FieldSpec, error) {
	if raw == nil {
		f.value = Value{}
		f.hasValue = false
		return f, nil
	}
	v, err := ValidateValue(field, f.tag.ValueKind(), raw)
	if err != nil {
		return FieldSpec{}, err
	}
	f.value = v
	f.hasValue = true
	return f, nil
}

// ToSchemaEntry returns the schema descriptor entry for the field.
func (f FieldSpec) ToSchemaEntry() SchemaEntry {
	return SchemaEntry{
		Type:                     f.tag.Code(),
		Key:                      f.key,
		Name:                     f.name,
		NameLocalizations:        copyLocalizations(f.opts.nameLocalizations),
		Description:              f.description,
		DescriptionLocalizations: copyLocalizations(f.opts.descriptionLocalizations),
	}
}

func copyLocalizations(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for locale, text := range in {
		out[locale] = text
	}
	return out
}
