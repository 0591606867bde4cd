package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrMalformedResponse wraps response documents whose identity or metadata
// members have the wrong JSON shape.
var ErrMalformedResponse = errors.New("metadata: malformed response")

// FieldDecl pairs a declared field name with its FieldSpec template. The
// name addresses the field in Instantiate and With; the field spec's key is the
// wire name. An empty Name defaults to the key.
type FieldDecl struct {
	Name string
	Spec FieldSpec
}

// Declare is shorthand for FieldDecl{Name: name, Spec: spec}.
func Declare(name string, spec FieldSpec) FieldDecl {
	return FieldDecl{Name: name, Spec: spec}
}

// Option configures a Definition.
type Option func(*definitionOptions)

type definitionOptions struct {
	timestamps TimestampEncoding
}

// WithTimestampEncoding selects the wire format for timestamp fields.
func WithTimestampEncoding(encoding TimestampEncoding) Option {
	return func(opts *definitionOptions) {
		opts.timestamps = encoding
	}
}

// Identity carries the two identity members of a value payload. An empty
// PlatformUsername is omitted from the payload.
type Identity struct {
	PlatformName     string
	PlatformUsername string
}

// Definition is the immutable, declared shape of a metadata record.
type Definition struct {
	platformName string
	timestamps   TimestampEncoding
	fields       []FieldDecl
	byName       map[string]int
	byKey        map[string]int
}

// Define validates the declaration and returns a Definition. The field count
// is checked here and nowhere else. Declaration order is kept and drives
// ToSchema. Values carried by the templates are dropped.
func Define(platformName string, decls []FieldDecl, options ...Option) (*Definition, error) {
	opts := definitionOptions{timestamps: TimestampRFC3339}
	for _, opt := range options {
		opt(&opts)
	}
	encoding, err := ParseTimestampEncoding(string(opts.timestamps))
	if err != nil {
		return nil, err
	}
	opts.timestamps = encoding

	if err := ValidateFieldCount(len(decls)); err != nil {
		return nil, err
	}

	def := &Definition{
		platformName: platformName,
		timestamps:   opts.timestamps,
		fields:       make([]FieldDecl, 0, len(decls)),
		byName:       make(map[string]int, len(decls)),
		byKey:        make(map[string]int, len(decls)),
	}

	for _, decl := range decls {
		spec := decl.Spec
		// A zero FieldSpec never went through NewFieldSpec.
		if err := ValidateKey(spec.Key()); err != nil {
			return nil, err
		}
		name := decl.Name
		if name == "" {
			name = spec.Key()
		}
		if _, exists := def.byName[name]; exists {
			return nil, &DuplicateFieldError{Name: name}
		}
		if _, exists := def.byKey[spec.Key()]; exists {
			return nil, &DuplicateFieldError{Name: spec.Key()}
		}

		spec.value = Value{}
		spec.hasValue = false

		def.byName[name] = len(def.fields)
		def.byKey[spec.Key()] = len(def.fields)
		def.fields = append(def.fields, FieldDecl{Name: name, Spec: spec})
	}

	return def, nil
}

// MustDefine panics if the declaration is invalid.
func MustDefine(platformName string, decls []FieldDecl, options ...Option) *Definition {
	def, err := Define(platformName, decls, options...)
	if err != nil {
		panic(err)
	}
	return def
}

// PlatformName returns the default platform name.
func (d *Definition) PlatformName() string { return d.platformName }

// TimestampEncoding returns the wire format used for timestamp fields.
func (d *Definition) TimestampEncoding() TimestampEncoding { return d.timestamps }

// Len returns the number of declared fields.
func (d *Definition) Len() int { return len(d.fields) }

// Fields returns the declarations in order. The slice is a copy.
func (d *Definition) Fields() []FieldDecl {
	out := make([]FieldDecl, len(d.fields))
	copy(out, d.fields)
	return out
}

// Field looks up a declaration by field name.
func (d *Definition) Field(name string) (FieldSpec, bool) {
	idx, ok := d.byName[name]
	if !ok {
		return FieldSpec{}, false
	}
	return d.fields[idx].Spec, true
}

// FieldByKey looks up a declaration by wire key and returns its field name.
func (d *Definition) FieldByKey(key string) (string, FieldSpec, bool) {
	idx, ok := d.byKey[key]
	if !ok {
		return "", FieldSpec{}, false
	}
	decl := d.fields[idx]
	return decl.Name, decl.Spec, true
}

// ToSchema returns one schema entry per declared field in declaration order.
func (d *Definition) ToSchema() []SchemaEntry {
	entries := make([]SchemaEntry, 0, len(d.fields))
	for _, decl := range d.fields {
		entries = append(entries, decl.Spec.ToSchemaEntry())
	}
	return entries
}

// Instantiate builds an Instance from values keyed by field name. Fields not
// present in values stay unset, as do nil values. An empty
// identity.PlatformName falls back to the definition default.
func (d *Definition) Instantiate(identity Identity, values map[string]any) (*Instance, error) {
	inst, err := d.newInstance(identity)
	if err != nil {
		return nil, err
	}

	for _, name := range sortedKeys(values) {
		idx, ok := d.byName[name]
		if !ok {
			return nil, &UnknownFieldError{Name: name}
		}
		if err := inst.assign(idx, values[name], false); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// FromResponse rebuilds an Instance from a platform response. Metadata keys
// are wire keys and go through the same validation as Instantiate; unknown
// keys and mismatched kinds are errors.
func (d *Definition) FromResponse(response map[string]any) (*Instance, error) {
	identity, err := identityFromResponse(response)
	if err != nil {
		return nil, err
	}

	inst, err := d.newInstance(identity)
	if err != nil {
		return nil, err
	}

	var values map[string]any
	switch raw := response["metadata"].(type) {
	case nil:
	case map[string]any:
		values = raw
	default:
		return nil, fmt.Errorf("%w: metadata must be an object, got %s", ErrMalformedResponse, describeRaw(raw))
	}

	for _, key := range sortedKeys(values) {
		idx, ok := d.byKey[key]
		if !ok {
			return nil, &UnknownFieldError{Name: key}
		}
		if err := inst.assign(idx, values[key], true); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// ParseResponse decodes a JSON response body and calls FromResponse. Numbers
// are decoded as json.Number so integers are not widened to floats.
func (d *Definition) ParseResponse(data []byte) (*Instance, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var response map[string]any
	if err := dec.Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return d.FromResponse(response)
}

func (d *Definition) newInstance(identity Identity) (*Instance, error) {
	if identity.PlatformName == "" {
		identity.PlatformName = d.platformName
	}
	if identity.PlatformName == "" {
		return nil, ErrPlatformNameRequired
	}

	specs := make([]FieldSpec, len(d.fields))
	for i, decl := range d.fields {
		specs[i] = decl.Spec
	}
	return &Instance{def: d, identity: identity, fields: specs}, nil
}

func identityFromResponse(response map[string]any) (Identity, error) {
	var identity Identity
	for member, target := range map[string]*string{
		"platform_name":     &identity.PlatformName,
		"platform_username": &identity.PlatformUsername,
	} {
		switch raw := response[member].(type) {
		case nil:
		case string:
			*target = raw
		default:
			return Identity{}, fmt.Errorf("%w: %s must be a string, got %s", ErrMalformedResponse, member, describeRaw(raw))
		}
	}
	return identity, nil
}

// Instance is a value-populated realization of a Definition. Instances are
// never modified after construction.
type Instance struct {
	def      *Definition
	identity Identity
	fields   []FieldSpec
}

// Definition returns the definition the instance was built from.
func (i *Instance) Definition() *Definition { return i.def }

// PlatformName returns the platform name carried by the instance.
func (i *Instance) PlatformName() string { return i.identity.PlatformName }

// PlatformUsername returns the platform username, or "" when unset.
func (i *Instance) PlatformUsername() string { return i.identity.PlatformUsername }

// Identity returns both identity members.
func (i *Instance) Identity() Identity { return i.identity }

// Value returns the value of the named field, or false when the field is
// unset or undeclared.
func (i *Instance) Value(name string) (Value, bool) {
	idx, ok := i.def.byName[name]
	if !ok {
		return Value{}, false
	}
	return i.fields[idx].Value()
}

// Values returns the set values keyed by field name.
func (i *Instance) Values() map[string]Value {
	out := make(map[string]Value, len(i.fields))
	for idx, spec := range i.fields {
		if v, ok := spec.Value(); ok {
			out[i.def.fields[idx].Name] = v
		}
	}
	return out
}

// With returns a copy of the instance with one field replaced. A nil raw
// clears the field.
func (i *Instance) With(name string, raw any) (*Instance, error) {
	idx, ok := i.def.byName[name]
	if !ok {
		return nil, &UnknownFieldError{Name: name}
	}
	next := &Instance{def: i.def, identity: i.identity, fields: make([]FieldSpec, len(i.fields))}
	copy(next.fields, i.fields)
	if err := next.assign(idx, raw, false); err != nil {
		return nil, err
	}
	return next, nil
}

// ToMetadataPayload returns the value payload. Unset fields are omitted.
func (i *Instance) ToMetadataPayload() ValuePayload {
	metadata := make(map[string]any, len(i.fields))
	for _, spec := range i.fields {
		v, ok := spec.Value()
		if !ok {
			continue
		}
		metadata[spec.Key()] = i.def.encode(v)
	}
	return ValuePayload{
		PlatformName:     i.identity.PlatformName,
		PlatformUsername: i.identity.PlatformUsername,
		Metadata:         metadata,
	}
}

// assign validates raw against the field's tag. Wire forms of timestamps are
// only decoded for platform responses; callers must pass time.Time.
func (i *Instance) assign(idx int, raw any, fromWire bool) error {
	decl := i.def.fields[idx]
	if raw != nil && decl.Spec.Tag().ValueKind() == KindTimestamp {
		if fromWire {
			if t, ok := i.def.timestamps.Decode(raw); ok {
				raw = t
			}
		}
		switch v := raw.(type) {
		case time.Time:
			raw = i.def.timestamps.Normalize(v)
		case Value:
			if t, ok := v.Time(); ok {
				raw = TimestampValue(i.def.timestamps.Normalize(t))
			}
		}
	}
	spec, err := decl.Spec.withValue(decl.Name, raw)
	if err != nil {
		return err
	}
	i.fields[idx] = spec
	return nil
}

func (d *Definition) encode(v Value) any {
	switch v.Kind() {
	case KindInteger:
		i, _ := v.Int()
		return i
	case KindTimestamp:
		t, _ := v.Time()
		return d.timestamps.Encode(t)
	case KindBoolean:
		b, _ := v.Bool()
		return b
	default:
		return nil
	}
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
