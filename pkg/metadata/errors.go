package metadata

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Each typed error below matches exactly one of them
// and carries the structured details of the failure.
var (
	ErrTooManyFields               = errors.New("metadata: too many fields")
	ErrInvalidKeyFormat            = errors.New("metadata: invalid key format")
	ErrNameLengthOutOfRange        = errors.New("metadata: name length out of range")
	ErrDescriptionLengthOutOfRange = errors.New("metadata: description length out of range")
	ErrValueTypeMismatch           = errors.New("metadata: value type mismatch")
	ErrUnknownField                = errors.New("metadata: unknown field")
	ErrDuplicateField              = errors.New("metadata: duplicate field")
	ErrInvalidFieldType            = errors.New("metadata: invalid field type")
	ErrPlatformNameRequired        = errors.New("metadata: platform name is required")
)

// TooManyFieldsError reports a declaration with more than MaxFields fields.
type TooManyFieldsError struct {
	Count int
}

func (e *TooManyFieldsError) Error() string {
	return fmt.Sprintf("metadata: too many fields (%d declared, max %d)", e.Count, MaxFields)
}

func (e *TooManyFieldsError) Is(target error) bool { return target == ErrTooManyFields }

// InvalidKeyFormatError reports a key outside [a-z0-9_]{1,50}.
type InvalidKeyFormatError struct {
	Key string
}

func (e *InvalidKeyFormatError) Error() string {
	return fmt.Sprintf("metadata: invalid key %q: must be 1-%d characters of a-z, 0-9 or _", e.Key, KeyMaxLength)
}

func (e *InvalidKeyFormatError) Is(target error) bool { return target == ErrInvalidKeyFormat }

// NameLengthOutOfRangeError reports a name outside [Min, Max] runes.
type NameLengthOutOfRangeError struct {
	Name string
	Min  int
	Max  int
}

func (e *NameLengthOutOfRangeError) Error() string {
	return fmt.Sprintf("metadata: name %q must be %d-%d characters long", e.Name, e.Min, e.Max)
}

func (e *NameLengthOutOfRangeError) Is(target error) bool { return target == ErrNameLengthOutOfRange }

// DescriptionLengthOutOfRangeError reports a description outside [Min, Max]
// runes.
type DescriptionLengthOutOfRangeError struct {
	Description string
	Min         int
	Max         int
}

func (e *DescriptionLengthOutOfRangeError) Error() string {
	return fmt.Sprintf("metadata: description %q must be %d-%d characters long", e.Description, e.Min, e.Max)
}

func (e *DescriptionLengthOutOfRangeError) Is(target error) bool {
	return target == ErrDescriptionLengthOutOfRange
}

// ValueTypeMismatchError reports a value whose kind does not match the
// field's tag family. Got describes the rejected input ("float", "string",
// "number 1.5", ...).
type ValueTypeMismatchError struct {
	Field    string
	Expected ValueKind
	// GotKind is the value family raw belongs to, or zero when raw is not a
	// representable integer, timestamp or boolean.
	GotKind ValueKind
	Got     string
}

func (e *ValueTypeMismatchError) Error() string {
	return fmt.Sprintf("metadata: field %q expects %s value, got %s", e.Field, e.Expected, e.Got)
}

func (e *ValueTypeMismatchError) Is(target error) bool { return target == ErrValueTypeMismatch }

// UnknownFieldError reports a field name (or wire key, when parsing a
// response) that the definition does not declare.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("metadata: unknown field %q", e.Name)
}

func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }

// DuplicateFieldError reports two declarations sharing a field name or wire
// key.
type DuplicateFieldError struct {
	Name string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("metadata: field %q declared more than once", e.Name)
}

func (e *DuplicateFieldError) Is(target error) bool { return target == ErrDuplicateField }

// InvalidFieldTypeError reports a tag outside the closed set of eight.
type InvalidFieldTypeError struct {
	Raw string
}

func (e *InvalidFieldTypeError) Error() string {
	return fmt.Sprintf("metadata: invalid field type %q", e.Raw)
}

func (e *InvalidFieldTypeError) Is(target error) bool { return target == ErrInvalidFieldType }
