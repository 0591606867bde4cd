package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldTypeTag is the comparison type the platform applies to a metadata
// field. The numeric value is the wire code and must never change.
type FieldTypeTag int

const (
	IntegerLessThanOrEqual     FieldTypeTag = 1
	IntegerGreaterThanOrEqual  FieldTypeTag = 2
	IntegerEqual               FieldTypeTag = 3
	IntegerNotEqual            FieldTypeTag = 4
	DatetimeLessThanOrEqual    FieldTypeTag = 5
	DatetimeGreaterThanOrEqual FieldTypeTag = 6
	BooleanEqual               FieldTypeTag = 7
	BooleanNotEqual            FieldTypeTag = 8
)

var tagNames = map[FieldTypeTag]string{
	IntegerLessThanOrEqual:     "integer_less_than_or_equal",
	IntegerGreaterThanOrEqual:  "integer_greater_than_or_equal",
	IntegerEqual:               "integer_equal",
	IntegerNotEqual:            "integer_not_equal",
	DatetimeLessThanOrEqual:    "datetime_less_than_or_equal",
	DatetimeGreaterThanOrEqual: "datetime_greater_than_or_equal",
	BooleanEqual:               "boolean_equal",
	BooleanNotEqual:            "boolean_not_equal",
}

// AllFieldTypeTags returns the closed tag set in wire-code order.
func AllFieldTypeTags() []FieldTypeTag {
	return []FieldTypeTag{
		IntegerLessThanOrEqual,
		IntegerGreaterThanOrEqual,
		IntegerEqual,
		IntegerNotEqual,
		DatetimeLessThanOrEqual,
		DatetimeGreaterThanOrEqual,
		BooleanEqual,
		BooleanNotEqual,
	}
}

// Code returns the platform wire code (1-8).
func (t FieldTypeTag) Code() int {
	return int(t)
}

// ValueKind returns the value family the tag compares against.
func (t FieldTypeTag) ValueKind() ValueKind {
	switch t {
	case IntegerLessThanOrEqual, IntegerGreaterThanOrEqual, IntegerEqual, IntegerNotEqual:
		return KindInteger
	case DatetimeLessThanOrEqual, DatetimeGreaterThanOrEqual:
		return KindTimestamp
	case BooleanEqual, BooleanNotEqual:
		return KindBoolean
	default:
		return 0
	}
}

// Valid reports whether the tag belongs to the closed set.
func (t FieldTypeTag) Valid() bool {
	_, ok := tagNames[t]
	return ok
}

func (t FieldTypeTag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FieldTypeTag(%d)", int(t))
}

// ParseFieldTypeTag resolves a tag from its textual name or its wire code.
func ParseFieldTypeTag(raw string) (FieldTypeTag, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return 0, &InvalidFieldTypeError{Raw: raw}
	}
	if code, err := strconv.Atoi(trimmed); err == nil {
		tag := FieldTypeTag(code)
		if !tag.Valid() {
			return 0, &InvalidFieldTypeError{Raw: raw}
		}
		return tag, nil
	}
	for tag, name := range tagNames {
		if name == trimmed {
			return tag, nil
		}
	}
	return 0, &InvalidFieldTypeError{Raw: raw}
}
