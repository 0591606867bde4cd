package metadata

import (
	"fmt"
	"time"
)

// ValueKind is the value family a FieldTypeTag compares against.
type ValueKind int

const (
	KindInteger ValueKind = iota + 1
	KindTimestamp
	KindBoolean
)

// String returns the lower-case family name used in error messages.
func (k ValueKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindTimestamp:
		return "timestamp"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value holds a single field value. Exactly one of the typed payloads is
// meaningful, selected by Kind. The zero Value has no kind and is never
// stored on a FieldSpec.
type Value struct {
	kind ValueKind
	i    int64
	t    time.Time
	b    bool
}

// IntegerValue wraps an integer field value.
func IntegerValue(v int64) Value {
	return Value{kind: KindInteger, i: v}
}

// TimestampValue wraps a timestamp field value. Timestamps are normalised to
// UTC so equal instants compare equal regardless of the input location.
func TimestampValue(v time.Time) Value {
	return Value{kind: KindTimestamp, t: v.UTC()}
}

// BooleanValue wraps a boolean field value.
func BooleanValue(v bool) Value {
	return Value{kind: KindBoolean, b: v}
}

// Kind reports the value family.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Int returns the integer payload.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInteger
}

// Time returns the timestamp payload.
func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == KindTimestamp
}

// Bool returns the boolean payload.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

// Interface returns the payload as a plain Go value (int64, time.Time or
// bool), or nil for the zero Value.
func (v Value) Interface() any {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindTimestamp:
		return v.t
	case KindBoolean:
		return v.b
	default:
		return nil
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.i == other.i
	case KindTimestamp:
		return v.t.Equal(other.t)
	case KindBoolean:
		return v.b == other.b
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindTimestamp:
		return v.t.Format(time.RFC3339)
	case KindBoolean:
		return fmt.Sprintf("%t", v.b)
	default:
		return "<unset>"
	}
}
