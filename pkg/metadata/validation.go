package metadata

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"
)

// Declaration limits enforced by the platform.
const (
	MaxFields     = 5
	KeyMinLength  = 1
	KeyMaxLength  = 50
	NameMinLength = 1
	NameMaxLength = 100

	DescriptionMinLength = 1
	// DefaultDescriptionMaxLength is the enforced description cap. The
	// platform documentation mentions 200; fields that need the larger limit
	// opt in with WithDescriptionMaxLength.
	DefaultDescriptionMaxLength = 100
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidateKey checks the [a-z0-9_]{1,50} key constraint.
func ValidateKey(key string) error {
	if len(key) < KeyMinLength || len(key) > KeyMaxLength || !keyPattern.MatchString(key) {
		return &InvalidKeyFormatError{Key: key}
	}
	return nil
}

// ValidateName checks the display name length in runes.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < NameMinLength || n > NameMaxLength {
		return &NameLengthOutOfRangeError{Name: name, Min: NameMinLength, Max: NameMaxLength}
	}
	return nil
}

// ValidateDescription checks the description length in runes against max.
// A non-positive max selects DefaultDescriptionMaxLength.
func ValidateDescription(description string, max int) error {
	if max <= 0 {
		max = DefaultDescriptionMaxLength
	}
	n := utf8.RuneCountInString(description)
	if n < DescriptionMinLength || n > max {
		return &DescriptionLengthOutOfRangeError{Description: description, Min: DescriptionMinLength, Max: max}
	}
	return nil
}

// ValidateFieldCount enforces the MaxFields declaration limit.
func ValidateFieldCount(count int) error {
	if count > MaxFields {
		return &TooManyFieldsError{Count: count}
	}
	return nil
}

// ValidateValue converts raw into a Value of the expected kind without any
// cross-kind coercion. Accepted inputs:
//
//   - integer: Go signed/unsigned integers within int64 range, and
//     json.Number holding an integer literal;
//   - timestamp: time.Time;
//   - boolean: bool.
//
// A Value of the matching kind is accepted as-is. Everything else fails with
// ValueTypeMismatchError naming field.
func ValidateValue(field string, kind ValueKind, raw any) (Value, error) {
	mismatch := func() (Value, error) {
		return Value{}, &ValueTypeMismatchError{Field: field, Expected: kind, GotKind: kindOf(raw), Got: describeRaw(raw)}
	}

	if v, ok := raw.(Value); ok {
		if v.Kind() != kind {
			return mismatch()
		}
		return v, nil
	}

	switch kind {
	case KindInteger:
		i, ok := asInt64(raw)
		if !ok {
			return mismatch()
		}
		return IntegerValue(i), nil
	case KindTimestamp:
		t, ok := raw.(time.Time)
		if !ok {
			return mismatch()
		}
		return TimestampValue(t), nil
	case KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return mismatch()
		}
		return BooleanValue(b), nil
	default:
		return mismatch()
	}
}

func asInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return uintToInt64(uint64(v))
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return uintToInt64(v)
	case json.Number:
		i, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func uintToInt64(v uint64) (int64, bool) {
	if v > math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

func kindOf(raw any) ValueKind {
	switch v := raw.(type) {
	case Value:
		return v.Kind()
	case bool:
		return KindBoolean
	case time.Time:
		return KindTimestamp
	case uint:
		if _, ok := uintToInt64(uint64(v)); ok {
			return KindInteger
		}
	case uint64:
		if _, ok := uintToInt64(v); ok {
			return KindInteger
		}
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return KindInteger
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return KindInteger
		}
	}
	return 0
}

func describeRaw(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "null"
	case Value:
		return v.Kind().String()
	case bool:
		return "boolean"
	case uint:
		if _, ok := uintToInt64(uint64(v)); !ok {
			return "integer out of range"
		}
		return "integer"
	case uint64:
		if _, ok := uintToInt64(v); !ok {
			return "integer out of range"
		}
		return "integer"
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return "integer"
	case float32, float64:
		return "float"
	case string:
		return "string"
	case json.Number:
		return "number " + string(v)
	case time.Time:
		return "timestamp"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", raw)
	}
}
