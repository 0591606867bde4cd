package metadata

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestValidateKeyBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "lower with digits", key: "abc_123"},
		{name: "upper case", key: "ABC", wantErr: true},
		{name: "fifty chars", key: strings.Repeat("a", 50)},
		{name: "fifty one chars", key: strings.Repeat("a", 51), wantErr: true},
		{name: "empty", key: "", wantErr: true},
		{name: "dash", key: "books-read", wantErr: true},
		{name: "space", key: "books read", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKeyFormat) {
					t.Fatalf("expected ErrInvalidKeyFormat, got %v", err)
				}
				var keyErr *InvalidKeyFormatError
				if !errors.As(err, &keyErr) || keyErr.Key != tt.key {
					t.Fatalf("expected InvalidKeyFormatError for %q, got %#v", tt.key, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateNameBoundaries(t *testing.T) {
	if err := ValidateName(strings.Repeat("n", 100)); err != nil {
		t.Fatalf("100 char name rejected: %v", err)
	}
	if err := ValidateName(strings.Repeat("n", 101)); !errors.Is(err, ErrNameLengthOutOfRange) {
		t.Fatalf("expected ErrNameLengthOutOfRange for 101 chars, got %v", err)
	}
	if err := ValidateName(""); !errors.Is(err, ErrNameLengthOutOfRange) {
		t.Fatalf("expected ErrNameLengthOutOfRange for empty name, got %v", err)
	}
	// Runes, not bytes.
	if err := ValidateName(strings.Repeat("é", 100)); err != nil {
		t.Fatalf("100 rune name rejected: %v", err)
	}
}

func TestValidateDescriptionHonoursMax(t *testing.T) {
	if err := ValidateDescription(strings.Repeat("d", 100), 0); err != nil {
		t.Fatalf("default max rejected 100 chars: %v", err)
	}

	err := ValidateDescription(strings.Repeat("d", 101), 0)
	var descErr *DescriptionLengthOutOfRangeError
	if !errors.As(err, &descErr) {
		t.Fatalf("expected DescriptionLengthOutOfRangeError, got %v", err)
	}
	if descErr.Max != DefaultDescriptionMaxLength {
		t.Fatalf("max mismatch: got %d", descErr.Max)
	}

	if err := ValidateDescription(strings.Repeat("d", 200), 200); err != nil {
		t.Fatalf("override max rejected 200 chars: %v", err)
	}
	if err := ValidateDescription("", 200); !errors.Is(err, ErrDescriptionLengthOutOfRange) {
		t.Fatalf("expected empty description rejected, got %v", err)
	}
}

func TestValidateValueKinds(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	accept := []struct {
		name string
		kind ValueKind
		raw  any
		want Value
	}{
		{name: "int", kind: KindInteger, raw: 5, want: IntegerValue(5)},
		{name: "int64", kind: KindInteger, raw: int64(-3), want: IntegerValue(-3)},
		{name: "uint32", kind: KindInteger, raw: uint32(7), want: IntegerValue(7)},
		{name: "json number", kind: KindInteger, raw: json.Number("10"), want: IntegerValue(10)},
		{name: "value", kind: KindInteger, raw: IntegerValue(9), want: IntegerValue(9)},
		{name: "time", kind: KindTimestamp, raw: now, want: TimestampValue(now)},
		{name: "bool", kind: KindBoolean, raw: false, want: BooleanValue(false)},
	}
	for _, tt := range accept {
		t.Run("accept "+tt.name, func(t *testing.T) {
			got, err := ValidateValue("field", tt.kind, tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("value mismatch: got %v want %v", got, tt.want)
			}
		})
	}

	reject := []struct {
		name    string
		kind    ValueKind
		raw     any
		got     string
		gotKind ValueKind
	}{
		{name: "string for integer", kind: KindInteger, raw: "abc", got: "string"},
		{name: "numeric string for integer", kind: KindInteger, raw: "5", got: "string"},
		{name: "float for integer", kind: KindInteger, raw: 5.0, got: "float"},
		{name: "fractional json number", kind: KindInteger, raw: json.Number("1.5"), got: "number 1.5"},
		{name: "overflowing uint64", kind: KindInteger, raw: uint64(math.MaxUint64), got: "integer out of range"},
		{name: "bool for integer", kind: KindInteger, raw: true, got: "boolean", gotKind: KindBoolean},
		{name: "int for boolean", kind: KindBoolean, raw: 1, got: "integer", gotKind: KindInteger},
		{name: "string for timestamp", kind: KindTimestamp, raw: "2024-05-01T12:00:00Z", got: "string"},
		{name: "time for boolean", kind: KindBoolean, raw: now, got: "timestamp", gotKind: KindTimestamp},
		{name: "boolean value for integer", kind: KindInteger, raw: BooleanValue(true), got: "boolean", gotKind: KindBoolean},
	}
	for _, tt := range reject {
		t.Run("reject "+tt.name, func(t *testing.T) {
			_, err := ValidateValue("books_read", tt.kind, tt.raw)
			var mismatch *ValueTypeMismatchError
			if !errors.As(err, &mismatch) {
				t.Fatalf("expected ValueTypeMismatchError, got %v", err)
			}
			if mismatch.Field != "books_read" || mismatch.Expected != tt.kind || mismatch.Got != tt.got || mismatch.GotKind != tt.gotKind {
				t.Fatalf("mismatch details: %#v", mismatch)
			}
			if !errors.Is(err, ErrValueTypeMismatch) {
				t.Fatalf("expected errors.Is ErrValueTypeMismatch")
			}
		})
	}
}

func TestValidateFieldCount(t *testing.T) {
	for n := 0; n <= MaxFields; n++ {
		if err := ValidateFieldCount(n); err != nil {
			t.Fatalf("count %d rejected: %v", n, err)
		}
	}
	err := ValidateFieldCount(6)
	var tooMany *TooManyFieldsError
	if !errors.As(err, &tooMany) || tooMany.Count != 6 {
		t.Fatalf("expected TooManyFieldsError{6}, got %v", err)
	}
}
