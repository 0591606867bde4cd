package metadata

import (
	"fmt"
	"strings"
	"time"
)

// TimestampEncoding selects how timestamp values travel on the wire.
type TimestampEncoding string

const (
	// TimestampRFC3339 encodes timestamps as ISO-8601 strings. Default.
	TimestampRFC3339 TimestampEncoding = "rfc3339"
	// TimestampUnixSeconds encodes timestamps as integer seconds since the
	// Unix epoch.
	TimestampUnixSeconds TimestampEncoding = "unix"
)

// ParseTimestampEncoding resolves an encoding name. The empty string selects
// TimestampRFC3339.
func ParseTimestampEncoding(raw string) (TimestampEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "rfc3339", "iso8601":
		return TimestampRFC3339, nil
	case "unix", "epoch":
		return TimestampUnixSeconds, nil
	default:
		return "", fmt.Errorf("metadata: unknown timestamp encoding %q", raw)
	}
}

// Encode returns the wire representation of t.
func (e TimestampEncoding) Encode(t time.Time) any {
	switch e {
	case TimestampUnixSeconds:
		return t.Unix()
	default:
		return t.UTC().Format(time.RFC3339Nano)
	}
}

// Normalize drops the precision the encoding cannot carry, so a value read
// back from the wire equals the one that was assigned.
func (e TimestampEncoding) Normalize(t time.Time) time.Time {
	switch e {
	case TimestampUnixSeconds:
		return t.Truncate(time.Second).UTC()
	default:
		return t.Round(0).UTC()
	}
}

// Decode converts a wire representation back into a time. time.Time inputs
// pass through for either encoding; other inputs must match the encoding
// exactly.
func (e TimestampEncoding) Decode(raw any) (time.Time, bool) {
	if t, ok := raw.(time.Time); ok {
		return t, true
	}
	switch e {
	case TimestampUnixSeconds:
		secs, ok := asInt64(raw)
		if !ok {
			return time.Time{}, false
		}
		return time.Unix(secs, 0).UTC(), true
	default:
		s, ok := raw.(string)
		if !ok {
			return time.Time{}, false
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
}
