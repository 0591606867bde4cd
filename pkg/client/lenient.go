package client

import (
	"encoding/json"
	"strconv"

	"github.com/goliatone/go-roleconnections/pkg/metadata"
)

// normalizeResponse rewrites string metadata values into the typed wire forms
// of their fields. Values that do not parse are left untouched so the core
// still reports them.
func normalizeResponse(def *metadata.Definition, response map[string]any) map[string]any {
	values, ok := response["metadata"].(map[string]any)
	if !ok {
		return response
	}

	normalized := make(map[string]any, len(values))
	for key, raw := range values {
		normalized[key] = raw
		s, isString := raw.(string)
		if !isString {
			continue
		}
		_, spec, declared := def.FieldByKey(key)
		if !declared {
			continue
		}
		switch spec.Tag().ValueKind() {
		case metadata.KindInteger:
			if _, err := strconv.ParseInt(s, 10, 64); err == nil {
				normalized[key] = json.Number(s)
			}
		case metadata.KindBoolean:
			if b, err := strconv.ParseBool(s); err == nil {
				normalized[key] = b
			}
		case metadata.KindTimestamp:
			if def.TimestampEncoding() == metadata.TimestampUnixSeconds {
				if _, err := strconv.ParseInt(s, 10, 64); err == nil {
					normalized[key] = json.Number(s)
				}
			}
		}
	}

	out := make(map[string]any, len(response))
	for k, v := range response {
		out[k] = v
	}
	out["metadata"] = normalized
	return out
}
