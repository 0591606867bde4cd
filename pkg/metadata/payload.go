package metadata

// SchemaEntry is one element of the schema descriptor registered with the
// platform. Localization maps are omitted when absent.
type SchemaEntry struct {
	Type                     int               `json:"type" yaml:"type"`
	Key                      string            `json:"key" yaml:"key"`
	Name                     string            `json:"name" yaml:"name"`
	NameLocalizations        map[string]string `json:"name_localizations,omitempty" yaml:"name_localizations,omitempty"`
	Description              string            `json:"description" yaml:"description"`
	DescriptionLocalizations map[string]string `json:"description_localizations,omitempty" yaml:"description_localizations,omitempty"`
}

// ValuePayload is the per-user body pushed to the platform. Metadata holds
// only fields with a value, keyed by wire key; values are int64, bool, or
// the definition's timestamp encoding.
type ValuePayload struct {
	PlatformName     string         `json:"platform_name"`
	PlatformUsername string         `json:"platform_username,omitempty"`
	Metadata         map[string]any `json:"metadata"`
}

// AsResponse returns the payload in the response shape accepted by
// Definition.FromResponse.
func (p ValuePayload) AsResponse() map[string]any {
	metadata := make(map[string]any, len(p.Metadata))
	for key, value := range p.Metadata {
		metadata[key] = value
	}
	out := map[string]any{
		"platform_name": p.PlatformName,
		"metadata":      metadata,
	}
	if p.PlatformUsername != "" {
		out["platform_username"] = p.PlatformUsername
	}
	return out
}
