package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-roleconnections/pkg/metadata"
)

// ErrUnknownUser is returned by a ValuesProvider with nothing to push for a
// user.
var ErrUnknownUser = errors.New("server: no metadata values for user")

// ValuesProvider supplies the identity and field values pushed for a user.
// Values are keyed by declared field name.
type ValuesProvider interface {
	Values(ctx context.Context, userID string) (metadata.Identity, map[string]any, error)
}

// ValuesFunc adapts a function to ValuesProvider.
type ValuesFunc func(ctx context.Context, userID string) (metadata.Identity, map[string]any, error)

// Values calls f.
func (f ValuesFunc) Values(ctx context.Context, userID string) (metadata.Identity, map[string]any, error) {
	return f(ctx, userID)
}

// UserValues is one user's entry in a values file.
type UserValues struct {
	PlatformName     string         `yaml:"platform_name,omitempty"`
	PlatformUsername string         `yaml:"platform_username,omitempty"`
	Metadata         map[string]any `yaml:"metadata"`
}

// StaticValues serves fixed values per user id.
type StaticValues map[string]UserValues

type valuesFile struct {
	Users StaticValues `yaml:"users"`
}

// LoadStaticValues reads a values file:
//
//	users:
//	  "80351110224678912":
//	    platform_username: reader
//	    metadata:
//	      books: 12
//	      member_since: "2024-01-02T03:04:05Z"
//
// Timestamps are written as RFC 3339 strings whatever the wire encoding.
func LoadStaticValues(path string) (StaticValues, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server: read values file: %w", err)
	}
	return ParseStaticValues(data)
}

// ParseStaticValues decodes the values file format.
func ParseStaticValues(data []byte) (StaticValues, error) {
	var file valuesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("server: decode values file: %w", err)
	}
	if file.Users == nil {
		return StaticValues{}, nil
	}
	return file.Users, nil
}

// Values returns the file entry for userID, or ErrUnknownUser.
func (s StaticValues) Values(ctx context.Context, userID string) (metadata.Identity, map[string]any, error) {
	entry, ok := s[userID]
	if !ok {
		return metadata.Identity{}, nil, ErrUnknownUser
	}
	values := make(map[string]any, len(entry.Metadata))
	for k, v := range entry.Metadata {
		values[k] = fileValue(v)
	}
	return metadata.Identity{PlatformName: entry.PlatformName, PlatformUsername: entry.PlatformUsername}, values, nil
}

// fileValue turns RFC 3339 strings into time.Time. yaml.v3 leaves timestamps
// as strings when decoding into any, and no field kind accepts a string.
func fileValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return v
	}
	return t
}
