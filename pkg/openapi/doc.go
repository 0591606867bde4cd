// Package openapi describes the role-connection wire shapes as OpenAPI 3
// schemas and validates payloads against them. Schemas are derived from a
// metadata.Definition, so the value payload schema lists exactly the
// declared keys with the JSON type of each tag family.
package openapi
