// Package metadata defines the role-connection metadata model: the eight
// comparison tags understood by the platform, the per-field declaration
// (FieldSpec), the stateless validation rules, and the Definition/Instance
// pair that produces the two wire shapes.
//
// A Definition is declared once, usually at process start, and is read-only
// afterwards. It is the only place the five-field limit is checked. An
// Instance is a value object built per user or request from a Definition;
// every mutation-like call returns a new Instance.
//
// The package performs no I/O. Transport, OAuth and persistence live in
// pkg/client, pkg/oauth and internal/tokenstore.
package metadata
