// Package config defines the format-agnostic configuration tree used by every
// model in the application, along with the Loader interface implemented by the
// concrete file-format packages (HCL/JSON, TOML).
//
// A configuration is a Map of named sections. Each entry is a Value, a tagged
// union of scalar (null, bool, number, string), list, nested map, or an opaque
// Go object. Object values exist so callers can hand already-constructed
// collaborators (such as a grid) to a model through the same tree that file
// based configuration flows through.
//
// Defaults are merged into user configuration with Merge. Required leaves are
// read with the typed lookups on Map, which fail with an *Error naming the full
// dotted path instead of a bare lookup failure.
package config
