// Package config assembles the application configuration from environment
// variables, command-line flags, an optional JSON file, and built-in
// defaults, merged in that order of precedence.
//
// The main entry point is [GetStructuredConfig]. The merge is performed by
// an internal builder that collects one [StructuredConfig] layer per source
// and combines them with mergo, so that a field set by a higher-precedence
// source is never overwritten by a lower one.
package config
