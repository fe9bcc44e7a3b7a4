// Package types defines the configuration and entity types of a timeboard:
// labels and duty, markers, patterns, organizers, amendments, the
// construction Config, and the standard errors returned by the engine.
package types
