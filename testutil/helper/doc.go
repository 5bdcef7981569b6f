// Package helper provides test doubles shared by the package tests: a slog handler spy,
// a metrics collector spy and event store doubles that fail or conflict on demand.
package helper
