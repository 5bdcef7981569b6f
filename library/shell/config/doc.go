// Package config reads the configuration of the library from the environment (and an optional .env file)
// and builds the collaborators that depend on it: the slog logger and the retry options of the journal.
//
// This package is part of the shell (infrastructure) layer.
package config
