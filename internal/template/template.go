package template

import (
	_ "embed"
)

//go:embed config.yaml
var DefaultConfig string

// DescriberDir is the name of the describer configuration directory.
const DescriberDir = ".describer"

// File name constants for consistent usage across the codebase.
const (
	ConfigFile  = "config.yaml"
	HistoryFile = "history.db"
	EnvFile     = ".env" // Read from the working directory, not DescriberDir
)

// DefaultFiles returns the default files to create in .describer/
func DefaultFiles() map[string]string {
	return map[string]string{
		ConfigFile: DefaultConfig,
	}
}
