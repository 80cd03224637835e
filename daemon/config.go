package daemon

import (
	"github.com/drivenas/nasd/config"
	defaul "github.com/drivenas/nasd/config/default"
	"github.com/drivenas/nasd/config/file"
)

// DefaultConfigFileName is the configuration file read when no other is
// given.
const DefaultConfigFileName = "nasd.conf"

// GetConfigSources returns the configuration sources to merge, lowest
// priority first.
func GetConfigSources(path string) []config.Source {
	if path == "" {
		path = DefaultConfigFileName
	}
	return []config.Source{defaul.New(), file.New(path)}
}
