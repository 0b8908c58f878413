package padship

import (
	"github.com/bft-labs/padship/pkg/log"
	"github.com/bft-labs/padship/pkg/relay"
)

// Version information for the padship facade.
const (
	// Version is the current version of the padship module.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "1.0.0"
)

// ModuleVersions returns the version of every sub-module padship is built from.
func ModuleVersions() map[string]string {
	return map[string]string{
		"padship": Version,
		"log":     log.Version,
		"relay":   relay.Version,
	}
}

// CompatibilityMatrix returns the minimum compatible version of every sub-module.
func CompatibilityMatrix() map[string]string {
	return map[string]string{
		"padship": MinCompatibleVersion,
		"log":     log.MinCompatibleVersion,
		"relay":   relay.MinCompatibleVersion,
	}
}
