// Package contentdesk provides embedded resources for the contentdesk tools.
package contentdesk

import (
	_ "embed"
)

// DefaultConfig is the built-in configuration, overlaid by user files and environment.
//
//go:embed resources/config.yaml
var DefaultConfig []byte
