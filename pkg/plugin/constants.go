// Package plugin provides the public API for vibrant strategy plugins.
package plugin

import (
	"github.com/hashicorp/go-plugin"
)

const (
	// ProtocolVersion defines the current plugin API version.
	// Format: MAJOR.MINOR.PATCH.
	ProtocolVersion = "0.1.0"

	// QuantizerPluginName is the go-plugin name a quantizer is served under.
	QuantizerPluginName = "quantizer"

	// GeneratorPluginName is the go-plugin name a generator is served under.
	GeneratorPluginName = "generator"
)

// Handshake is the handshake configuration for go-plugin protocol.
// This ensures that plugins using go-plugin can only connect to compatible hosts.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  0, // Major version from ProtocolVersion
	MagicCookieKey:   "VIBRANT_PLUGIN",
	MagicCookieValue: "vibrant_palette_strategy",
}

// PluginSet returns the go-plugin map for every strategy kind, with no
// implementations attached. Hosts use it to dispense clients.
func PluginSet() map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		QuantizerPluginName: &QuantizerRPC{},
		GeneratorPluginName: &GeneratorRPC{},
	}
}
