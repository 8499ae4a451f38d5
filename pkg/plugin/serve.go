package plugin

import (
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

// ServeConfig lists the strategies a plugin binary provides. Nil entries are
// not served.
type ServeConfig struct {
	Quantizer QuantizerPlugin
	Generator GeneratorPlugin
	Logger    hclog.Logger
}

// Plugins returns the go-plugin map for the configured strategies.
func (c ServeConfig) Plugins() map[string]plugin.Plugin {
	plugins := make(map[string]plugin.Plugin)
	if c.Quantizer != nil {
		plugins[QuantizerPluginName] = &QuantizerRPC{Impl: c.Quantizer}
	}
	if c.Generator != nil {
		plugins[GeneratorPluginName] = &GeneratorRPC{Impl: c.Generator}
	}
	return plugins
}

// Serve runs the plugin server. It blocks until the host disconnects and is
// meant to be called from a plugin's main function.
func Serve(c ServeConfig) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins:         c.Plugins(),
		Logger:          c.Logger,
	})
}
