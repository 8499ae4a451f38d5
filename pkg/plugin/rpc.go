package plugin

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// QuantizerRPC wraps a QuantizerPlugin for go-plugin net/rpc.
type QuantizerRPC struct {
	plugin.Plugin
	Impl QuantizerPlugin
}

// Server returns an RPC server for this plugin.
func (p *QuantizerRPC) Server(*plugin.MuxBroker) (any, error) {
	return &QuantizerRPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *QuantizerRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &QuantizerRPCClient{client: c}, nil
}

// QuantizerRPCServer is the RPC server implementation for quantizer plugins.
type QuantizerRPCServer struct {
	Impl QuantizerPlugin
}

// Quantize implements the RPC method for quantization.
func (s *QuantizerRPCServer) Quantize(args QuantizeArgs, resp *[]SwatchData) error {
	swatches, err := s.Impl.Quantize(args.Pixels, args.ColorCount)
	if err != nil {
		return err
	}
	*resp = swatches
	return nil
}

// GetMetadata implements the RPC method for fetching plugin metadata.
func (s *QuantizerRPCServer) GetMetadata(_ any, resp *PluginInfo) error {
	*resp = s.Impl.GetMetadata()
	return nil
}

// QuantizerRPCClient is the RPC client implementation for quantizer plugins.
type QuantizerRPCClient struct {
	client *rpc.Client
}

// Quantize calls the remote Quantize method.
func (c *QuantizerRPCClient) Quantize(pixels []byte, colorCount int) ([]SwatchData, error) {
	var resp []SwatchData
	err := c.client.Call("Plugin.Quantize", QuantizeArgs{Pixels: pixels, ColorCount: colorCount}, &resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetMetadata calls the remote GetMetadata method.
func (c *QuantizerRPCClient) GetMetadata() PluginInfo {
	var info PluginInfo
	if err := c.client.Call("Plugin.GetMetadata", new(any), &info); err != nil {
		return PluginInfo{}
	}
	return info
}

// GeneratorRPC wraps a GeneratorPlugin for go-plugin net/rpc.
type GeneratorRPC struct {
	plugin.Plugin
	Impl GeneratorPlugin
}

// Server returns an RPC server for this plugin.
func (p *GeneratorRPC) Server(*plugin.MuxBroker) (any, error) {
	return &GeneratorRPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *GeneratorRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &GeneratorRPCClient{client: c}, nil
}

// GeneratorRPCServer is the RPC server implementation for generator plugins.
type GeneratorRPCServer struct {
	Impl GeneratorPlugin
}

// Generate implements the RPC method for palette generation.
func (s *GeneratorRPCServer) Generate(swatches []SwatchData, resp *PaletteData) error {
	palette, err := s.Impl.Generate(swatches)
	if err != nil {
		return err
	}
	*resp = palette
	return nil
}

// GetMetadata implements the RPC method for fetching plugin metadata.
func (s *GeneratorRPCServer) GetMetadata(_ any, resp *PluginInfo) error {
	*resp = s.Impl.GetMetadata()
	return nil
}

// GeneratorRPCClient is the RPC client implementation for generator plugins.
type GeneratorRPCClient struct {
	client *rpc.Client
}

// Generate calls the remote Generate method.
func (c *GeneratorRPCClient) Generate(swatches []SwatchData) (PaletteData, error) {
	var resp PaletteData
	if err := c.client.Call("Plugin.Generate", swatches, &resp); err != nil {
		return PaletteData{}, err
	}
	return resp, nil
}

// GetMetadata calls the remote GetMetadata method.
func (c *GeneratorRPCClient) GetMetadata() PluginInfo {
	var info PluginInfo
	if err := c.client.Call("Plugin.GetMetadata", new(any), &info); err != nil {
		return PluginInfo{}
	}
	return info
}
