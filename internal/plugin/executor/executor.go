// Package executor runs quantizer and generator strategies hosted in
// external go-plugin binaries.
package executor

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	vplugin "github.com/jmylchreest/vibrant/pkg/plugin"
	"github.com/jmylchreest/vibrant/pkg/vibrant"
)

// dispenser is the part of plugin.ClientProtocol the executor needs.
type dispenser interface {
	Dispense(name string) (any, error)
}

// Executor owns one plugin process. The process is started on first use
// and lives until Close.
type Executor struct {
	path   string
	logger hclog.Logger

	mu     sync.Mutex
	client *plugin.Client
	rpc    dispenser
}

// New creates an executor for the plugin binary at path. The binary is not
// started until a strategy is requested.
func New(path string, logger hclog.Logger) (*Executor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat plugin: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("plugin path is a directory: %s", path)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Executor{path: path, logger: logger}, nil
}

// newWithProtocol creates an executor around an existing RPC connection.
func newWithProtocol(path string, rpc dispenser, logger hclog.Logger) *Executor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Executor{path: path, logger: logger, rpc: rpc}
}

// Path returns the plugin binary path.
func (e *Executor) Path() string {
	return e.path
}

func (e *Executor) connect() (dispenser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rpc != nil {
		return e.rpc, nil
	}

	e.client = plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  vplugin.Handshake,
		Plugins:          vplugin.PluginSet(),
		Cmd:              exec.Command(e.path), // #nosec G204 - User-specified plugin path, intended to be executed
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
		Logger:           e.logger.Named("plugin"),
	})

	rpcClient, err := e.client.Client()
	if err != nil {
		e.client.Kill()
		e.client = nil
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}
	e.rpc = rpcClient
	e.logger.Debug("plugin started", "path", e.path)
	return rpcClient, nil
}

func (e *Executor) dispense(name string) (any, error) {
	rpc, err := e.connect()
	if err != nil {
		return nil, err
	}
	raw, err := rpc.Dispense(name)
	if err != nil {
		return nil, fmt.Errorf("failed to dispense %s plugin: %w", name, err)
	}
	return raw, nil
}

// Quantizer returns a quantizer strategy backed by the plugin.
func (e *Executor) Quantizer() (*Quantizer, error) {
	raw, err := e.dispense(vplugin.QuantizerPluginName)
	if err != nil {
		return nil, err
	}
	client, ok := raw.(vplugin.QuantizerPlugin)
	if !ok {
		return nil, fmt.Errorf("plugin %s returned %T, not a quantizer", e.path, raw)
	}
	return &Quantizer{client: client, logger: e.logger}, nil
}

// Generator returns a generator strategy backed by the plugin.
func (e *Executor) Generator() (*Generator, error) {
	raw, err := e.dispense(vplugin.GeneratorPluginName)
	if err != nil {
		return nil, err
	}
	client, ok := raw.(vplugin.GeneratorPlugin)
	if !ok {
		return nil, fmt.Errorf("plugin %s returned %T, not a generator", e.path, raw)
	}
	return &Generator{client: client, logger: e.logger}, nil
}

// Close kills the plugin process, if one was started.
func (e *Executor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		e.client.Kill()
		e.client = nil
	}
	e.rpc = nil
}

// Quantizer adapts a quantizer plugin to vibrant.Quantizer.
type Quantizer struct {
	client vplugin.QuantizerPlugin
	logger hclog.Logger
}

// Metadata returns the plugin's self-description.
func (q *Quantizer) Metadata() vplugin.PluginInfo {
	return q.client.GetMetadata()
}

// Quantize sends the opaque pixels to the plugin.
func (q *Quantizer) Quantize(pixels []byte, opts vibrant.Options) ([]vibrant.Swatch, error) {
	visible := compact(pixels)
	q.logger.Debug("quantizing via plugin", "pixels", len(visible)/4, "colors", opts.ColorCount)

	data, err := q.client.Quantize(visible, max(opts.ColorCount, 1))
	if err != nil {
		return nil, fmt.Errorf("quantizer plugin: %w", err)
	}
	return vplugin.DataToSwatches(data), nil
}

// compact drops pixels with zero alpha.
func compact(pixels []byte) []byte {
	out := make([]byte, 0, len(pixels))
	for i := 0; i+3 < len(pixels); i += 4 {
		if pixels[i+3] == 0 {
			continue
		}
		out = append(out, pixels[i:i+4]...)
	}
	return out
}

// Generator adapts a generator plugin to vibrant.Generator.
type Generator struct {
	client vplugin.GeneratorPlugin
	logger hclog.Logger
}

// Metadata returns the plugin's self-description.
func (g *Generator) Metadata() vplugin.PluginInfo {
	return g.client.GetMetadata()
}

// Generate sends the swatches to the plugin and validates the palette it
// returns.
func (g *Generator) Generate(swatches []vibrant.Swatch) (*vibrant.Palette, error) {
	g.logger.Debug("generating via plugin", "swatches", len(swatches))

	data, err := g.client.Generate(vplugin.SwatchesToData(swatches))
	if err != nil {
		return nil, fmt.Errorf("generator plugin: %w", err)
	}
	palette, err := data.Palette()
	if err != nil {
		return nil, fmt.Errorf("generator plugin: %w", err)
	}
	return palette, nil
}
