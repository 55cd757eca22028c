package window

import (
	"context"
	"fmt"

	"github.com/ayusman/tilt/internal/plugin"
)

// Plugin actions a window backend plugin must declare.
const (
	ActionList     = "list"
	ActionActivate = "activate"
)

// PluginBackend implements Backend by running the window-focus plugin.
type PluginBackend struct {
	executor *plugin.Executor
	plugin   *plugin.Plugin
}

// NewPluginBackend creates a Backend backed by p.
func NewPluginBackend(executor *plugin.Executor, p *plugin.Plugin) *PluginBackend {
	return &PluginBackend{executor: executor, plugin: p}
}

// List returns the visible windows.
func (b *PluginBackend) List(ctx context.Context) ([]Window, error) {
	resp, err := b.executor.Call(ctx, b.plugin, ActionList, nil)
	if err != nil {
		return nil, err
	}

	var data struct {
		Windows []Window `json:"windows"`
	}
	if err := resp.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode window list: %w", err)
	}
	return data.Windows, nil
}

// Activate raises and focuses w.
func (b *PluginBackend) Activate(ctx context.Context, w Window) error {
	_, err := b.executor.Call(ctx, b.plugin, ActionActivate, w)
	return err
}
