package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// ErrActionNotSupported is returned when a binding names an action its
// plugin does not declare.
var ErrActionNotSupported = errors.New("action not supported by plugin")

// BindingLookup finds the binding for a gesture; nil, nil means unbound.
type BindingLookup interface {
	GetByGesture(g gesture.Gesture) (*store.Binding, error)
}

// Dispatcher runs the plugin action bound to a confirmed gesture.
type Dispatcher struct {
	bindings BindingLookup
	plugins  *Manager
	executor *Executor
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(bindings BindingLookup, plugins *Manager, executor *Executor, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		bindings: bindings,
		plugins:  plugins,
		executor: executor,
		logger:   logger.With("component", "dispatcher"),
	}
}

// Dispatch executes the action bound to g. It returns a nil response and no
// error when g is unbound or its binding is disabled.
func (d *Dispatcher) Dispatch(ctx context.Context, g gesture.Gesture) (*Response, error) {
	binding, err := d.bindings.GetByGesture(g)
	if err != nil {
		return nil, fmt.Errorf("lookup binding for %s: %w", g, err)
	}
	if binding == nil || !binding.Enabled {
		d.logger.Debug("gesture not bound", "gesture", g.String())
		return nil, nil
	}

	plug, err := d.plugins.Get(binding.PluginName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", binding.PluginName, err)
	}
	if !plug.Manifest.HasAction(binding.ActionName) {
		return nil, fmt.Errorf("%s/%s: %w", binding.PluginName, binding.ActionName, ErrActionNotSupported)
	}

	resp, err := d.executor.Execute(ctx, plug, &Request{
		Action:  binding.ActionName,
		Gesture: g,
		Params:  binding.Config,
	})
	if err != nil {
		d.logger.Error("plugin action failed", "gesture", g.String(), "plugin", binding.PluginName, "action", binding.ActionName, "error", err)
		return nil, err
	}
	if !resp.Success {
		d.logger.Warn("plugin reported failure", "gesture", g.String(), "plugin", binding.PluginName, "action", binding.ActionName, "reason", resp.Error)
	} else {
		d.logger.Info("plugin action executed", "gesture", g.String(), "plugin", binding.PluginName, "action", binding.ActionName)
	}
	return resp, nil
}
