// Package app wires the application's services together.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/nfrund/patterns/internal/config"
	"github.com/nfrund/patterns/internal/events"
	"github.com/nfrund/patterns/internal/light"
	"github.com/nfrund/patterns/internal/memo"
	"github.com/nfrund/patterns/internal/pubsub"
	"github.com/nfrund/patterns/internal/salesoffice"
	"github.com/nfrund/patterns/internal/script"
)

// Service names for the memo proxies. Using constants prevents typos.
const (
	MemoMult = "memo.mult"
	MemoPlus = "memo.plus"
)

// ErrBridgeDisabled is returned by Bridge when BRIDGE_ENABLED is off.
var ErrBridgeDisabled = errors.New("message bridge is disabled")

// Container holds the dependency injector and the configuration it was built from.
type Container struct {
	cfg      *config.Config
	injector *do.RootScope
}

// New registers every service provider. Services are built lazily on first use.
func New(cfg *config.Config) *Container {
	injector := do.New()

	do.ProvideValue(injector, cfg)

	do.Provide(injector, func(i do.Injector) (*events.Registry, error) {
		return events.NewRegistry(), nil
	})

	do.Provide(injector, func(i do.Injector) (*salesoffice.SalesOffice, error) {
		reg := do.MustInvoke[*events.Registry](i)
		return salesoffice.New("default", reg), nil
	})

	do.Provide(injector, func(i do.Injector) (*script.TengoEngine, error) {
		c := do.MustInvoke[*config.Config](i)
		limits := script.GetDefaultSecurityLimits()
		limits.MaxExecutionTime = c.ScriptTimeout
		return script.NewTengoEngineWithLimits(limits), nil
	})

	for name, fn := range map[string]memo.Func{MemoMult: memo.Mult, MemoPlus: memo.Plus} {
		name, fn := name, fn // per-iteration copy; module targets go 1.21 loop semantics
		do.ProvideNamed(injector, name, func(i do.Injector) (*memo.Proxy, error) {
			c := do.MustInvoke[*config.Config](i)
			return memo.NewProxy(name, fn, c.MemoCacheSize)
		})
	}

	if cfg.BridgeEnabled {
		do.Provide(injector, func(i do.Injector) (*pubsub.WatermillBridge, error) {
			return pubsub.NewWatermillBridge(), nil
		})
	}

	return &Container{
		cfg:      cfg,
		injector: injector,
	}
}

// Config returns the configuration the container was built with.
func (c *Container) Config() *config.Config {
	return c.cfg
}

// Registry returns the shared event registry.
func (c *Container) Registry() *events.Registry {
	return do.MustInvoke[*events.Registry](c.injector)
}

// SalesOffice returns the sales office publishing on the shared registry.
func (c *Container) SalesOffice() *salesoffice.SalesOffice {
	return do.MustInvoke[*salesoffice.SalesOffice](c.injector)
}

// ScriptEngine returns the Tengo engine configured with SCRIPT_TIMEOUT.
func (c *Container) ScriptEngine() *script.TengoEngine {
	return do.MustInvoke[*script.TengoEngine](c.injector)
}

// Memo returns the named memo proxy (MemoMult or MemoPlus).
func (c *Container) Memo(name string) (*memo.Proxy, error) {
	p, err := do.InvokeNamed[*memo.Proxy](c.injector, name)
	if err != nil {
		return nil, fmt.Errorf("memo proxy %q: %w", name, err)
	}
	return p, nil
}

// Light builds a light wired to button that announces on the shared registry.
func (c *Container) Light(button light.Button) *light.Light {
	return light.New(button, c.Registry())
}

// Bridge returns the watermill bridge, or ErrBridgeDisabled.
func (c *Container) Bridge() (*pubsub.WatermillBridge, error) {
	if !c.cfg.BridgeEnabled {
		return nil, ErrBridgeDisabled
	}
	return do.Invoke[*pubsub.WatermillBridge](c.injector)
}

// Forwarder returns a forwarder from the shared registry onto the bridge.
func (c *Container) Forwarder(ctx context.Context) (*pubsub.Forwarder, error) {
	bridge, err := c.Bridge()
	if err != nil {
		return nil, err
	}
	return pubsub.NewForwarder(ctx, c.Registry(), bridge), nil
}

// Close closes the bridge if it was started and shuts the injector down.
func (c *Container) Close() error {
	var err error
	if c.cfg.BridgeEnabled {
		if bridge, invokeErr := do.Invoke[*pubsub.WatermillBridge](c.injector); invokeErr == nil {
			err = bridge.Close()
		}
	}
	c.injector.Shutdown()
	return err
}
