package tool

import (
	"errors"

	"github.com/zero-day-ai/youtube-mcp/schema"
)

// Config holds the configuration for building a tool registration.
type Config struct {
	name        string
	version     string
	description string
	inputSchema schema.JSON
	quotaCost   *int
	factory     Factory
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		version:     "1.0.0",
		inputSchema: schema.Object(map[string]schema.JSON{}),
	}
}

// SetName sets the tool name.
func (c *Config) SetName(name string) *Config {
	c.name = name
	return c
}

// SetVersion sets the tool version.
func (c *Config) SetVersion(version string) *Config {
	c.version = version
	return c
}

// SetDescription sets the tool description.
func (c *Config) SetDescription(desc string) *Config {
	c.description = desc
	return c
}

// SetInputSchema sets the input schema.
func (c *Config) SetInputSchema(s schema.JSON) *Config {
	c.inputSchema = s
	return c
}

// SetArgs derives the input schema from an argument struct via schema.FromType.
func (c *Config) SetArgs(args any) *Config {
	c.inputSchema = schema.FromType(args)
	return c
}

// SetQuotaCost sets the per-call quota estimate.
func (c *Config) SetQuotaCost(units int) *Config {
	c.quotaCost = Cost(units)
	return c
}

// SetFactory sets the constructor. The descriptor's Chainable flag follows its kind.
func (c *Config) SetFactory(f Factory) *Config {
	c.factory = f
	return c
}

// SetRunFunc sets a simple factory that always returns fn.
func (c *Config) SetRunFunc(fn RunFunc) *Config {
	c.factory = Simple(func(Env) (Tool, error) { return fn, nil })
	return c
}

// Build validates the configuration and returns the descriptor and factory.
func (c *Config) Build() (Descriptor, Factory, error) {
	if c == nil {
		return Descriptor{}, Factory{}, errors.New("config cannot be nil")
	}

	d := Descriptor{
		Name:        c.name,
		Description: c.description,
		InputSchema: c.inputSchema,
		Version:     c.version,
		QuotaCost:   c.quotaCost,
		Chainable:   c.factory.Kind() == KindChainable,
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, Factory{}, err
	}
	if err := d.CheckFactory(c.factory); err != nil {
		return Descriptor{}, Factory{}, err
	}
	return d, c.factory, nil
}
