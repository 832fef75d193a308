// Package provider manages the built-in scraping providers.
package provider

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/anitrack-cli/anitrack/key"
	"github.com/anitrack-cli/anitrack/source"
)

// Provider represents a source provider.
type Provider struct {
	ID           string
	Name         string
	CreateSource func() (source.Source, error)
}

func (p *Provider) String() string {
	return p.Name
}

var registry []*Provider

// Register adds a provider to the registry. Called from provider init
// functions, new sites are wired in at compile time.
func Register(p *Provider) {
	registry = append(registry, p)
}

// Builtins returns all registered providers.
func Builtins() []*Provider {
	return registry
}

// Names returns the names of all registered providers.
func Names() []string {
	return lo.Map(Builtins(), func(p *Provider, _ int) string {
		return p.Name
	})
}

// Get finds a provider by name or id.
func Get(name string) (*Provider, bool) {
	for _, p := range Builtins() {
		if p.Name == name || p.ID == name {
			return p, true
		}
	}

	return nil, false
}

// Default returns the provider selected by the sources.default setting.
func Default() (*Provider, error) {
	name := viper.GetString(key.DefaultSource)

	p, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown source %q", name)
	}

	return p, nil
}
