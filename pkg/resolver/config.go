package resolver

import (
	"github.com/jllopis/resolver/pkg/config"
	"github.com/jllopis/resolver/pkg/discovery"
)

// OptionsFromConfig translates a loaded configuration into pipeline options.
// When provider is non-nil the discovery section filters it (manifest and
// disabled components) and its markers select what is registered. Errors
// building the filtered provider surface from New.
func OptionsFromConfig(cfg *config.Config, provider discovery.Provider) []Option {
	if cfg == nil {
		return nil
	}
	var opts []Option
	if cfg.Pipeline.Name != "" {
		opts = append(opts, WithName(cfg.Pipeline.Name))
	}
	if provider != nil {
		filtered, err := discovery.FromConfig(cfg.Discovery, provider)
		if err != nil {
			opts = append(opts, func(*settings) error { return err })
			return opts
		}
		m := cfg.Discovery.Markers
		opts = append(opts, WithDiscovery(filtered, Markers{
			PreCheck:     discovery.Marker(m.PreCheck),
			PostCheck:    discovery.Marker(m.PostCheck),
			PreActivity:  discovery.Marker(m.PreActivity),
			PostActivity: discovery.Marker(m.PostActivity),
		}))
	}
	return opts
}
