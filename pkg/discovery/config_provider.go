package discovery

import (
	"strings"

	"github.com/jllopis/resolver/pkg/config"
)

// FromConfig wraps base with the manifest and disabled list from config.
func FromConfig(cfg config.DiscoveryConfig, base Provider) (Provider, error) {
	var manifest *Manifest
	if path := strings.TrimSpace(cfg.Manifest); path != "" {
		m, err := LoadManifest(path)
		if err != nil {
			return nil, err
		}
		manifest = m
	}
	if len(cfg.Disabled) > 0 {
		if manifest == nil {
			manifest = &Manifest{}
		}
		manifest.Disabled = append(manifest.Disabled, cfg.Disabled...)
	}
	if manifest == nil {
		return base, nil
	}
	return NewManifestProvider(base, manifest), nil
}
