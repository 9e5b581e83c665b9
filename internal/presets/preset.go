package presets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/GriffinCanCode/cloudbrowser/internal/api"
)

// Preset is the file form of api.BrowserOptions.
type Preset struct {
	Label              string   `yaml:"label" toml:"label" json:"label,omitempty"`
	Args               []string `yaml:"args" toml:"args" json:"args,omitempty"`
	IgnoredDefaultArgs []string `yaml:"ignoredDefaultArgs" toml:"ignoredDefaultArgs" json:"ignoredDefaultArgs,omitempty"`
	Headless           *bool    `yaml:"headless" toml:"headless" json:"headless,omitempty"`
	Stealth            *bool    `yaml:"stealth" toml:"stealth" json:"stealth,omitempty"`
	Browser            string   `yaml:"browser" toml:"browser" json:"browser,omitempty"`
	KeepOpen           *int     `yaml:"keepOpen" toml:"keepOpen" json:"keepOpen,omitempty"`
	Proxy              *Proxy   `yaml:"proxy" toml:"proxy" json:"proxy,omitempty"`
	// Extensions are glob patterns relative to the preset file.
	Extensions []string `yaml:"extensions" toml:"extensions" json:"extensions,omitempty"`
}

// Proxy is the file form of api.Proxy.
type Proxy struct {
	Host     string `yaml:"host" toml:"host" json:"host,omitempty"`
	Port     string `yaml:"port" toml:"port" json:"port,omitempty"`
	Username string `yaml:"username" toml:"username" json:"username,omitempty"`
	Password string `yaml:"password" toml:"password" json:"password,omitempty"`
}

// Load reads the preset at path.
func Load(path string) (*Preset, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return Parse(data, format)
}

// LoadOptions reads the preset at path and resolves it to browser options,
// with extension patterns relative to the preset's directory.
func LoadOptions(path string) (*api.BrowserOptions, error) {
	p, err := Load(path)
	if err != nil {
		return nil, err
	}
	return p.Options(filepath.Dir(path))
}

// Options resolves the preset. Extension patterns are matched under dir.
func (p *Preset) Options(dir string) (*api.BrowserOptions, error) {
	opts := &api.BrowserOptions{
		Label:              p.Label,
		Args:               p.Args,
		IgnoredDefaultArgs: p.IgnoredDefaultArgs,
		Headless:           p.Headless,
		Stealth:            p.Stealth,
		KeepOpen:           p.KeepOpen,
	}

	if p.Browser != "" {
		b, err := api.ParseBrowser(p.Browser)
		if err != nil {
			return nil, err
		}
		opts.Browser = &b
	}
	if p.KeepOpen != nil && *p.KeepOpen < 0 {
		return nil, fmt.Errorf("keepOpen must not be negative, got %d", *p.KeepOpen)
	}
	if p.Proxy != nil {
		opts.Proxy = &api.Proxy{
			Host:     p.Proxy.Host,
			Port:     p.Proxy.Port,
			Username: p.Proxy.Username,
			Password: p.Proxy.Password,
		}
	}

	if len(p.Extensions) > 0 {
		bundles, err := LoadExtensions(dir, p.Extensions...)
		if err != nil {
			return nil, err
		}
		opts.Extensions = bundles
	}

	return opts, nil
}
