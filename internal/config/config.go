package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mohsinsiddi/abistudio/internal/chain"
)

const (
	defaultEndpoint    = "ethereum"
	defaultHistorySize = 10

	configFile = "config.json"
)

// Load reads config from dir (or creates defaults). dir defaults to
// ~/.abistudio. Endpoint and explorer tables are seeded from the built-in
// network presets; entries in the file merge over the seeds.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".abistudio")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.Endpoints == nil {
		cfg.Endpoints = make(map[string]string)
	}
	if cfg.Explorers == nil {
		cfg.Explorers = make(map[string]string)
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = defaultHistorySize
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// AddEndpoint registers a named RPC endpoint.
func (c *Config) AddEndpoint(name, url string) error {
	if c.Endpoints == nil {
		c.Endpoints = make(map[string]string)
	}
	if existing, ok := c.Endpoints[name]; ok && existing == url {
		return fmt.Errorf("endpoint %s already set to %s", name, url)
	}
	c.Endpoints[name] = url
	return nil
}

// RemoveEndpoint deletes a named RPC endpoint.
func (c *Config) RemoveEndpoint(name string) error {
	if _, ok := c.Endpoints[name]; !ok {
		return fmt.Errorf("endpoint %s not found", name)
	}
	delete(c.Endpoints, name)
	return nil
}

// ResolveEndpoint turns an endpoint name or URL into a dialable URL:
// configured endpoints win, then built-in presets, then verbatim URLs.
// An empty argument resolves the configured default.
func (c *Config) ResolveEndpoint(nameOrURL string) (string, error) {
	if nameOrURL == "" {
		nameOrURL = c.DefaultEndpoint
	}
	if url, ok := c.Endpoints[nameOrURL]; ok {
		return url, nil
	}
	if n, ok := chain.Preset(nameOrURL); ok {
		return n.RPC, nil
	}
	if strings.Contains(nameOrURL, "://") {
		return nameOrURL, nil
	}
	return "", fmt.Errorf("unknown endpoint %q: not configured, not a preset, not a URL", nameOrURL)
}

// ExplorerAPI returns the explorer API base for an endpoint name, or empty
// when none is known.
func (c *Config) ExplorerAPI(name string) string {
	if name == "" {
		name = c.DefaultEndpoint
	}
	if api, ok := c.Explorers[name]; ok {
		return api
	}
	if n, ok := chain.Preset(name); ok {
		return n.ExplorerAPI
	}
	return ""
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

func defaults(dir string) *Config {
	endpoints := make(map[string]string)
	explorers := make(map[string]string)
	for _, n := range chain.Presets() {
		endpoints[n.Name] = n.RPC
		if n.ExplorerAPI != "" {
			explorers[n.Name] = n.ExplorerAPI
		}
	}
	return &Config{
		DefaultEndpoint: defaultEndpoint,
		Endpoints:       endpoints,
		Explorers:       explorers,
		HistorySize:     defaultHistorySize,
		configDir:       dir,
	}
}
