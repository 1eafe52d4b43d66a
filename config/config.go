// Package config provides configuration loading and management for
// GraphSync.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete GraphSync configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Sync       SyncConfig       `yaml:"sync"`
	Validation ValidationConfig `yaml:"validation"`
	Events     EventsConfig     `yaml:"events"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// StoreConfig configures the remote triplestore connection.
type StoreConfig struct {
	// Endpoint is the SPARQL service base URL.
	Endpoint string `yaml:"endpoint"`

	// UpdateEndpoint overrides the URL for update requests (some stores
	// separate query and update services). Empty means Endpoint.
	UpdateEndpoint string `yaml:"update_endpoint"`

	// GraphStoreEndpoint overrides the URL for graph store protocol
	// requests. Empty means Endpoint.
	GraphStoreEndpoint string `yaml:"graph_store_endpoint"`

	// Username and Password are basic-auth credentials, optional.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Timeout bounds each remote request.
	Timeout time.Duration `yaml:"timeout"`
}

// CorpusConfig configures the local document tree.
type CorpusConfig struct {
	// DataDir is the root of the dataset documents.
	DataDir string `yaml:"data_dir"`

	// OntologyDir holds reference vocabulary documents seeded into the
	// background graph when the store is reinitialized.
	OntologyDir string `yaml:"ontology_dir"`
}

// SyncConfig configures synchronization behavior.
type SyncConfig struct {
	// DropOnStart clears the entire store and reseeds the reserved graphs
	// before syncing.
	DropOnStart bool `yaml:"drop_on_start"`

	// UnionDefault additionally unions written graphs into the store's
	// default view.
	UnionDefault bool `yaml:"union_default"`
}

// ValidationConfig configures the pre-sync gate.
type ValidationConfig struct {
	// ShowWarnings prints warning-severity findings without failing.
	ShowWarnings bool `yaml:"show_warnings"`

	// WarningsAreErrors escalates warnings to failures.
	WarningsAreErrors bool `yaml:"warnings_are_errors"`
}

// EventsConfig configures optional NATS publication of sync reports.
type EventsConfig struct {
	// Enabled turns report publication on.
	Enabled bool `yaml:"enabled"`

	// URL is the NATS server URL.
	URL string `yaml:"url"`

	// Subject is the subject reports are published on.
	Subject string `yaml:"subject"`
}

// MetricsConfig configures the optional Prometheus listener.
type MetricsConfig struct {
	// Enabled turns the /metrics listener on.
	Enabled bool `yaml:"enabled"`

	// Listen is the address the listener binds to.
	Listen string `yaml:"listen"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Timeout: 20 * time.Second,
		},
		Corpus: CorpusConfig{
			DataDir:     "data",
			OntologyDir: "ontologies",
		},
		Validation: ValidationConfig{
			ShowWarnings: true,
		},
		Events: EventsConfig{
			Subject: "graphsync.report",
		},
		Metrics: MetricsConfig{
			Listen: ":9090",
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Store.Endpoint == "" {
		return fmt.Errorf("store.endpoint is required")
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive")
	}
	if c.Corpus.DataDir == "" {
		return fmt.Errorf("corpus.data_dir is required")
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return fmt.Errorf("events.url is required when events are enabled")
	}
	return nil
}

// Merge overlays non-zero fields from other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	mergeString(&c.Store.Endpoint, other.Store.Endpoint)
	mergeString(&c.Store.UpdateEndpoint, other.Store.UpdateEndpoint)
	mergeString(&c.Store.GraphStoreEndpoint, other.Store.GraphStoreEndpoint)
	mergeString(&c.Store.Username, other.Store.Username)
	mergeString(&c.Store.Password, other.Store.Password)
	if other.Store.Timeout != 0 {
		c.Store.Timeout = other.Store.Timeout
	}
	mergeString(&c.Corpus.DataDir, other.Corpus.DataDir)
	mergeString(&c.Corpus.OntologyDir, other.Corpus.OntologyDir)
	if other.Sync.DropOnStart {
		c.Sync.DropOnStart = true
	}
	if other.Sync.UnionDefault {
		c.Sync.UnionDefault = true
	}
	if other.Validation != (ValidationConfig{}) {
		c.Validation = other.Validation
	}
	if other.Events.Enabled {
		c.Events.Enabled = true
	}
	mergeString(&c.Events.URL, other.Events.URL)
	mergeString(&c.Events.Subject, other.Events.Subject)
	if other.Metrics.Enabled {
		c.Metrics.Enabled = true
	}
	mergeString(&c.Metrics.Listen, other.Metrics.Listen)
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// LoadFromFile reads a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &config, nil
}
