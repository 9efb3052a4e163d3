package dashboard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Normalize fills defaults and recomputes derived fields in place.
//
// It sets Columns to DefaultColumns when unset, lifts the strategy marker
// from StrategyConfig, clamps every item's spans to [1, Columns] and
// recomputes each section's EntityIDs from its items.
func (c *Config) Normalize() {
	if c.Columns <= 0 {
		c.Columns = DefaultColumns
	}
	c.StrategyType = StrategyType(c.StrategyConfig)

	for i := range c.Sections {
		c.Sections[i].clampSpans(c.Columns)
		c.Sections[i].Normalize()
	}
}

// IsStrategy reports whether the config is an unresolved strategy marker.
func (c *Config) IsStrategy() bool {
	return c.StrategyType != "" && len(c.Sections) == 0
}

// Normalize recomputes EntityIDs by walking Items, including the rows of
// nested entity sections. Order is first appearance; duplicates are dropped.
func (s *Section) Normalize() {
	for i := range s.Items {
		if s.Items[i].ColumnSpan < 1 {
			s.Items[i].ColumnSpan = 1
		}
		if s.Items[i].RowSpan < 1 {
			s.Items[i].RowSpan = 1
		}
		if nested := s.Items[i].EntitiesSection; nested != nil {
			nested.Normalize()
		}
	}
	s.EntityIDs = s.collectEntityIDs(nil, map[string]bool{})
}

func (s *Section) collectEntityIDs(ids []string, seen map[string]bool) []string {
	for _, it := range s.Items {
		if it.EntityID != "" && !seen[it.EntityID] {
			seen[it.EntityID] = true
			ids = append(ids, it.EntityID)
		}
		if it.EntitiesSection != nil {
			ids = it.EntitiesSection.collectEntityIDs(ids, seen)
		}
	}
	return ids
}

func (s *Section) clampSpans(columns int) {
	for i := range s.Items {
		it := &s.Items[i]
		if it.ColumnSpan > columns {
			it.ColumnSpan = columns
		}
		if it.Column >= columns {
			it.Column = columns - 1
		}
		if it.Column < 0 {
			it.Column = 0
		}
	}
}

// AllEntityIDs returns every entity ID referenced by the config, across all
// sections, in first-appearance order without duplicates.
func (c *Config) AllEntityIDs() []string {
	seen := map[string]bool{}
	var ids []string
	for i := range c.Sections {
		ids = c.Sections[i].collectEntityIDs(ids, seen)
	}
	return ids
}

// Items returns all items of all sections in declared order.
func (c *Config) Items() []Item {
	var items []Item
	for _, s := range c.Sections {
		items = append(items, s.Items...)
	}
	return items
}

// DefaultConfig returns a single-section grid showing every given entity,
// filled row by row.
func DefaultConfig(entityIDs []string, columns int) *Config {
	if columns <= 0 {
		columns = DefaultColumns
	}

	items := make([]Item, 0, len(entityIDs))
	for i, id := range entityIDs {
		items = append(items, Item{
			EntityID:   id,
			Column:     i % columns,
			Row:        i / columns,
			ColumnSpan: 1,
			RowSpan:    1,
		})
	}

	cfg := &Config{
		Title:    "Home",
		Columns:  columns,
		Sections: []Section{{Items: items}},
	}
	cfg.Normalize()
	return cfg
}

// ConfigFromJSON decodes a native dashboard config.
func ConfigFromJSON(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// ConfigFromYAML decodes a native dashboard config written as YAML.
func ConfigFromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// LoadConfigFile reads a native dashboard config from disk.
// Files ending in .yaml or .yml are decoded as YAML, everything else as JSON.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dashboard config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ConfigFromYAML(data)
	default:
		return ConfigFromJSON(data)
	}
}
