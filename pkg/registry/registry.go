// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"
)

//go:embed catalog.json
var defaultCatalog []byte

// Default returns the built-in catalog. It panics only if the embedded file is broken.
func Default() *Catalog {
	cat, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("registry: embedded catalog: %v", err))
	}
	return cat
}

// Load reads a catalog from path. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, err
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Catalog) Validate() error {
	if len(c.Sections) == 0 {
		return fmt.Errorf("catalog contains no sections")
	}
	seen := make(map[string]bool)
	for _, s := range c.Sections {
		if s.ID == "" {
			return fmt.Errorf("section missing required field: id")
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate section id: %s", s.ID)
		}
		seen[s.ID] = true

		keys := make(map[string]bool)
		for _, o := range s.Options {
			if o.Key == "" {
				return fmt.Errorf("section %s has an option without a key", s.ID)
			}
			if keys[o.Key] {
				return fmt.Errorf("section %s: duplicate option key %s", s.ID, o.Key)
			}
			keys[o.Key] = true
		}
	}
	return nil
}

func (c *Catalog) Section(id string) (Section, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// HasOption reports whether key is a known flag of section id.
func (c *Catalog) HasOption(id, key string) bool {
	s, ok := c.Section(id)
	if !ok {
		return false
	}
	for _, o := range s.Options {
		if o.Key == key {
			return true
		}
	}
	return false
}

// Keys returns the option keys of a section in catalog order.
func (c *Catalog) Keys(id string) []string {
	s, _ := c.Section(id)
	keys := make([]string, 0, len(s.Options))
	for _, o := range s.Options {
		keys = append(keys, o.Key)
	}
	return keys
}

// Label returns the display label for a flag, falling back to Humanize(key).
func (c *Catalog) Label(id, key string) string {
	s, _ := c.Section(id)
	for _, o := range s.Options {
		if o.Key == key && o.Label != "" {
			return o.Label
		}
	}
	return Humanize(key)
}

// Title returns the section title, or the humanized id.
func (c *Catalog) Title(id string) string {
	if s, ok := c.Section(id); ok && s.Title != "" {
		return s.Title
	}
	return Humanize(id)
}

// SelectedLabels lists the labels of every true flag. Catalog keys come first in
// catalog order, unknown keys follow sorted by key.
func (c *Catalog) SelectedLabels(id string, flags map[string]bool) []string {
	var out []string
	known := make(map[string]bool)
	for _, key := range c.Keys(id) {
		known[key] = true
		if flags[key] {
			out = append(out, c.Label(id, key))
		}
	}

	var extra []string
	for key, on := range flags {
		if on && !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		out = append(out, Humanize(key))
	}
	return out
}

// Humanize splits a camelCase key into words: "postFrameConstruction" -> "post Frame Construction".
func Humanize(key string) string {
	var b strings.Builder
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
