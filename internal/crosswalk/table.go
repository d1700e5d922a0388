// Package crosswalk remaps RB_Type_L3 classification codes between schema
// versions of the reef-features dataset using a YAML lookup table.
package crosswalk

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Mapping maps one or more old classification codes to the new code and its
// attachment type. From may pack several old codes separated by semicolons.
type Mapping struct {
	From       string `yaml:"from"`
	To         string `yaml:"to"`
	Attachment string `yaml:"attachment"`
}

// Table is the cross-walk lookup plus the attribute-schema changes applied
// alongside it.
type Table struct {
	Mappings []Mapping         `yaml:"mappings"`
	Renames  map[string]string `yaml:"renames"`
	Keep     []string          `yaml:"keep"`

	expanded map[string]Mapping
}

// LoadTable reads and validates a cross-walk table from a YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "crosswalk: read table %s", path)
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrapf(err, "crosswalk: parse table %s", path)
	}
	if err := t.expand(); err != nil {
		return nil, err
	}
	return &t, nil
}

// expand splits semicolon-packed source codes into individual entries and
// rejects duplicates, which would make the mapping ambiguous.
func (t *Table) expand() error {
	t.expanded = make(map[string]Mapping, len(t.Mappings))
	for _, m := range t.Mappings {
		if strings.TrimSpace(m.To) == "" {
			return eris.Errorf("crosswalk: mapping for %q has empty target", m.From)
		}
		for _, from := range strings.Split(m.From, ";") {
			from = strings.TrimSpace(from)
			if from == "" {
				continue
			}
			if _, dup := t.expanded[from]; dup {
				return eris.Errorf("crosswalk: duplicate mapping for %q", from)
			}
			t.expanded[from] = m
		}
	}
	if len(t.expanded) == 0 {
		return eris.New("crosswalk: table has no mappings")
	}
	return nil
}

// Lookup returns the mapping for an old classification code.
func (t *Table) Lookup(oldCode string) (Mapping, bool) {
	m, ok := t.expanded[oldCode]
	return m, ok
}
