package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v2"

	"github.com/wizenheimer/laneskip"
)

// Level policies a manifest can name.
const (
	PolicyManual = "manual" // every entry carries its own level
	PolicyHash   = "hash"   // murmur3 of the key picks the level
	PolicyRandom = "random" // seeded generator picks the level
)

// default values
const (
	POLICY   = PolicyManual
	SEED     = 1
	BACKWARD = false
)

// Manifest describes one list to build and what to ask it afterwards.
// JSON files load too, since YAML is a superset of JSON.
type Manifest struct {
	Policy   string          `yaml:"policy"`
	Seed     uint32          `yaml:"seed"`
	Backward bool            `yaml:"backward"`
	Entries  []ManifestEntry `yaml:"entries"`
	Lookups  []int           `yaml:"lookups"`
}

type ManifestEntry struct {
	Value int  `yaml:"value"`
	Level *int `yaml:"level"`
}

const manifestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"required": ["entries"],
	"properties": {
		"policy":   {"enum": ["manual", "hash", "random"]},
		"seed":     {"type": "integer", "minimum": 0, "maximum": 4294967295},
		"backward": {"type": "boolean"},
		"lookups":  {"type": "array", "items": {"type": "integer"}},
		"entries": {
			"type": "array",
			"items": {
				"type": "object",
				"additionalProperties": false,
				"required": ["value"],
				"properties": {
					"value": {"type": "integer"},
					"level": {"type": "integer", "minimum": 0, "maximum": 3}
				}
			}
		}
	}
}`

var schema = jsonschema.MustCompileString("manifest.schema.json", manifestSchema)

// GetDefault returns a manifest with every default filled in and no entries.
func GetDefault() Manifest {
	var m Manifest
	m.Policy = POLICY
	m.Seed = SEED
	m.Backward = BACKWARD
	return m
}

// LoadManifest reads the manifest at filePath, checks it against the schema
// and decodes it over the defaults.
func LoadManifest(filePath string) (*Manifest, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest is LoadManifest for bytes already in memory.
func ParseManifest(data []byte) (*Manifest, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	m := GetDefault()
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}

	slog.Debug("manifest loaded",
		slog.String("policy", m.Policy),
		slog.Int("entries", len(m.Entries)),
		slog.Int("lookups", len(m.Lookups)))
	return &m, nil
}

// validateSchema decodes the YAML into plain values, re-encodes them as JSON
// and runs the schema over the JSON form.
func validateSchema(data []byte) error {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode manifest: %w", err)
	}

	encoded, err := json.Marshal(toJSONValue(raw))
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("manifest does not match schema: %w", err)
	}
	return nil
}

// toJSONValue turns yaml.v2's map[interface{}]interface{} into string-keyed
// maps that encoding/json accepts.
func toJSONValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for key, val := range v {
			m[fmt.Sprint(key)] = toJSONValue(val)
		}
		return m
	case []interface{}:
		for i := range v {
			v[i] = toJSONValue(v[i])
		}
		return v
	}
	return v
}

// validate checks that entries carry a level exactly when the policy is
// manual. Under hash and random the policy picks every level, so a level
// written in the manifest would be ignored.
func (m *Manifest) validate() error {
	manual := m.Policy == PolicyManual

	var bad []string
	for i, e := range m.Entries {
		if (e.Level == nil) == manual {
			bad = append(bad, fmt.Sprint(i))
		}
	}
	if len(bad) == 0 {
		return nil
	}
	if manual {
		return fmt.Errorf("manual policy needs a level on entries %s", strings.Join(bad, ", "))
	}
	return fmt.Errorf("%s policy picks levels itself; remove level from entries %s",
		m.Policy, strings.Join(bad, ", "))
}

// LevelPolicy returns the policy the manifest names. Manual manifests have no
// policy: Build uses each entry's own level.
func (m *Manifest) LevelPolicy() laneskip.LevelPolicy[int] {
	switch m.Policy {
	case PolicyHash:
		return laneskip.HashInts(m.Seed)
	case PolicyRandom:
		return laneskip.NewRandomLevels[int](uint64(m.Seed))
	}
	return nil
}

// Build creates the list the manifest describes. No entries gives an empty
// list.
func (m *Manifest) Build() (*laneskip.SkipList[int], error) {
	policy := m.LevelPolicy()
	entries := make([]laneskip.Entry[int], len(m.Entries))
	for i, e := range m.Entries {
		var level int
		if policy != nil {
			level = policy.Level(e.Value)
		} else {
			level = *e.Level
		}
		entries[i] = laneskip.Entry[int]{Value: e.Value, TopLevel: level}
	}

	return laneskip.Build(entries)
}
