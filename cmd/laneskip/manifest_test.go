package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wizenheimer/laneskip"
)

const scenarioYAML = `
entries:
  - {value: 1, level: 3}
  - {value: 5, level: 0}
  - {value: 8, level: 0}
  - {value: 10, level: 0}
  - {value: 9, level: 1}
  - {value: 7, level: 0}
  - {value: 2, level: 0}
  - {value: 4, level: 2}
  - {value: 6, level: 2}
  - {value: 3, level: 1}
lookups: [6, 11]
`

func TestParseManifest_Defaults(t *testing.T) {
	m, err := ParseManifest([]byte(scenarioYAML))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	if m.Policy != PolicyManual || m.Seed != SEED || m.Backward {
		t.Errorf("defaults not applied: %+v", m)
	}
	if len(m.Entries) != 10 || len(m.Lookups) != 2 {
		t.Errorf("got %d entries and %d lookups", len(m.Entries), len(m.Lookups))
	}
	if m.LevelPolicy() != nil {
		t.Error("manual manifest returned a level policy")
	}
}

func TestParseManifest_JSON(t *testing.T) {
	data := []byte(`{"policy": "hash", "seed": 9, "entries": [{"value": 3}, {"value": 1}], "backward": true}`)

	m, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	if m.Policy != PolicyHash || m.Seed != 9 || !m.Backward {
		t.Errorf("manifest = %+v", m)
	}
	if _, ok := m.LevelPolicy().(laneskip.HashLevels[int]); !ok {
		t.Errorf("LevelPolicy() = %T, want HashLevels[int]", m.LevelPolicy())
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no entries key", "lookups: [1]"},
		{"level too high", "entries: [{value: 1, level: 4}]"},
		{"level negative", "entries: [{value: 1, level: -1}]"},
		{"unknown policy", "policy: skewed\nentries: [{value: 1, level: 0}]"},
		{"unknown field", "entries: [{value: 1, level: 0}]\ncolour: red"},
		{"value not integer", "entries: [{value: one, level: 0}]"},
		{"manual without level", "entries: [{value: 1, level: 0}, {value: 2}]"},
		{"not yaml", "entries: [{"},
		{"hash with level", "policy: hash\nentries: [{value: 1}, {value: 2, level: 1}]"},
		{"random with level", "policy: random\nentries: [{value: 1, level: 0}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if m, err := ParseManifest([]byte(tt.data)); err == nil {
				t.Errorf("ParseManifest() = %+v, want error", m)
			}
		})
	}
}

func TestParseManifest_PolicyWithoutLevels(t *testing.T) {
	for _, policy := range []string{PolicyHash, PolicyRandom} {
		data := "policy: " + policy + "\nseed: 5\nentries: [{value: 1}, {value: 2}, {value: 3}]"

		m, err := ParseManifest([]byte(data))
		if err != nil {
			t.Fatalf("%s: ParseManifest() error = %v", policy, err)
		}

		sl, err := m.Build()
		if err != nil {
			t.Fatalf("%s: Build() error = %v", policy, err)
		}
		if sl.Len() != 3 {
			t.Errorf("%s: Len() = %d, want 3", policy, sl.Len())
		}
		if err := sl.Validate(); err != nil {
			t.Errorf("%s: Validate() = %v", policy, err)
		}
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lanes.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if len(m.Entries) != 10 {
		t.Errorf("got %d entries, want 10", len(m.Entries))
	}

	if _, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadManifest(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestLoadManifest_Testdata(t *testing.T) {
	m, err := LoadManifest(filepath.Join("testdata", "lanes.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}

	sl, err := m.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := sl.String(); !strings.HasPrefix(got, "level 3: 1\nlevel 2: 1 -> 4 -> 6\n") {
		t.Errorf("dump =\n%s", got)
	}
}

func TestManifest_BuildEmpty(t *testing.T) {
	m := GetDefault()

	sl, err := m.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if sl.Len() != 0 {
		t.Errorf("Len() = %d, want 0", sl.Len())
	}
	if _, ok := sl.Min(); ok {
		t.Error("Min() reported a key on an empty list")
	}
}

func TestRun_Empty(t *testing.T) {
	m, err := ParseManifest([]byte("entries: []\nlookups: [5]"))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	var out bytes.Buffer
	if err := run(&out, m); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := "level 3: \nlevel 2: \nlevel 1: \nlevel 0: \nkeys: 0\nlookup 5:  (not found)\n"
	if out.String() != want {
		t.Errorf("run() output = %q, want %q", out.String(), want)
	}
}

var errWrite = errors.New("write failed")

// shortWriter accepts limit bytes, then fails every write.
type shortWriter struct {
	limit int
	n     int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > w.limit {
		return 0, errWrite
	}
	w.n += len(p)
	return len(p), nil
}

func TestRun_WriteError(t *testing.T) {
	m, err := ParseManifest([]byte(scenarioYAML))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	var full bytes.Buffer
	if err := run(&full, m); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	lines := strings.SplitAfter(full.String(), "\n")

	// Fail on the keys line, the first lookup line and the last lookup line.
	for _, failAt := range []int{4, 5, 6} {
		limit := len(strings.Join(lines[:failAt], ""))
		if err := run(&shortWriter{limit: limit}, m); !errors.Is(err, errWrite) {
			t.Errorf("run() failing at line %d: error = %v, want errWrite", failAt, err)
		}
	}
}

func TestRun(t *testing.T) {
	m, err := ParseManifest([]byte(scenarioYAML))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	var out bytes.Buffer
	if err := run(&out, m); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := strings.Join([]string{
		"level 3: 1",
		"level 2: 1 -> 4 -> 6",
		"level 1: 1 -> 3 -> 4 -> 6 -> 9",
		"level 0: 1 -> 2 -> 3 -> 4 -> 5 -> 6 -> 7 -> 8 -> 9 -> 10",
		"keys: 10, min: 1, max: 10",
		"lookup 6: 1@3 -> 1@2 -> 4@2 -> 6@2 (found)",
		"lookup 11: 1@3 -> 1@2 -> 4@2 -> 6@2 -> 6@1 -> 9@1 -> 9@0 -> 10@0 (not found)",
	}, "\n") + "\n"

	if out.String() != want {
		t.Errorf("run() output =\n%s\nwant\n%s", out.String(), want)
	}
}
