package types

// Override is an author correction for one component. Nil fields leave
// the manifest value in place.
type Override struct {
	Summary     *string
	Description *string
	Patches     []string
	Exclude     bool
}

// OverrideSet maps component names to overrides. It is read-only after
// loading and safe for concurrent lookups.
type OverrideSet struct {
	entries map[string]Override
}

func NewOverrideSet(entries map[string]Override) OverrideSet {
	copied := make(map[string]Override, len(entries))
	for name, override := range entries {
		copied[name] = override
	}
	return OverrideSet{entries: copied}
}

// Lookup returns the override for name, or a pass-through override.
func (s OverrideSet) Lookup(name string) Override {
	if override, ok := s.entries[name]; ok {
		return override
	}
	return Override{}
}

func (s OverrideSet) Len() int {
	return len(s.entries)
}

// OverrideEntry is the on-disk shape of one override in YAML and TOML
// override documents.
type OverrideEntry struct {
	Name        string   `yaml:"name" toml:"name"`
	Summary     *string  `yaml:"summary,omitempty" toml:"summary,omitempty"`
	Description *string  `yaml:"description,omitempty" toml:"description,omitempty"`
	Patches     []string `yaml:"patches,omitempty" toml:"patches,omitempty"`
	Exclude     bool     `yaml:"exclude,omitempty" toml:"exclude,omitempty"`
}

type OverrideFile struct {
	Packages []OverrideEntry `yaml:"packages" toml:"packages"`
}
