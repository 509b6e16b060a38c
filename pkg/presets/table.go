package presets

import (
	"log/slog"
	"sort"
)

// Table is the merged, immutable preset catalogue.
type Table struct {
	presets map[string]Preset
	log     *slog.Logger
}

// NewTable overlays external on top of [Builtins]. Entries of external
// replace built-ins with the same name. Invalid external entries are skipped
// with a warning. A nil log uses slog.Default().
func NewTable(external map[string]Preset, log *slog.Logger) *Table {
	if log == nil {
		log = slog.Default()
	}

	merged := Builtins()
	for name, p := range external {
		p.Name = name
		if err := p.Validate(); err != nil {
			log.Warn("skipping invalid preset", "preset", name, "error", err)
			continue
		}
		if _, ok := merged[name]; ok {
			log.Debug("external preset overrides built-in", "preset", name)
		}
		merged[name] = p
	}

	return &Table{presets: merged, log: log}
}

// Lookup returns the preset called name.
func (t *Table) Lookup(name string) (Preset, bool) {
	p, ok := t.presets[name]
	return p, ok
}

// Resolve returns the preset called name. Unknown names fall back to
// [General] and a warning is logged; Resolve never fails.
func (t *Table) Resolve(name string) Preset {
	if p, ok := t.presets[name]; ok {
		return p
	}

	t.log.Warn("unknown preset, falling back", "preset", name, "fallback", General)

	// General is a built-in and can only be replaced by a valid entry.
	return t.presets[General]
}

// Names returns the preset names in lexical order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.presets))
	for name := range t.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every preset ordered by name.
func (t *Table) All() []Preset {
	names := t.Names()
	out := make([]Preset, len(names))
	for i, name := range names {
		out[i] = t.presets[name]
	}
	return out
}

// Len returns the number of presets.
func (t *Table) Len() int { return len(t.presets) }
