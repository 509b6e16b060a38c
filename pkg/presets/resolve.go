package presets

import (
	"github.com/germanamz/askllm/pkg/providers/provider"
)

// Params is the effective request configuration for one call.
type Params struct {
	Provider    provider.Kind
	Model       string
	MaxTokens   int
	Temperature float64
}

// Overrides are the per-call fields a caller may supply. Nil pointers and an
// empty Preset mean "not supplied".
type Overrides struct {
	Preset      string
	Model       *string
	MaxTokens   *int
	Temperature *float64
}

// Resolver combines the preset table, the process-wide active preset and
// per-call overrides into [Params].
//
// Numeric fields are taken from the first tier that has a value:
//  1. the call-scoped preset, if it exists (it wins over explicit fields)
//  2. explicit call fields
//  3. the active preset
//  4. the provider's built-in defaults
//
// Preset fields equal to zero count as unset, per field.
type Resolver struct {
	Table  *Table
	Active Preset
}

// NewResolver creates a Resolver whose active preset is the table entry
// called active, or [General] when that name is unknown.
func NewResolver(t *Table, active string) Resolver {
	if active == "" {
		active = General
	}
	return Resolver{Table: t, Active: t.Resolve(active)}
}

// Resolve computes the effective parameters for a call. kind is the target
// provider; when empty (a caller that left the provider open) it is taken
// from the call preset, then the active preset. kind must already be
// validated.
func (r Resolver) Resolve(kind provider.Kind, o Overrides) Params {
	call, hasCall := r.callPreset(o)

	if kind == "" {
		switch {
		case hasCall:
			kind = call.Provider
		case r.Active.Provider.Valid():
			kind = r.Active.Provider
		default:
			kind = provider.OpenRouter
		}
	}

	def := provider.DefaultsFor(kind)
	out := Params{Provider: kind}

	switch {
	case hasCall && call.MaxTokens > 0:
		out.MaxTokens = call.MaxTokens
	case o.MaxTokens != nil:
		out.MaxTokens = *o.MaxTokens
	case r.Active.MaxTokens > 0:
		out.MaxTokens = r.Active.MaxTokens
	default:
		out.MaxTokens = def.MaxTokens
	}

	switch {
	case hasCall && call.Temperature != 0:
		out.Temperature = call.Temperature
	case o.Temperature != nil:
		out.Temperature = *o.Temperature
	case r.Active.Temperature != 0:
		out.Temperature = r.Active.Temperature
	default:
		out.Temperature = def.Temperature
	}

	// A preset's model only makes sense for the provider it was written for.
	switch {
	case o.Model != nil && *o.Model != "":
		out.Model = *o.Model
	case hasCall && call.Provider == kind && call.Model != "":
		out.Model = call.Model
	case r.Active.Provider == kind && r.Active.Model != "":
		out.Model = r.Active.Model
	default:
		out.Model = def.Model
	}

	return out
}

func (r Resolver) callPreset(o Overrides) (Preset, bool) {
	if o.Preset == "" || r.Table == nil {
		return Preset{}, false
	}

	p, ok := r.Table.Lookup(o.Preset)
	if !ok {
		r.Table.log.Warn("unknown call preset ignored", "preset", o.Preset)
	}

	return p, ok
}
