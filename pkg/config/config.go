// Package config loads placement profiles from TOML files.
//
// A profile overrides parts of the default resource recipe: which grid
// symbol each resource kind writes, how many units a run places, and
// the normalized-connectivity bands their rooms should sit in. Keys
// that a profile omits keep their defaults, so a minimal profile can
// adjust a single count:
//
//	[resources.ammo]
//	count = 8
//
// A full profile:
//
//	[resources.spawn]
//	symbol = "s"
//	count  = 5
//
//	[resources.medkit]
//	symbol = "h"
//	count  = 4
//
//	[resources.ammo]
//	symbol = "a"
//	count  = 4
//
//	[bands]
//	spawn     = { lo = 0.1, hi = 0.3 }
//	medkit    = { lo = 0.3, hi = 0.5 }
//	ammo_low  = { lo = 0.2, hi = 0.4 }
//	ammo_high = { lo = 0.8, hi = 0.9 }
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/Hanteus/ProjectArena/pkg/errors"
	"github.com/Hanteus/ProjectArena/pkg/placement"
)

// Profile mirrors the TOML document layout.
type Profile struct {
	Resources ResourceSet `toml:"resources"`
	Bands     BandSet     `toml:"bands"`
}

// ResourceSet holds the per-kind resource overrides.
type ResourceSet struct {
	Spawn  ResourceSpec `toml:"spawn"`
	Medkit ResourceSpec `toml:"medkit"`
	Ammo   ResourceSpec `toml:"ammo"`
}

// ResourceSpec overrides the symbol and unit count for one resource kind.
type ResourceSpec struct {
	Symbol string `toml:"symbol"`
	Count  int    `toml:"count"`
}

// BandSet holds the connectivity band overrides.
type BandSet struct {
	Spawn    Band `toml:"spawn"`
	Medkit   Band `toml:"medkit"`
	AmmoLow  Band `toml:"ammo_low"`
	AmmoHigh Band `toml:"ammo_high"`
}

// Band is a closed normalized-connectivity interval.
type Band struct {
	Lo float64 `toml:"lo"`
	Hi float64 `toml:"hi"`
}

// Load reads a profile file and resolves it against the default recipe.
func Load(path string) (placement.Recipe, error) {
	var profile Profile
	md, err := toml.DecodeFile(path, &profile)
	if err != nil {
		if os.IsNotExist(err) {
			return placement.Recipe{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "profile %s", path)
		}
		return placement.Recipe{}, errs.Wrap(errs.ErrCodeInvalidRecipe, err, "parse profile %s", path)
	}
	return build(profile, md)
}

// Parse resolves an in-memory profile document against the default recipe.
func Parse(data []byte) (placement.Recipe, error) {
	var profile Profile
	md, err := toml.Decode(string(data), &profile)
	if err != nil {
		return placement.Recipe{}, errs.Wrap(errs.ErrCodeInvalidRecipe, err, "parse profile")
	}
	return build(profile, md)
}

// build applies the defined profile keys on top of the default recipe.
// Undefined keys keep their defaults; unknown keys are rejected so a
// typo like "ammo_hi" fails loudly instead of silently keeping defaults.
func build(p Profile, md toml.MetaData) (placement.Recipe, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return placement.Recipe{}, errs.New(errs.ErrCodeInvalidRecipe,
			"unknown profile keys: %s", strings.Join(keys, ", "))
	}

	recipe := placement.DefaultRecipe()

	resources := []struct {
		key  string
		spec ResourceSpec
		dst  *placement.Resource
	}{
		{"spawn", p.Resources.Spawn, &recipe.Spawn},
		{"medkit", p.Resources.Medkit, &recipe.Medkit},
		{"ammo", p.Resources.Ammo, &recipe.Ammo},
	}
	for _, r := range resources {
		if md.IsDefined("resources", r.key, "symbol") {
			if err := errs.ValidateResourceSymbol(r.spec.Symbol); err != nil {
				return placement.Recipe{}, err
			}
			r.dst.Symbol = r.spec.Symbol[0]
		}
		if md.IsDefined("resources", r.key, "count") {
			r.dst.Count = r.spec.Count
		}
	}

	bands := []struct {
		key  string
		band Band
		dst  *placement.Interval
	}{
		{"spawn", p.Bands.Spawn, &recipe.SpawnBand},
		{"medkit", p.Bands.Medkit, &recipe.MedkitBand},
		{"ammo_low", p.Bands.AmmoLow, &recipe.AmmoLowBand},
		{"ammo_high", p.Bands.AmmoHigh, &recipe.AmmoHighBand},
	}
	for _, b := range bands {
		if !md.IsDefined("bands", b.key) {
			continue
		}
		if err := errs.ValidateInterval(b.band.Lo, b.band.Hi); err != nil {
			return placement.Recipe{}, err
		}
		*b.dst = placement.Interval{Lo: b.band.Lo, Hi: b.band.Hi}
	}

	if err := recipe.Validate(); err != nil {
		return placement.Recipe{}, err
	}
	return recipe, nil
}
