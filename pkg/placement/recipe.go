package placement

import (
	"github.com/Hanteus/ProjectArena/pkg/arena"
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
)

// Kind identifies a resource category.
type Kind string

const (
	KindSpawn  Kind = "spawn"
	KindMedkit Kind = "medkit"
	KindAmmo   Kind = "ammo"
)

// Resource binds a grid symbol to the number of units a run must place.
type Resource struct {
	Symbol byte
	Count  int
}

// Interval is a closed target band for normalized room connectivity.
type Interval struct {
	Lo, Hi float64
}

// Recipe describes a full placement run: the resources to place and the
// normalized-degree bands their rooms should sit in. Ammo carries two bands
// because its units are split between low-connectivity and high-connectivity
// rooms.
type Recipe struct {
	Spawn  Resource
	Medkit Resource
	Ammo   Resource

	SpawnBand    Interval
	MedkitBand   Interval
	AmmoLowBand  Interval
	AmmoHighBand Interval
}

// DefaultRecipe returns the standard deathmatch loadout: five spawn points,
// four medkits, and four ammo crates with their usual connectivity bands.
func DefaultRecipe() Recipe {
	return Recipe{
		Spawn:        Resource{Symbol: 's', Count: 5},
		Medkit:       Resource{Symbol: 'h', Count: 4},
		Ammo:         Resource{Symbol: 'a', Count: 4},
		SpawnBand:    Interval{Lo: 0.1, Hi: 0.3},
		MedkitBand:   Interval{Lo: 0.3, Hi: 0.5},
		AmmoLowBand:  Interval{Lo: 0.2, Hi: 0.4},
		AmmoHighBand: Interval{Lo: 0.8, Hi: 0.9},
	}
}

// Validate rejects recipes whose symbols collide with level geometry or each
// other, whose counts are negative, or whose degree bands are malformed.
func (r Recipe) Validate() error {
	resources := []struct {
		kind Kind
		res  Resource
	}{
		{KindSpawn, r.Spawn},
		{KindMedkit, r.Medkit},
		{KindAmmo, r.Ammo},
	}

	seen := make(map[byte]Kind, len(resources))
	for _, entry := range resources {
		sym := entry.res.Symbol
		switch {
		case entry.res.Count < 0:
			return errs.New(errs.ErrCodeInvalidRecipe, "%s: count %d is negative", entry.kind, entry.res.Count)
		case sym == arena.Wall || sym == arena.Floor || sym == arena.Door:
			return errs.New(errs.ErrCodeInvalidRecipe, "%s: symbol %q is reserved for level geometry", entry.kind, sym)
		case sym <= ' ' || sym > '~':
			return errs.New(errs.ErrCodeInvalidRecipe, "%s: symbol %#x is not printable", entry.kind, sym)
		}
		if other, dup := seen[sym]; dup {
			return errs.New(errs.ErrCodeInvalidRecipe, "%s and %s share symbol %q", other, entry.kind, sym)
		}
		seen[sym] = entry.kind
	}

	bands := []struct {
		name string
		band Interval
	}{
		{"spawn", r.SpawnBand},
		{"medkit", r.MedkitBand},
		{"low ammo", r.AmmoLowBand},
		{"high ammo", r.AmmoHighBand},
	}
	for _, entry := range bands {
		if entry.band.Lo < 0 || entry.band.Hi < entry.band.Lo {
			return errs.New(errs.ErrCodeInvalidInterval,
				"%s band [%g, %g]: bounds must satisfy 0 <= lo <= hi", entry.name, entry.band.Lo, entry.band.Hi)
		}
	}
	return nil
}
