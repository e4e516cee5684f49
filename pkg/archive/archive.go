// Package archive persists completed placement runs.
//
// Every successful populate produces a Run: which map was populated,
// the resolved recipe, and where each resource landed. Runs are kept
// for inspection and comparison, with implementations for different
// backends:
//   - file: JSON files under the config directory for CLI usage
//   - mongo: MongoDB for server deployments
//
// # Architecture
//
// Runs carry an expiration so the archive does not grow without bound.
// The Store interface supports:
//   - Get/Put/Delete operations
//   - Listing recent runs, newest first
//   - Cleanup of expired runs
//
// # Usage
//
// Create a store:
//
//	// CLI
//	store, err := archive.NewFileStore("")  // Uses ~/.config/arenamap/runs/
//
//	// Server
//	store, err := archive.NewMongoStore(ctx, "mongodb://localhost:27017", "arenamap")
//
// Record a run:
//
//	run := archive.NewRun(mapName, gridHash, recipe, placed, stats, 0)
//	if err := store.Put(ctx, run); err != nil {
//	    return err
//	}
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Hanteus/ProjectArena/pkg/placement"
)

// DefaultTTL is how long runs are kept before Cleanup may remove them.
const DefaultTTL = 30 * 24 * time.Hour

// Run is one archived placement run.
type Run struct {
	ID         string      `json:"id" bson:"_id"`
	MapName    string      `json:"map_name" bson:"map_name"`
	GridHash   string      `json:"grid_hash" bson:"grid_hash"`
	Recipe     Recipe      `json:"recipe" bson:"recipe"`
	Placements []Placement `json:"placements" bson:"placements"`
	Stats      Stats       `json:"stats" bson:"stats"`
	CreatedAt  time.Time   `json:"created_at" bson:"created_at"`
	ExpiresAt  time.Time   `json:"expires_at" bson:"expires_at"`
}

// Placement records one committed object in storage form. The symbol
// is a one-character string so stored documents stay readable.
type Placement struct {
	X      int    `json:"x" bson:"x"`
	Y      int    `json:"y" bson:"y"`
	Symbol string `json:"symbol" bson:"symbol"`
}

// Resource is the storage form of a recipe resource.
type Resource struct {
	Symbol string `json:"symbol" bson:"symbol"`
	Count  int    `json:"count" bson:"count"`
}

// Band is the storage form of a connectivity interval.
type Band struct {
	Lo float64 `json:"lo" bson:"lo"`
	Hi float64 `json:"hi" bson:"hi"`
}

// Recipe is the storage form of a resolved placement recipe.
type Recipe struct {
	Spawn  Resource `json:"spawn" bson:"spawn"`
	Medkit Resource `json:"medkit" bson:"medkit"`
	Ammo   Resource `json:"ammo" bson:"ammo"`

	SpawnBand    Band `json:"spawn_band" bson:"spawn_band"`
	MedkitBand   Band `json:"medkit_band" bson:"medkit_band"`
	AmmoLowBand  Band `json:"ammo_low_band" bson:"ammo_low_band"`
	AmmoHighBand Band `json:"ammo_high_band" bson:"ammo_high_band"`
}

// Stats summarizes the pipeline work behind a run.
type Stats struct {
	Rooms        int           `json:"rooms" bson:"rooms"`
	Placements   int           `json:"placements" bson:"placements"`
	LoadTime     time.Duration `json:"load_time" bson:"load_time"`
	AnalyzeTime  time.Duration `json:"analyze_time" bson:"analyze_time"`
	PopulateTime time.Duration `json:"populate_time" bson:"populate_time"`
}

// IsExpired returns true if the run has passed its expiration.
func (r *Run) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// Store is the interface for run archive backends.
type Store interface {
	// Get retrieves a run by ID.
	// Returns nil, nil if the run doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Run, error)

	// Put stores a run.
	Put(ctx context.Context, run *Run) error

	// Delete removes a run.
	Delete(ctx context.Context, id string) error

	// List returns unexpired runs newest first. A limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Cleanup removes expired runs (optional, may be no-op for backends
	// with server-side expiry).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// NewRun assembles a Run from a completed placement. A ttl <= 0 uses
// DefaultTTL.
func NewRun(mapName, gridHash string, recipe placement.Recipe, placed []placement.PlacedObject, stats Stats, ttl time.Duration) *Run {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now().UTC()
	return &Run{
		ID:         uuid.NewString(),
		MapName:    mapName,
		GridHash:   gridHash,
		Recipe:     recordRecipe(recipe),
		Placements: recordPlacements(placed),
		Stats:      stats,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}

func recordRecipe(r placement.Recipe) Recipe {
	return Recipe{
		Spawn:        Resource{Symbol: string(r.Spawn.Symbol), Count: r.Spawn.Count},
		Medkit:       Resource{Symbol: string(r.Medkit.Symbol), Count: r.Medkit.Count},
		Ammo:         Resource{Symbol: string(r.Ammo.Symbol), Count: r.Ammo.Count},
		SpawnBand:    Band{Lo: r.SpawnBand.Lo, Hi: r.SpawnBand.Hi},
		MedkitBand:   Band{Lo: r.MedkitBand.Lo, Hi: r.MedkitBand.Hi},
		AmmoLowBand:  Band{Lo: r.AmmoLowBand.Lo, Hi: r.AmmoLowBand.Hi},
		AmmoHighBand: Band{Lo: r.AmmoHighBand.Lo, Hi: r.AmmoHighBand.Hi},
	}
}

func recordPlacements(placed []placement.PlacedObject) []Placement {
	out := make([]Placement, len(placed))
	for i, p := range placed {
		out[i] = Placement{X: p.X, Y: p.Y, Symbol: string(p.Symbol)}
	}
	return out
}
