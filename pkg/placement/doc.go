// Package placement greedily populates an arena with gameplay resources.
//
// # Overview
//
// A placement run takes a tile grid and the reduced room set, clears any
// resources left over from earlier runs, and places spawn points, medkits,
// and ammo one unit at a time. Each unit picks the best room, then the best
// tile inside that room, then commits: the symbol is written into the grid, a
// resource node is wired into the rooms graph, and the commit log grows by
// one. Later units see everything earlier units placed, which is what spreads
// resources across the level instead of piling them into one room.
//
// # Recipes
//
// A [Recipe] says what to place and where it should gravitate: a symbol and
// count per kind, plus normalized-degree bands describing how connected the
// hosting rooms should be. Spawn points prefer quiet rooms, medkits
// mid-traffic rooms. Ammo splits in half: the first floor(n/2) units target a
// low-connectivity band, the remaining ceil(n/2) a high-connectivity band.
// [DefaultRecipe] reproduces the standard deathmatch loadout.
//
// # Room Selection
//
// Every area node is scored as
//
//	fit + nearestDistance/diameter*0.25 - redundancy
//
// where fit is the room's interval fit for the phase's degree band (frozen
// before any placements), nearestDistance is the weighted graph distance to
// the closest placed object of the attracting kinds, and redundancy counts
// adjacent objects of the same kind, each worth 1/count. The proximity bonus
// is 0 until the first attracting object exists. The highest score wins; ties
// keep the first room in node insertion order.
//
// # Tile Selection
//
// Tiles inside the winning room's rectangle are scored with a kind-specific
// visibility term (spawns hide in low visibility, medkits sit near 0.5, ammo
// shows off in high visibility), a distance-to-wall term, and a
// distance-to-placed-objects term. Spawn points scan the full rectangle;
// medkits and ammo stop short of the far edge. Ties keep the earliest tile in
// row-major scan order.
//
// # Failure Modes
//
// A run either places every requested unit or returns an error carrying the
// kind and iteration that failed: CONFIG_NO_CANDIDATES when no room or tile
// candidates exist, CONFIG_TILE_OCCUPIED when the winning tile already holds
// something. There is no partial-success mode; callers discard the run on
// error.
//
// # Determinism
//
// Two runs over identical inputs produce identical grids and commit logs.
// Scoring iterates nodes and tiles in fixed order and nothing in the engine
// draws randomness.
package placement
