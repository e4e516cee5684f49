// Package pkg provides the core libraries for ProjectArena level analysis.
//
// # Overview
//
// ProjectArena decodes AB genomes into rectangular rooms, studies the
// resulting level as a set of weighted graphs, and places gameplay resources
// on the grid. The pkg directory is organized into four main areas:
//
//  1. [arena] - Domain model (genome codec, grid, room reduction)
//  2. [graph] - Level views, visibility, and metrics
//  3. [placement] - Greedy sequential resource placement
//  4. [pipeline] - Orchestration (load → analyze → populate → render)
//
// # Architecture
//
// The typical data flow through ProjectArena:
//
//	Map files (NAME_map.txt + NAME_AB.txt)
//	         ↓
//	    [arena] package (decode genome, merge + prune rooms)
//	         ↓
//	    [graph] package (views, visibility matrix, metrics)
//	         ↓
//	    [placement] package (spawn/medkit/ammo placement)
//	         ↓
//	    Populated map + DOT/SVG/PNG/JSON artifacts
//
// # Quick Start
//
// Decode a genome, reduce the rooms, and populate the grid:
//
//	import (
//	    "github.com/Hanteus/ProjectArena/pkg/arena"
//	    "github.com/Hanteus/ProjectArena/pkg/graph"
//	    "github.com/Hanteus/ProjectArena/pkg/placement"
//	)
//
//	// 1. Decode and reduce the genome
//	rooms, _ := arena.DecodeGenome("<0,0,6><0,14,6>|<1,5,-10>")
//	rooms, _ = arena.Reduce(rooms)
//
//	// 2. Compute tile visibility
//	grid, _ := arena.NewGrid(rows)
//	vis, _ := graph.VisibilityMatrix(grid)
//
//	// 3. Place resources
//	engine, _ := placement.New(grid, rooms, vis)
//	placed, _ := engine.Run(placement.DefaultRecipe())
//
// # Main Packages
//
// ## Domain Model
//
// [arena] - AB genome codec and grid primitives. Genomes encode square and
// rectangular rooms as <x,y,size> and <x,y,±length> genes; decoding yields
// room rectangles and [arena.Reduce] merges adjacent pairs and removes
// contained rooms until a fixed point.
//
// [graph] - Undirected weighted graphs with typed nodes (areas, resources,
// tiles, corners). Builders derive five views from a level: rooms, objects,
// tiles, visibility, and outline. Line-of-sight visibility between floor
// tiles is computed by [graph.VisibilityMatrix].
//
// [graph/metrics] - Graph measurements: Dijkstra shortest paths, weighted
// diameter, size-normalized degrees, and interval fit scores used by the
// placement heuristics.
//
// ## Placement
//
// [placement] - Greedy sequential engine. Each phase (spawn, medkit, ammo
// low, ammo high) scores candidate rooms by interval fit and redundancy,
// scores candidate tiles by visibility band, and commits one object per
// iteration, mutating the grid and the objects graph as it goes. Recipes
// describe symbols, counts, and target bands; [placement.DefaultRecipe]
// mirrors the standard deathmatch loadout.
//
// ## Orchestration
//
// [pipeline] - Complete analysis pipeline (load → analyze → populate →
// render) used by CLI and API. A [pipeline.Runner] caches visibility
// matrices, analyses, and rendered artifacts between runs and ensures both
// entry points behave identically.
//
// ## Infrastructure
//
// [cache] - Content-addressed caching for pipeline results. FileCache for
// the CLI (filesystem), RedisCache for multi-instance API deployments,
// NullCache for tests and --no-cache runs.
//
// [archive] - Persistence for completed placement runs with TTL-based
// expiry. FileStore keeps JSON documents on disk; MongoStore backs
// multi-instance API deployments.
//
// [config] - Placement profiles in TOML. [config.Parse] validates resource
// counts and interval bands and rejects unknown keys.
//
// [errors] - Coded errors shared by CLI and API. Codes map to exit
// behavior and HTTP status; [errors.UserMessage] renders a short
// human-readable form.
//
// [observability] - Optional hook registry for pipeline stage, cache, and
// placement events without binding to a metrics backend.
//
// [buildinfo] - Build-time version information set via ldflags.
//
// ## Input and Output
//
// [mapio] - The on-disk map convention: NAME_map.txt holds the character
// grid, NAME_AB.txt holds the genome. Import, export, and directory
// listing live here.
//
// [render] - Graphviz rendering. [render.ToDOT] styles each view (rooms
// scaled by area, tiles shaded by visibility) and [render.RenderSVG] /
// [render.RenderPNG] rasterize through go-graphviz.
//
// # Common Workflows
//
// Run the full pipeline against a named map:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    MapName:  "arena1",
//	    Populate: true,
//	    Views:    []string{graph.ViewRooms, graph.ViewObjects},
//	})
//
// Load a map pair from disk:
//
//	grid, genome, _ := mapio.LoadPair("maps", "arena1")
//
// Render a single view:
//
//	g := graph.NewRoomsGraph(rooms)
//	dot, _ := render.ToDOT(g, graph.ViewRooms)
//	svg, _ := render.RenderSVG(ctx, dot)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/arena/...      # Specific package
//	go test -run Example ./...   # Examples only
//
// [arena]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/arena
// [graph]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/graph
// [graph/metrics]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/graph/metrics
// [placement]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/placement
// [pipeline]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/cache
// [archive]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/archive
// [config]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/config
// [errors]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/errors
// [observability]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/buildinfo
// [mapio]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/mapio
// [render]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/render
//
// [arena.Reduce]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/arena#Reduce
// [graph.VisibilityMatrix]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/graph#VisibilityMatrix
// [placement.DefaultRecipe]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/placement#DefaultRecipe
// [pipeline.Runner]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/pipeline#Runner
// [config.Parse]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/config#Parse
// [errors.UserMessage]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/errors#UserMessage
// [render.ToDOT]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/render#ToDOT
// [render.RenderSVG]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/render#RenderSVG
// [render.RenderPNG]: https://pkg.go.dev/github.com/Hanteus/ProjectArena/pkg/render#RenderPNG
package pkg
