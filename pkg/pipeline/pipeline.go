// Package pipeline provides the core analysis pipeline for level maps.
//
// This package implements the complete load → reduce → analyze → populate →
// render pipeline that can be used by CLI, API, and worker components. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Load: Read the tile grid and AB genome, inline or from a map pair
//     on disk
//  2. Reduce: Decode the genome and reduce the room list (merge adjacent
//     rectangles, prune contained ones)
//  3. Analyze: Build the requested graph views, the visibility matrix,
//     and the connectivity metrics
//  4. Populate: Place the recipe's resources onto the grid (optional)
//  5. Render: Produce DOT/SVG/PNG/JSON artifacts per view (optional)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    MapName:  "arena1",
//	    InputDir: "Input",
//	    Populate: true,
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["rooms.svg"]
//
// Run individual stages:
//
//	// Load and reduce only
//	level, err := pipeline.Load(ctx, opts)
//	rooms, err := pipeline.Reduce(level)
//
//	// Analyze with caching
//	analysis, err := runner.Analyze(ctx, level, opts)
//
//	// Render existing graphs
//	artifacts, err := runner.Render(ctx, analysis.Graphs, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Hanteus/ProjectArena/pkg/cache"
	"github.com/Hanteus/ProjectArena/pkg/config"
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
	"github.com/Hanteus/ProjectArena/pkg/graph"
	"github.com/Hanteus/ProjectArena/pkg/mapio"
	"github.com/Hanteus/ProjectArena/pkg/placement"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Menu
// =============================================================================

// DefaultMapName labels runs whose grid and genome were passed inline
// without a name.
const DefaultMapName = "map"

// Stage names, as reported to observability hooks.
const (
	StageLoad     = "load"
	StageReduce   = "reduce"
	StageAnalyze  = "analyze"
	StagePopulate = "populate"
)

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. A run takes either an inline grid and genome, or a
	// map name resolved to the MapName_map.txt / MapName_AB.txt pair
	// under InputDir.
	MapName  string `json:"map_name,omitempty"`
	InputDir string `json:"input_dir,omitempty"`
	Grid     string `json:"grid,omitempty"`
	Genome   string `json:"genome,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`

	// Analyze options
	Views []string `json:"views,omitempty"`

	// Populate options. Profile is a TOML recipe profile; when empty the
	// default recipe applies.
	Populate bool   `json:"populate,omitempty"`
	Profile  string `json:"profile,omitempty"`

	// Render options. Empty Formats skips the render stage in Execute.
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized). A non-nil Recipe takes
	// precedence over Profile.
	Logger *log.Logger       `json:"-"`
	Recipe *placement.Recipe `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Level is the loaded level. Its grid holds the placed resources
	// after a populate run.
	Level *Level

	// GridHash is the content hash of the grid as it was loaded,
	// before any placements.
	GridHash string

	// Analysis carries the graph views, visibility matrix, and metrics.
	Analysis *Analysis

	// Placements is the commit log of a populate run, in placement
	// order. Nil when Populate was off.
	Placements []placement.PlacedObject

	// Artifacts contains rendered outputs keyed by "view.format".
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which cached products were reused.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RoomCount      int
	PlacementCount int
	LoadTime       time.Duration
	ReduceTime     time.Duration
	AnalyzeTime    time.Duration
	PopulateTime   time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each cached pipeline product.
type CacheInfo struct {
	VisibilityHit bool // visibility matrix came from cache
	AnalysisHit   bool // analysis bundle (graphs + metrics) came from cache
	RenderHit     bool // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat,
			"invalid format %q (must be one of: dot, svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateView checks that a graph view is valid.
func ValidateView(view string) error {
	if !slices.Contains(graph.Views, view) {
		return errs.New(errs.ErrCodeInvalidView,
			"invalid view %q (must be one of: %v)", view, graph.Views)
	}
	return nil
}

// ValidateViews checks that all views are valid.
func ValidateViews(views []string) error {
	for _, v := range views {
		if err := ValidateView(v); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForAnalyze(); err != nil {
		return err
	}
	if o.Populate {
		if err := o.ValidateForPopulate(); err != nil {
			return err
		}
	}
	if len(o.Formats) > 0 {
		if err := o.ValidateForRender(); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading a level.
func (o *Options) ValidateForLoad() error {
	inline := o.Grid != "" || o.Genome != ""
	if inline {
		if o.Grid == "" {
			return errs.New(errs.ErrCodeInvalidInput, "an inline genome needs an inline grid")
		}
		if o.Genome == "" {
			return errs.New(errs.ErrCodeInvalidInput, "an inline grid needs an inline genome")
		}
		if o.MapName == "" {
			o.MapName = DefaultMapName
		}
	} else {
		if o.MapName == "" {
			return errs.New(errs.ErrCodeInvalidInput, "map_name is required when no inline grid is given")
		}
		if err := errs.ValidateMapName(o.MapName); err != nil {
			return err
		}
		if o.InputDir == "" {
			o.InputDir = mapio.DefaultInputDir
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForAnalyze validates and sets defaults for the analysis stage.
// An empty view list expands to every view.
func (o *Options) ValidateForAnalyze() error {
	if len(o.Views) == 0 {
		o.Views = slices.Clone(graph.Views)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateViews(o.Views)
}

// ValidateForPopulate resolves the placement recipe: an explicit Recipe
// wins, then a TOML Profile, then the default recipe.
func (o *Options) ValidateForPopulate() error {
	if o.Recipe != nil {
		return o.Recipe.Validate()
	}

	recipe := placement.DefaultRecipe()
	if o.Profile != "" {
		parsed, err := config.Parse([]byte(o.Profile))
		if err != nil {
			return err
		}
		recipe = parsed
	}
	o.Recipe = &recipe
	return nil
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForAnalyze(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	return ValidateFormats(o.Formats)
}

// Inline reports whether the level arrives as inline text rather than
// as a map pair on disk.
func (o *Options) Inline() bool {
	return o.Grid != ""
}

// AnalysisKeyOpts returns cache key options for the analysis bundle.
func (o *Options) AnalysisKeyOpts() cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{Views: o.Views}
}

// ArtifactKeyOpts returns cache key options for one rendered artifact.
func (o *Options) ArtifactKeyOpts(view, format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{View: view, Format: format}
}
