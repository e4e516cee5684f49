package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Hanteus/ProjectArena/pkg/arena"
	"github.com/Hanteus/ProjectArena/pkg/cache"
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
	"github.com/Hanteus/ProjectArena/pkg/graph"
	"github.com/Hanteus/ProjectArena/pkg/observability"
)

// Cache key classes, as reported to observability hooks.
const (
	cacheClassVisibility = "visibility"
	cacheClassAnalysis   = "analysis"
	cacheClassArtifact   = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → reduce → analyze → populate → render
// pipeline with caching. The populate and render stages only run when
// opts.Populate is set and opts.Formats is non-empty, respectively.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	hooks := observability.Pipeline()

	// Stage 1: Load
	loadStart := time.Now()
	hooks.OnStageStart(ctx, StageLoad, opts.MapName)
	level, err := Load(ctx, opts)
	hooks.OnStageComplete(ctx, StageLoad, opts.MapName, time.Since(loadStart), err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Level = level
	result.Stats.LoadTime = time.Since(loadStart)
	result.GridHash = cache.Hash([]byte(level.Grid.String()))

	r.Logger.Info("loaded level",
		"map", level.Name,
		"rows", level.Grid.Rows(),
		"cols", level.Grid.Cols(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Reduce
	reduceStart := time.Now()
	hooks.OnStageStart(ctx, StageReduce, level.Name)
	rooms, err := Reduce(level)
	hooks.OnStageComplete(ctx, StageReduce, level.Name, time.Since(reduceStart), err)
	if err != nil {
		return nil, fmt.Errorf("reduce: %w", err)
	}
	level.Rooms = rooms
	result.Stats.ReduceTime = time.Since(reduceStart)
	result.Stats.RoomCount = len(rooms)

	r.Logger.Info("reduced rooms",
		"rooms", len(rooms),
		"duration", result.Stats.ReduceTime)

	// Stage 3: Analyze
	analyzeStart := time.Now()
	hooks.OnStageStart(ctx, StageAnalyze, level.Name)
	analysis, info, err := r.AnalyzeWithCacheInfo(ctx, level, opts)
	hooks.OnStageComplete(ctx, StageAnalyze, level.Name, time.Since(analyzeStart), err)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Analysis = analysis
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.CacheInfo.VisibilityHit = info.VisibilityHit
	result.CacheInfo.AnalysisHit = info.AnalysisHit

	r.Logger.Info("analyzed level",
		"views", opts.Views,
		"diameter", analysis.Diameter,
		"duration", result.Stats.AnalyzeTime)

	// Stage 4: Populate
	if opts.Populate {
		popStart := time.Now()
		hooks.OnStageStart(ctx, StagePopulate, level.Name)
		placed, err := Populate(ctx, level, analysis, opts)
		hooks.OnStageComplete(ctx, StagePopulate, level.Name, time.Since(popStart), err)
		if err != nil {
			return nil, fmt.Errorf("populate: %w", err)
		}
		result.Placements = placed
		result.Stats.PopulateTime = time.Since(popStart)
		result.Stats.PlacementCount = len(placed)

		// The grid now holds resource symbols, so the symbol-carrying
		// views are rebuilt before anything renders them.
		refreshPopulatedViews(level, analysis, opts.Views)

		r.Logger.Info("populated level",
			"placements", len(placed),
			"duration", result.Stats.PopulateTime)
	}

	// Stage 5: Render
	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, analysis.Graphs, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(renderStart)
		result.CacheInfo.RenderHit = renderHit

		r.Logger.Info("rendered views",
			"views", opts.Views,
			"formats", opts.Formats,
			"duration", result.Stats.RenderTime)
	}

	return result, nil
}

// AnalyzeWithCacheInfo runs the analyze stage with caching and reports
// which cached products were reused. The visibility matrix is fetched
// (or computed and stored) only when the run will place resources; the
// analysis bundle of graphs and metrics is cached under the grid hash
// and the requested views.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, level *Level, opts Options) (*Analysis, CacheInfo, error) {
	var info CacheInfo
	if err := opts.ValidateForAnalyze(); err != nil {
		return nil, info, err
	}
	r.applyLogger(&opts)

	gridHash := cache.Hash([]byte(level.Grid.String()))

	var visibility [][]float64
	if opts.Populate {
		m, hit, err := r.visibilityWithCacheInfo(ctx, level.Grid, gridHash, opts.Refresh)
		if err != nil {
			return nil, info, err
		}
		visibility = m
		info.VisibilityHit = hit
	}

	bundleKey := r.Keyer.AnalysisKey(gridHash, opts.AnalysisKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, bundleKey); err == nil && hit {
			if a, err := unmarshalAnalysis(data); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheClassAnalysis)
				a.Visibility = visibility
				info.AnalysisHit = true
				return a, info, nil
			}
			// Undecodable entries fall through to a rebuild.
		}
		observability.Cache().OnCacheMiss(ctx, cacheClassAnalysis)
	}

	analysis, err := Analyze(level, visibility, opts)
	if err != nil {
		return nil, info, err
	}

	// Cache the result
	if data, err := marshalAnalysis(analysis); err == nil {
		if r.Cache.Set(ctx, bundleKey, data, cache.AnalysisTTL) == nil {
			observability.Cache().OnCacheSet(ctx, cacheClassAnalysis, len(data))
		}
	}

	return analysis, info, nil
}

// Analyze is a convenience wrapper that calls AnalyzeWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Analyze(ctx context.Context, level *Level, opts Options) (*Analysis, error) {
	a, _, err := r.AnalyzeWithCacheInfo(ctx, level, opts)
	return a, err
}

// visibilityWithCacheInfo loads the level's normalized visibility
// matrix from the cache, computing and storing it on a miss. The key is
// purely content-addressed, so a cached matrix can never go stale.
func (r *Runner) visibilityWithCacheInfo(ctx context.Context, grid *arena.Grid, gridHash string, refresh bool) ([][]float64, bool, error) {
	key := r.Keyer.VisibilityKey(gridHash)

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var m [][]float64
			if err := json.Unmarshal(data, &m); err == nil && len(m) == grid.Rows() {
				observability.Cache().OnCacheHit(ctx, cacheClassVisibility)
				return m, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, cacheClassVisibility)
	}

	m, err := graph.VisibilityMatrix(grid)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(m); err == nil {
		if r.Cache.Set(ctx, key, data, cache.VisibilityTTL) == nil {
			observability.Cache().OnCacheSet(ctx, cacheClassVisibility, len(data))
		}
	}
	return m, false, nil
}

// RenderWithCacheInfo renders artifacts with caching and returns cache
// hit info. Every artifact is keyed by the hash of its view's snapshot,
// so identical graphs share artifacts no matter how they were produced.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, graphs map[string]*graph.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hashes := make(map[string]string, len(opts.Views))
	for _, view := range opts.Views {
		g, ok := graphs[view]
		if !ok {
			return nil, false, errs.New(errs.ErrCodeInvalidView, "view %q was not built by the analysis", view)
		}
		data, err := graph.MarshalGraph(g)
		if err != nil {
			return nil, false, fmt.Errorf("serialize %s view for cache key: %w", view, err)
		}
		hashes[view] = cache.Hash(data)
	}

	// Try to get all artifacts from cache
	if !opts.Refresh {
		allCached := true
		artifacts := make(map[string][]byte)

	lookup:
		for _, view := range opts.Views {
			for _, format := range opts.Formats {
				key := r.Keyer.ArtifactKey(hashes[view], opts.ArtifactKeyOpts(view, format))
				data, hit, err := r.Cache.Get(ctx, key)
				if err != nil || !hit {
					allCached = false
					break lookup
				}
				artifacts[ArtifactName(view, format)] = data
			}
		}

		if allCached && len(artifacts) == len(opts.Views)*len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, cacheClassArtifact)
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, cacheClassArtifact)
	}

	// Render all views and formats
	rendered, err := RenderViews(ctx, graphs, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each artifact
	for _, view := range opts.Views {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(hashes[view], opts.ArtifactKeyOpts(view, format))
			data := rendered[ArtifactName(view, format)]
			if r.Cache.Set(ctx, key, data, cache.ArtifactTTL) == nil {
				observability.Cache().OnCacheSet(ctx, cacheClassArtifact, len(data))
			}
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, graphs map[string]*graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, graphs, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
