package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Hanteus/ProjectArena/pkg/archive"
	"github.com/Hanteus/ProjectArena/pkg/buildinfo"
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
	"github.com/Hanteus/ProjectArena/pkg/graph"
	"github.com/Hanteus/ProjectArena/pkg/graph/metrics"
	"github.com/Hanteus/ProjectArena/pkg/pipeline"
)

// defaultRunsLimit bounds GET /v1/runs when no limit is given.
const defaultRunsLimit = 50

// populateResponse is the body of a successful populate call: the run
// document as archived, plus the populated grid text.
type populateResponse struct {
	Run  *archive.Run `json:"run"`
	Grid string       `json:"grid"`
}

// analyzeResponse carries the graph views in snapshot form together
// with the rooms-graph metrics.
type analyzeResponse struct {
	MapName   string                    `json:"map_name"`
	GridHash  string                    `json:"grid_hash"`
	RoomCount int                       `json:"room_count"`
	Diameter  float64                   `json:"diameter"`
	Degrees   []metrics.NodeValue       `json:"degrees"`
	Views     map[string]graph.Snapshot `json:"views"`
}

type runsResponse struct {
	Runs []*archive.Run `json:"runs"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handlePopulate(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	opts.Populate = true

	// Validate here rather than inside Execute so the resolved recipe
	// is available for the archive record.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	run := archive.NewRun(result.Level.Name, result.GridHash, *opts.Recipe,
		result.Placements, recordStats(result.Stats), s.ttl)
	if s.store != nil {
		if err := s.store.Put(r.Context(), run); err != nil {
			writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "archive run %s", run.ID))
			return
		}
	}

	writeJSON(w, http.StatusOK, populateResponse{
		Run:  run,
		Grid: result.Level.Grid.String(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	opts.Populate = false

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	views := make(map[string]graph.Snapshot, len(result.Analysis.Graphs))
	for name, g := range result.Analysis.Graphs {
		views[name] = graph.FromGraph(g)
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		MapName:   result.Level.Name,
		GridHash:  result.GridHash,
		RoomCount: result.Stats.RoomCount,
		Diameter:  result.Analysis.Diameter,
		Degrees:   result.Analysis.Degrees,
		Views:     views,
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			writeError(w, errs.New(errs.ErrCodeInvalidInput, "limit %q must be a positive integer", q))
			return
		}
		limit = n
	}

	runs := []*archive.Run{}
	if s.store != nil {
		var err error
		runs, err = s.store.List(r.Context(), limit)
		if err != nil {
			writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "list runs"))
			return
		}
	}
	writeJSON(w, http.StatusOK, runsResponse{Runs: runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var run *archive.Run
	if s.store != nil {
		var err error
		run, err = s.store.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	if run == nil {
		writeError(w, errs.New(errs.ErrCodeRunNotFound, "run %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

// decodeOptions reads pipeline options from the request body and
// applies server policy: the input directory is fixed by configuration,
// rendered artifact formats are a CLI surface, and pipeline logs ride
// the server logger.
func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	var opts pipeline.Options
	if err := decodeJSON(w, r, &opts); err != nil {
		writeError(w, err)
		return opts, false
	}
	if opts.InputDir != "" {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "input_dir is resolved by the server"))
		return opts, false
	}
	opts.InputDir = s.inputDir
	opts.Formats = nil
	opts.Logger = s.logger
	return opts, true
}

func recordStats(s pipeline.Stats) archive.Stats {
	return archive.Stats{
		Rooms:        s.RoomCount,
		Placements:   s.PlacementCount,
		LoadTime:     s.LoadTime,
		AnalyzeTime:  s.AnalyzeTime,
		PopulateTime: s.PopulateTime,
	}
}
