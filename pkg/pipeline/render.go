package pipeline

import (
	"context"
	"fmt"

	errs "github.com/Hanteus/ProjectArena/pkg/errors"
	"github.com/Hanteus/ProjectArena/pkg/graph"
	"github.com/Hanteus/ProjectArena/pkg/render"
)

// ArtifactName keys a rendered artifact by view and format, e.g.
// "rooms.svg". Result.Artifacts and the CLI's output filenames both use
// this form.
func ArtifactName(view, format string) string {
	return view + "." + format
}

// RenderViews renders every requested view in every requested format.
// The graphs map must contain an entry per view in opts.Views; Execute
// passes Analysis.Graphs.
func RenderViews(ctx context.Context, graphs map[string]*graph.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Views)*len(opts.Formats))
	for _, view := range opts.Views {
		g, ok := graphs[view]
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidView, "view %q was not built by the analysis", view)
		}
		for _, format := range opts.Formats {
			data, err := renderOne(ctx, g, view, format)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", ArtifactName(view, format), err)
			}
			artifacts[ArtifactName(view, format)] = data
		}
	}
	return artifacts, nil
}

func renderOne(ctx context.Context, g *graph.Graph, view, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.MarshalGraph(g)
	case FormatDOT:
		dot, err := render.ToDOT(g, view)
		if err != nil {
			return nil, err
		}
		return []byte(dot), nil
	case FormatSVG:
		dot, err := render.ToDOT(g, view)
		if err != nil {
			return nil, err
		}
		return render.RenderSVG(ctx, dot)
	case FormatPNG:
		dot, err := render.ToDOT(g, view)
		if err != nil {
			return nil, err
		}
		return render.RenderPNG(ctx, dot)
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown output format %q", format)
	}
}
