// Package render turns level graphs into Graphviz artifacts.
//
// # Overview
//
// Every graph view renders through the same two steps:
//
//   - [ToDOT] emits DOT with every node pinned to its map position
//     (rectangle centers for rooms, tile coordinates for everything else)
//   - [RenderSVG] and [RenderPNG] rasterize the DOT with the neato
//     engine, which honors the position pins
//
// # Views
//
// The five views are styled after the analyzer's classic plots: room
// and outline nodes are red squares, placed objects are blue and
// labeled with their grid symbol, and the visibility view colors each
// tile by blending blue (least visible) toward red (most visible) with
// [BlendColor].
//
//	dot, err := render.ToDOT(g, graph.ViewVisibility)
//	svg, err := render.RenderSVG(ctx, dot)
package render
