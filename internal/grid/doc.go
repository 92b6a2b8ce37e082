// Package grid describes the 1-D wall problem and its uniform discretization.
//
// A [Params] value holds the physical inputs (boundary and initial temperatures,
// the slab extent, diffusivity, end time) together with the space and time
// steps. Every derived quantity used by the integrators comes from here:
//
//   - [Params.Steps]: number of time levels, floor(TEnd/Dt)
//   - [Params.Intervals]: number of spatial intervals s; the grid has s+1 nodes
//   - [Params.R]: the diffusion number D·Dt/Dx²
//
// Params is a plain value. Schemes copy it on construction and never mutate it.
package grid
