// Package metrics measures solution profiles.
//
// norms.go holds the error norms used to compare a scheme against the
// analytical profile. monitor.go holds per-level observers used while a
// scheme is marched step by step. instrument.go exports run timings and
// counts through Prometheus collectors.
package metrics
