// Package pkg provides the libraries behind keycapgen.
//
// # Overview
//
// keycapgen turns one parametric master template into a family of copies,
// one per (row, width) variant, and lays the copies out on a grid. The pkg
// directory is organized as:
//
//  1. [units], [profile] - parameter values and per-row keycap attributes
//  2. [template], [param] - the host contract and parameter resolution
//  3. [template/memory] - an in-process host used by the CLI and tests
//  4. [layout], [naming] - grid packing and copy names
//  5. [pipeline] - the generation run (lookup, apply, recompute, copy, place)
//  6. [config], [report] - TOML job files and JSON run reports
//  7. [observability], [errors], [buildinfo] - events, error codes, versions
//
// # Data Flow
//
//	job.toml
//	   ↓
//	[config] (variants, row overrides, template parameters)
//	   ↓
//	[pipeline] ──→ [template.Registry] (set parameters, recompute, copy)
//	   ↓
//	[layout] (place copies row by row)
//	   ↓
//	[report] (JSON) or CLI table
package pkg
