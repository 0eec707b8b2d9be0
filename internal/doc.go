// Package internal contains the implementation packages of the fpgagen CLI.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - board: Board registry, Engine and the per-board Composer state machine
//   - defaults: Typed board and core defaults with schema validation
//   - static: Static data store over afero (yml, json, toml, bin, raw)
//   - render: Template resolution, context building and rendering
//   - project: Ordered generated file set and directory dump
//   - archive: tar and zip writers with gzip, bzip2, xz, deflate and lzma
//   - workerpool: Bounded fan-out with per-item results
//   - config: Configuration management with validation
//   - errors: Engine error taxonomy and per-file error collection
//   - logging: Structured logging on zap
//   - watcher: Debounced file system monitoring for watch mode
//
// # Generation Flow
//
// A generate call moves through three stages:
//
//   - Setup filters a private working copy of the board defaults
//   - Prepare resolves every template and builds its context, failing fast
//   - Execute renders the prepared jobs concurrently and collects failures
//
// Persistence (dump or archive) only ever reads the finished project.
package internal
