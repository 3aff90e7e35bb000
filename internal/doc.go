// Package internal contains the implementation packages of the balkit CLI.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - installer: The install workflow, its phases and the verify checks
//   - features: Components, feature sets and preset resolution
//   - stubs: The embedded template tree and the copier writing it to a host
//   - toolchain: Marker tables telling BAL Kit files from Tailwind ones
//   - manifest: Order-preserving package.json and composer.json editing
//   - runner: Package-manager and framework subprocesses
//   - framework: Named `php artisan` operations
//   - publish: Publish tags exporting resources into a host
//   - prompt: Interactive confirmation
//   - console: Styled user-facing output
//   - config: Configuration management with validation
//   - errors: Typed errors and the collector of downgraded failures
//   - logging: Structured logging
//   - watcher: File system monitoring with debouncing for doctor --watch
//   - version: Version and build information
//
// # Design Principles
//
// Host applications are reached only through an afero.Fs rooted at the
// application directory and a runner.Runner, so every workflow runs against
// in-memory trees and recorded commands in tests. No failure of a single step
// aborts an install; the collector keeps what went wrong.
package internal
