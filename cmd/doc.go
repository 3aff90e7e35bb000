// The balkit commands.
//
// # Available Commands
//
//   - install: Install Bootstrap, Alpine.js, Livewire, SASS and auth scaffolding
//   - publish: Export the configuration file, templates and example components
//   - doctor: Check an installation, optionally fixing it or watching for changes
//   - version: Show version and build information
//
// # Command Examples
//
//	// Install everything without prompting
//	balkit install --preset=full --no-interaction
//
//	// Install into another directory, keeping the auth views only
//	balkit install --auth --auth-mode=views --path ../shop
//
//	// Export the templates, then customize them before installing
//	balkit publish --stubs
//
//	// Repair an application after running a third-party scaffolder
//	balkit doctor --fix
//
// # Exit Status
//
// install and publish always exit with status 0: an unknown preset, a failed
// subprocess or an unwritable file is reported in the output and the run goes
// on. doctor exits non-zero when issues remain.
package cmd
