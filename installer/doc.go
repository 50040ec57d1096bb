// Package installer provides per-tool provisioning routines that make
// third-party build tools available on a machine.
//
// Each routine follows the same shape: probe whether the tool is
// already on the search path, download an archive, extract it into an
// install directory, optionally run a build step, locate the resulting
// executable and register it on the path. That shape is captured by
// [Recipe] and executed by [Install]; the concrete tools (CMake, Maven,
// f90cache) are thin wrappers that describe themselves as recipes.
//
// Routines that don't fit the recipe shape, like pip packages or the
// buildbot agent, are implemented directly on top of the same probing,
// download and subprocess primitives.
//
// All routines are synchronous and single threaded; the probe checks
// are advisory optimizations, not concurrency guards.
package installer
