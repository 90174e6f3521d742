// Package driving declares what the docket CLI asks of the core: exporting
// tracker records into a template binding and rendering it, and reading or
// changing user settings. internal/core/services implements both.
package driving
