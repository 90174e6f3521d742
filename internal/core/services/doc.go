// Package services implements the driving port interfaces.
// Services orchestrate trackers, normalisers and renderers through the
// driven ports; adapters are injected by the CLI.
package services
