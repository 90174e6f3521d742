// Package connectors holds the driven.Tracker implementations. Each
// connector knows how to fetch records, comments and attachment bytes from
// one tracker type:
//
//   - github: GitHub issues through the REST API
//   - recordfile: records exported to local YAML files
//
// Connectors are registered with the TrackerRegistry at startup.
package connectors
