// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Tracker: Fetches records, comments and attachment bytes
//   - Renderer: Merges a substitution dictionary into an output document
//   - ConfigStore: Application configuration
//   - TokenProvider: Credentials for authenticated tracker calls
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ResourceCache: Caches fetched images between runs. Without it every
//     image is downloaded on every export.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
