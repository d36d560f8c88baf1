// Package ports defines the interfaces (ports) that connect the patch
// application layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [DocumentStore]: Loads a target file and persists the patched text
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The patch layer (internal/patch) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with the file
// system and zerolog.
package ports
