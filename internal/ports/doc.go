// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// Ports are the boundaries between the application core and the outside
// world. They define what the pipeline needs from storage and logging
// without specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [LineSource]: Reads the raw domain list
//   - [LedgerRepository]: Loads and saves the whole ledger
//   - [RunGate]: Decides whether a pass may run and records completed passes
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations (file system, zerolog).
package ports
