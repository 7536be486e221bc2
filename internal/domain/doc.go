// Package domain contains the core domain entities and value objects for fqdnledger.
//
// This package represents the innermost layer of the application. It has no
// dependencies on infrastructure concerns (file system, logging, CLI) and
// contains only the ledger's data model and its rules.
//
// # Entities
//
//   - [Record]: one accepted domain with its timestamp and content hash
//   - [Ledger]: the bounded, ordered collection of records
//
// # Hashing
//
// A record's hash is SHA-256 over a canonical JSON encoding of its fqdn,
// timestamp and previous_hash fields, keys sorted. [ComputeHash] is the only
// place that encoding is defined, so recomputing a stored record's hash from
// its three content fields always reproduces it.
package domain
