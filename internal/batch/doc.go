// Package batch turns the raw domain list into ledger records.
//
// The list is split into contiguous batches of at most BatchSize lines.
// Batches are processed in parallel by a bounded worker pool; each worker
// validates and hashes the lines of its batch independently. Results are
// collected by batch index and concatenated in index order, so the output
// order is a function of the input order alone.
//
// # Usage
//
//	p := batch.NewProcessor(batch.Options{BatchSize: 50_000, Workers: 4})
//	records, stats := p.Process(lines)
//
// # Failures
//
// Lines that are blank, comments or fail validation are skipped silently.
// A batch that cannot be processed (invalid UTF-8, a panic in a worker) is
// logged and dropped whole; the remaining batches still contribute.
package batch
