// Package stress drives a tsmap table with concurrent random operations
// and checks that it stays consistent.
//
// A run fans out a fixed number of workers with errgroup. Each worker
// issues its share of get/put/delete calls over a bounded key space,
// optionally throttled by a token bucket, and stops early when the
// context is cancelled. After all workers join, the table is verified
// and the operation counter is reconciled with the number of calls
// actually issued.
package stress
