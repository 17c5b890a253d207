// Package benchmark holds performance benchmarks for samus.
//
// Run with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/
//
// Store benchmarks measure the sharded map directly; protocol benchmarks
// drive a real text server over loopback TCP.
package benchmark
