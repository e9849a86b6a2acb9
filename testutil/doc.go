// Package testutil provides testing utilities for the liveness module.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG plus fixture builders for lookup tables and
// tombstone bitmaps.
//
// # Fixture Tables
//
//	rng := testutil.NewRNG(seed)
//	entries := rng.RandomEntries(1000, 50)
//	data := testutil.BuildLookup(entries, 64)
//
// # Fixture Bitmaps
//
//	spm := testutil.TombstoneBytes(5, 13, 40)
package testutil
