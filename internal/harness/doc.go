// Package harness runs conformance scenarios against the reduction engine.
//
// A scenario is a YAML file naming a program (inline or by path), the
// worker counts to reduce it with, and the expected outcome: either the
// printed normal form with an optional exact interaction count, or the
// error code the program must fail with.
//
// Every worker count reduces the program from scratch. Besides matching the
// expectation, all successful runs must agree with each other on both the
// result and the interaction count, since reduction is confluent and the
// rewrite count does not depend on scheduling.
//
// Results are plain data and serialise deterministically, so they can be
// compared against golden files with RunWithGolden.
package harness
