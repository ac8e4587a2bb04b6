// Package engine implements the parallel interaction-net evaluator.
//
// The engine takes a compiled ir.Book, instantiates its entry definition
// against a root wire, and rewrites active pairs until none is left.
//
// ARCHITECTURE:
//
// Global Net:
// Two bump-allocated arenas shared by every worker: node slots holding Pairs
// and variable slots holding Ports. Slots are only touched through atomic
// loads, stores and exchanges. Arenas never shrink; a run that needs more
// room than configured fails with CAPACITY_EXHAUSTED.
//
// Workers:
// Each worker owns a redex bag and a reserved window into each arena. A rule
// touches at most the two nodes of its redex plus slots the worker just
// allocated, so workers only meet at variable slots.
//
// Linking:
// Connecting a port to a wire is an atomic exchange on the wire's slot. The
// first side to arrive parks its port there; the second side finds it, owns
// both ends, and keeps linking. Two non-wire ports meeting become a redex.
//
// Scheduling:
// Run starts one goroutine per worker under an errgroup. Busy workers offer
// expanding redexes on a shared channel; idle ones take from it. A global
// pending counter reaches zero exactly when the net is in normal form.
//
// CRITICAL PATTERNS:
//
// Confluence:
// The rewrite system is strongly confluent. The normal form and the
// interaction count do not depend on worker count or scheduling order.
//
// Fail-stop:
// A runtime fault halts every worker. A bump-allocated arena has no rollback,
// so there is no partial result.
package engine
