// Package store provides SQLite-backed run history.
//
// Each completed reduction is appended to the runs table with the book's
// fingerprint, the printed result, the interaction count and the elapsed
// time. Rows are never updated; the autoincrement seq column gives the
// append order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - A single open connection, since SQLite allows one writer
package store
