package ir

// NOTE: These are store-layer types, not part of the program encoding.

// RunRecord is one completed reduction as kept in the run history.
type RunRecord struct {
	ID           string `json:"id"`        // UUIDv7
	Seq          int64  `json:"seq"`       // auto-increment (store order)
	BookHash     string `json:"book_hash"` // BookHash of the program
	Program      string `json:"program"`   // source path as given on the command line
	Mode         string `json:"mode"`      // "interpreted", "native", "accelerated"
	Workers      int    `json:"workers"`
	Result       string `json:"result"` // printed normal form, "" on readback failure
	Interactions uint64 `json:"interactions"`
	ElapsedNanos int64  `json:"elapsed_ns"`
}
