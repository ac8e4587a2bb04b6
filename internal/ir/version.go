package ir

// Version constants for the Book encoding and the runtime.
const (
	// BookVersion is the binary Book layout version.
	BookVersion = "1"

	// RuntimeVersion is the HVM runtime version.
	RuntimeVersion = "0.1.0"
)
