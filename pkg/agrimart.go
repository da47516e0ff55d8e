// Package agrimart holds build information of the agrimart CLI.
package agrimart

var (
	// Version of agrimart.
	Version = "v0.1.0"

	// Build timestamp, set by the linker.
	Build = "n/a"
)
