package wire

// Version information for the wire module.
const (
	// Version is the current version of the wire module.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "1.0.0"
)
