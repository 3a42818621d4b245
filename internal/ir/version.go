package ir

// Version constants.
const (
	// FingerprintVersion is bumped whenever the fingerprint input changes.
	FingerprintVersion = "1"

	// EngineVersion is the soqlgen engine version.
	EngineVersion = "0.1.0"
)
