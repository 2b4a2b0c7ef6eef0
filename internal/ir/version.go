package ir

// Version constants reported by the CLI.
const (
	// DialectVersion is the style dialect revision the translators target.
	DialectVersion = "8"

	// ToolVersion is the mbstyle release version.
	ToolVersion = "0.1.0"
)
