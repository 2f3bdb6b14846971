package vsdx

import "errors"

// Fatal error categories for an extraction call. Per-entry parse and persist
// problems are not errors at this level; they land in Result.Diagnostics instead.
var (
	// ErrArchiveOpen means the input is not a readable ZIP archive. Corrupt files
	// and encrypted archives are indistinguishable here and report identically;
	// neither is ever conflated with a valid archive that happens to hold no pages.
	ErrArchiveOpen = errors.New("unreadable archive")

	// ErrOutputDir means the output directory could not be created or became
	// unwritable mid-run (repeated consecutive persist failures escalate to this).
	ErrOutputDir = errors.New("output directory unavailable")
)
