package vsdx

// Part is one classified artifact extracted from the archive.
type Part struct {
	// Kind is the artifact classification (page, master, ...).
	Kind Kind `json:"kind"`
	// SourcePath is the entry path as stored in the archive.
	SourcePath string `json:"source_path"`
	// Name is the display name: an explicit name recovered from the XML when
	// present, else "Page N"/"Master N" from the ordinal within the kind.
	Name string `json:"name"`
	// Elements is the number of descendant elements under the root, from a full
	// tree walk. A bare root (empty page) counts 0, which is valid and distinct
	// from a parse failure.
	Elements int `json:"elements"`
	// OutputPath is where the raw part bytes were persisted, empty if persisting failed.
	OutputPath string `json:"output_path"`
	// Bytes is the raw length of the part as stored in the archive.
	Bytes int `json:"bytes"`
}

// Diagnostic records a non-fatal per-entry problem. A malformed or unwritable
// part never aborts extraction of the remaining parts; it is dropped and noted here.
type Diagnostic struct {
	SourcePath string `json:"source_path"`
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
}

// Result is the aggregate outcome of one extraction call. It owns no live handle
// to the archive or the filesystem — only path strings.
type Result struct {
	// Success is true iff the archive opened and enumeration completed. An archive
	// with zero classified parts is a valid, successful, empty extraction.
	Success bool `json:"success"`
	// Pages and Masters are ordered by archive enumeration, which is not
	// guaranteed to be numeric page order.
	Pages   []Part `json:"pages"`
	Masters []Part `json:"masters"`
	// AppProperties and Document are the zero-or-one metadata parts.
	AppProperties *Part `json:"app_properties,omitempty"`
	Document      *Part `json:"document,omitempty"`
	// Diagnostics lists non-fatal per-entry failures; may be non-empty on success.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	OutputDir   string       `json:"output_dir"`
	// Error is the human-readable fatal error, present iff Success is false.
	Error string `json:"error,omitempty"`
	// Err is the fatal error category (ErrArchiveOpen, ErrOutputDir) for callers
	// that branch on it; nil when Success is true.
	Err error `json:"-"`
}
