package source

type (
	// FileID uniquely identifies a source buffer within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source buffer.
	FileFlags uint8
)

const (
	// FileVirtual marks a buffer added from memory (request payload, test, stdin).
	FileVirtual FileFlags = 1 << iota
)

// File captures metadata and content for a single source buffer.
//
// Content holds the exact bytes the host frontend parsed. Spans supplied by an
// expansion request index into it, so the bytes are never normalized or
// re-encoded here.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source buffer.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
