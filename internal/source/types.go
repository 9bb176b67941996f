package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (stdin, --text, HTTP, tests).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	// FileUTF16 marks content transcoded from UTF-16 to UTF-8.
	FileUTF16
	// FileNormalized marks content rewritten by Unicode normalization.
	FileNormalized
)

// File captures metadata and content for a single input.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// Text returns the content as a string.
func (f *File) Text() string {
	return string(f.Content)
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in runes
}
