package source

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"
)

// LoadOptions controls how Load and LoadReader prepare content.
type LoadOptions struct {
	Normalize Normalization
}

// FileSet manages a collection of inputs and resolves byte offsets to positions.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string            // базовая директория для относительных путей
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		files:   make([]File, 0),
		index:   make(map[string]FileID),
		baseDir: baseDir,
	}
}

// BaseDir возвращает базовую директорию (или текущую рабочую).
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Len returns the number of files added so far.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Add stores already decoded content, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	normalizedPath := normalizePath(path)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	// Всегда обновляем индекс на последнюю версию файла
	fileSet.index[normalizedPath] = id
	return id
}

// AddVirtual adds in-memory content with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// AddText adds an already decoded string as a virtual file.
// Only the requested normalization is applied: a leading U+FEFF stays a rune of the text.
func (fileSet *FileSet) AddText(name, text string, opts LoadOptions) FileID {
	content := []byte(text)
	flags := FileVirtual
	if out, changed := opts.Normalize.Apply(content); changed {
		content = out
		flags |= FileNormalized
	}
	return fileSet.Add(name, content, flags)
}

// Load reads a file from disk, decodes and normalizes it, and calls Add.
func (fileSet *FileSet) Load(path string, opts LoadOptions) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.addRaw(path, raw, 0, opts)
}

// LoadReader reads everything from r and adds it as a virtual file.
func (fileSet *FileSet) LoadReader(name string, r io.Reader, opts LoadOptions) (FileID, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", name, err)
	}
	return fileSet.addRaw(name, raw, FileVirtual, opts)
}

func (fileSet *FileSet) addRaw(path string, raw []byte, flags FileFlags, opts LoadOptions) (FileID, error) {
	content, decodeFlags, err := Decode(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	flags |= decodeFlags
	if out, changed := opts.Normalize.Apply(content); changed {
		content = out
		flags |= FileNormalized
	}
	return fileSet.Add(path, content, flags), nil
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// GetByPath возвращает *File по пути, если был загружен в этот FileSet.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{Line: 1, Col: 1}, LineCol{Line: 1, Col: 1}
	}
	return f.Position(span.Start), f.Position(span.End)
}

// Position converts a byte offset into a 1-based line and rune column.
func (f *File) Position(off uint32) LineCol {
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if off > lenContent {
		off = lenContent
	}
	// количество '\n' строго до off
	n := sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] >= off })
	var lineStart uint32
	if n > 0 {
		lineStart = f.LineIdx[n-1] + 1
	}
	col := utf8.RuneCount(f.Content[lineStart:off])
	return LineCol{Line: uint32(n + 1), Col: uint32(col + 1)}
}

// GetLine возвращает строку с заданным номером (1-based) без '\n'.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || int(lineNum) > len(f.LineIdx)+1 {
		return ""
	}
	var start uint32
	if lineNum > 1 {
		start = f.LineIdx[lineNum-2] + 1
	}
	end := len(f.Content)
	if int(lineNum) <= len(f.LineIdx) {
		end = int(f.LineIdx[lineNum-1])
	}
	return string(f.Content[start:end])
}

// RelPath returns the path relative to base when possible.
func (f *File) RelPath(base string) string {
	if base == "" || f.Flags&FileVirtual != 0 {
		return f.Path
	}
	if rel, err := filepath.Rel(base, f.Path); err == nil {
		return filepath.ToSlash(rel)
	}
	return f.Path
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 16)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
