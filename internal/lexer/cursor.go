package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"wstok/internal/source"
)

// Cursor представляет собой позицию во входной строке
type Cursor struct {
	Src  string
	File source.FileID
	Off  int
}

// NewCursor creates a cursor at the start of src.
func NewCursor(src string, file source.FileID) Cursor {
	return Cursor{Src: src, File: file}
}

// EOF проверяет, достигнут ли конец входа
func (c *Cursor) EOF() bool {
	return c.Off >= len(c.Src)
}

// Peek декодирует текущую руну, не сдвигая курсор.
// На EOF возвращает (utf8.RuneError, 0); на некорректном байте (utf8.RuneError, 1).
func (c *Cursor) Peek() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	if b := c.Src[c.Off]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRuneInString(c.Src[c.Off:])
}

// Bump сдвигает курсор на одну руну вперёд и возвращает её
func (c *Cursor) Bump() rune {
	r, size := c.Peek()
	c.Off += size
	return r
}

// Invalid reports whether the cursor sits on a byte that does not start a
// well-formed UTF-8 sequence.
func (c *Cursor) Invalid() bool {
	r, size := c.Peek()
	return r == utf8.RuneError && size == 1
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark int

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = int(m)
}

// Slice возвращает текст от метки до текущей позиции
func (c *Cursor) Slice(m Mark) string {
	return c.Src[int(m):c.Off]
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	start, err := safecast.Conv[uint32](int(m))
	if err != nil {
		panic(fmt.Errorf("span start overflow: %w", err))
	}
	end, err := safecast.Conv[uint32](c.Off)
	if err != nil {
		panic(fmt.Errorf("span end overflow: %w", err))
	}
	return source.Span{File: c.File, Start: start, End: end}
}
