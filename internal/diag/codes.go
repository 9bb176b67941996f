package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo        Code = 1000
	LexInvalidUTF8 Code = 1001

	// Ввод/вывод
	IOLoadFileError Code = 3001
	IODecodeError   Code = 3002

	// Кэш
	CacheError Code = 4001

	// Наблюдаемость
	ObsTimings Code = 5001
)

var codeTitles = map[Code]string{
	UnknownCode:     "Unknown error",
	LexInfo:         "Lexical information",
	LexInvalidUTF8:  "Input is not well-formed UTF-8",
	IOLoadFileError: "Cannot load file",
	IODecodeError:   "Cannot decode input",
	CacheError:      "Token cache failure",
	ObsTimings:      "Phase timings",
}

// ID returns the stable textual form, e.g. LEX1001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CCH%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string {
	return c.ID()
}
