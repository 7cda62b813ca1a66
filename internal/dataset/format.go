package dataset

import (
	"fmt"
	"strings"
)

// Format describes the on-disk line layout.
type Format struct {
	// Delimiter separates fields. Zero means detect on load and write commas.
	Delimiter rune
}

var (
	// FormatComma is the default comma-separated layout.
	FormatComma = Format{Delimiter: ','}
	// FormatSemicolon is the semicolon-separated layout.
	FormatSemicolon = Format{Delimiter: ';'}
	// FormatAuto detects the delimiter from the file content.
	FormatAuto = Format{}
)

// ParseDelimiter maps a config value to a Format.
func ParseDelimiter(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ",", "comma":
		return FormatComma, nil
	case ";", "semicolon":
		return FormatSemicolon, nil
	case "auto":
		return FormatAuto, nil
	default:
		return Format{}, fmt.Errorf("unsupported delimiter %q", s)
	}
}

// DetectFormat inspects the first non-blank line. A comma wins when both appear.
func DetectFormat(content string) Format {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.Contains(line, ",") && strings.Contains(line, ";") {
			return FormatSemicolon
		}
		return FormatComma
	}
	return FormatComma
}

func (f Format) resolved() rune {
	if f.Delimiter == 0 {
		return ','
	}
	return f.Delimiter
}

func (f Format) String() string {
	switch f.Delimiter {
	case 0:
		return "auto"
	case ';':
		return ";"
	default:
		return string(f.Delimiter)
	}
}
