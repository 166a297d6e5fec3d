// Package textio reads candidate lists, tolerating the Unicode BOMs that
// editor-exported file lists on Windows tend to carry.
package textio

import (
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

type byteOrderMark int

const (
	bomNone byteOrderMark = iota
	bomUTF8
	bomUTF16LE
	bomUTF16BE
)

func detectBOM(content []byte) byteOrderMark {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return bomUTF8
	}
	if len(content) >= 2 {
		switch {
		case content[0] == 0xFF && content[1] == 0xFE:
			return bomUTF16LE
		case content[0] == 0xFE && content[1] == 0xFF:
			return bomUTF16BE
		}
	}
	return bomNone
}

// Normalize converts BOM-marked content to plain UTF-8, passing everything
// else through untouched so byte-mode matching still sees raw bytes.
func Normalize(content []byte) string {
	switch detectBOM(content) {
	case bomUTF8:
		return string(content[3:])
	case bomUTF16LE:
		return decodeUTF16(content, unicode.LittleEndian)
	case bomUTF16BE:
		return decodeUTF16(content, unicode.BigEndian)
	default:
		return string(content)
	}
}

func decodeUTF16(content []byte, endian unicode.Endianness) string {
	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	decoded, err := decoder.Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(decoded)
}

// ReadLines reads all of r and splits it into candidate lines, one per
// line, stripping a trailing CR from each and dropping a trailing empty
// line.
func ReadLines(r io.Reader) ([]string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := Normalize(content)
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}
