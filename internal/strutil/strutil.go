// Package strutil decodes candidate bytes into code points and classifies
// them. Matching never fails on malformed input: in UTF-8 mode every bad
// byte is substituted with a sentinel code point so it can still be compared
// and highlighted byte-accurately.
package strutil

import "unicode"

// ReplacementBase is added to each malformed byte in UTF-8 mode. The
// resulting code points live in the low-surrogate range, which well-formed
// UTF-8 can never produce, so substituted bytes never collide with real
// input.
const ReplacementBase rune = 0xDC00

// Handler decodes and classifies code points for one string mode. It holds
// no mutable state after construction and is safe to share across
// goroutines.
type Handler struct {
	unicode bool
}

// NewHandler returns a handler for byte mode, or for UTF-8 mode when
// unicodeMode is true.
func NewHandler(unicodeMode bool) Handler {
	return Handler{unicode: unicodeMode}
}

// Unicode reports whether the handler decodes UTF-8.
func (h Handler) Unicode() bool { return h.unicode }

// Decode appends the code points of s to points and returns the result.
// When positions is non-nil, the byte offset of each code point's first
// byte is appended to *positions, followed by len(s) as an end sentinel so
// callers can recover the byte span of any code point.
//
// In byte mode each byte becomes one code point. In UTF-8 mode malformed
// bytes decode to ReplacementBase+b and decoding resynchronises one byte at
// a time.
func (h Handler) Decode(s string, points []rune, positions *[]int) []rune {
	if !h.unicode {
		for i := 0; i < len(s); i++ {
			points = append(points, rune(s[i]))
			if positions != nil {
				*positions = append(*positions, i)
			}
		}
		if positions != nil {
			*positions = append(*positions, len(s))
		}
		return points
	}

	for i := 0; i < len(s); {
		r, size := decodeUTF8(s[i:])
		points = append(points, r)
		if positions != nil {
			*positions = append(*positions, i)
		}
		i += size
	}
	if positions != nil {
		*positions = append(*positions, len(s))
	}
	return points
}

// decodeUTF8 decodes the first code point of s, which must be non-empty.
// Invalid leading bytes, truncated sequences, overlong encodings and code
// points above U+10FFFF all yield (ReplacementBase+s[0], 1).
func decodeUTF8(s string) (rune, int) {
	b0 := s[0]
	bad := ReplacementBase + rune(b0)

	var size int
	var r rune
	switch {
	case b0 == 0x00:
		// NUL terminates strings in too many downstream consumers to be
		// worth passing through.
		return bad, 1
	case b0 < 0x80:
		return rune(b0), 1
	case b0 < 0xC2:
		// Continuation byte or overlong 2-byte leader.
		return bad, 1
	case b0 < 0xE0:
		size = 2
		r = rune(b0 & 0x1F)
	case b0 < 0xF0:
		size = 3
		r = rune(b0 & 0x0F)
	case b0 < 0xF5:
		size = 4
		r = rune(b0 & 0x07)
	default:
		// F5..FF would encode above U+10FFFF.
		return bad, 1
	}

	if len(s) < size {
		return bad, 1
	}
	for i := 1; i < size; i++ {
		b := s[i]
		if b&0xC0 != 0x80 {
			return bad, 1
		}
		r = r<<6 | rune(b&0x3F)
	}
	switch {
	case size == 3 && b0 == 0xE0 && s[1] < 0xA0:
		return bad, 1 // overlong 3-byte encoding
	case size == 4 && b0 == 0xF0 && s[1] < 0x90:
		return bad, 1 // overlong 4-byte encoding
	case size == 4 && b0 == 0xF4 && s[1] >= 0x90:
		return bad, 1 // above U+10FFFF
	}
	return r, size
}

// IsUpper reports whether c is an uppercase letter.
func (h Handler) IsUpper(c rune) bool {
	if !h.unicode {
		return c >= 'A' && c <= 'Z'
	}
	return unicode.IsUpper(c)
}

// IsAlnum reports whether c is a letter or a digit.
func (h Handler) IsAlnum(c rune) bool {
	if !h.unicode {
		return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
	}
	return unicode.IsLetter(c) || unicode.IsDigit(c)
}

// ToLower returns the lowercase form of c. c must satisfy IsUpper.
func (h Handler) ToLower(c rune) rune {
	if !h.unicode {
		return c + ('a' - 'A')
	}
	return unicode.ToLower(c)
}

// IsLower reports whether c is a lowercase letter.
func (h Handler) IsLower(c rune) bool {
	if !h.unicode {
		return c >= 'a' && c <= 'z'
	}
	return unicode.IsLower(c)
}
