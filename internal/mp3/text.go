package mp3

import (
	"bytes"
	"strings"
	"unicode/utf16"
)

// ID3v2 text encodings
const (
	encodingLatin1  = 0
	encodingUTF16   = 1 // with BOM
	encodingUTF16BE = 2 // ID3v2.4 only
	encodingUTF8    = 3 // ID3v2.4 only
)

// decodeText decodes text based on ID3v2 encoding byte. Trailing
// terminators are dropped.
func decodeText(data []byte, encoding byte) string {
	if len(data) == 0 {
		return ""
	}

	var s string
	switch encoding {
	case encodingLatin1:
		runes := make([]rune, len(data))
		for i, b := range data {
			runes[i] = rune(b)
		}
		s = string(runes)
	case encodingUTF16:
		s = decodeUTF16(data)
	case encodingUTF16BE:
		s = decodeUTF16BE(data)
	default:
		// UTF-8, and unknown encodings taken as-is
		s = string(data)
	}
	return strings.TrimRight(s, "\x00")
}

// decodeUTF16 decodes UTF-16 with BOM
func decodeUTF16(data []byte) string {
	if len(data) < 2 {
		return ""
	}

	if data[0] == 0xFF && data[1] == 0xFE {
		return decodeUTF16LE(data[2:])
	} else if data[0] == 0xFE && data[1] == 0xFF {
		return decodeUTF16BE(data[2:])
	}

	// No BOM - assume big-endian
	return decodeUTF16BE(data)
}

func decodeUTF16LE(data []byte) string {
	u16 := make([]uint16, len(data)/2)
	for i := range u16 {
		u16[i] = uint16(data[i*2]) | uint16(data[i*2+1])<<8
	}
	return string(utf16.Decode(u16))
}

func decodeUTF16BE(data []byte) string {
	u16 := make([]uint16, len(data)/2)
	for i := range u16 {
		u16[i] = uint16(data[i*2])<<8 | uint16(data[i*2+1])
	}
	return string(utf16.Decode(u16))
}

// findNullTerminator finds the null terminator based on encoding
func findNullTerminator(data []byte, encoding byte) int {
	switch encoding {
	case encodingUTF16, encodingUTF16BE:
		for i := 0; i+1 < len(data); i += 2 {
			if data[i] == 0 && data[i+1] == 0 {
				return i
			}
		}
		return -1
	default:
		return bytes.IndexByte(data, 0)
	}
}

// terminatorSize returns the size of the null terminator for the encoding
func terminatorSize(encoding byte) int {
	if encoding == encodingUTF16 || encoding == encodingUTF16BE {
		return 2
	}
	return 1
}

// encodeText picks the narrowest encoding the tag version allows and
// returns the encoding byte with the encoded strings, each terminated
// except the last.
func encodeText(version byte, parts ...string) []byte {
	encoding := byte(encodingLatin1)
	for _, p := range parts {
		if !isLatin1(p) {
			encoding = encodingUTF16
			if version == 4 {
				encoding = encodingUTF8
			}
			break
		}
	}

	buf := []byte{encoding}
	for i, p := range parts {
		if i > 0 {
			buf = append(buf, make([]byte, terminatorSize(encoding))...)
		}
		switch encoding {
		case encodingLatin1:
			for _, r := range p {
				buf = append(buf, byte(r))
			}
		case encodingUTF8:
			buf = append(buf, p...)
		default:
			buf = append(buf, 0xFF, 0xFE)
			for _, u := range utf16.Encode([]rune(p)) {
				buf = append(buf, byte(u), byte(u>>8))
			}
		}
	}
	return buf
}

func isLatin1(s string) bool {
	for _, r := range s {
		if r > 0xFF {
			return false
		}
	}
	return true
}
