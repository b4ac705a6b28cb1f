package formats

import (
	"bytes"

	"github.com/hsn0918/r3m/pkg/utils"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ExtractPlainText decodes a plain-text file: byte-order marks are
// stripped, UTF-16 input is transcoded, and invalid UTF-8 sequences are
// dropped.
func ExtractPlainText(name string, data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeUTF16(data[2:], false), nil
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeUTF16(data[2:], true), nil
	}
	return utils.SanitizeUTF8(string(data)), nil
}

func decodeUTF16(data []byte, bigEndian bool) string {
	var b bytes.Buffer
	b.Grow(len(data) / 2)
	for i := 0; i+1 < len(data); i += 2 {
		var r rune
		if bigEndian {
			r = rune(data[i])<<8 | rune(data[i+1])
		} else {
			r = rune(data[i+1])<<8 | rune(data[i])
		}
		// Surrogate pairs.
		if r >= 0xD800 && r <= 0xDBFF && i+3 < len(data) {
			var low rune
			if bigEndian {
				low = rune(data[i+2])<<8 | rune(data[i+3])
			} else {
				low = rune(data[i+3])<<8 | rune(data[i+2])
			}
			if low >= 0xDC00 && low <= 0xDFFF {
				r = 0x10000 + (r-0xD800)<<10 + (low - 0xDC00)
				i += 2
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
