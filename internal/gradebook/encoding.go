package gradebook

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectAndDecode sniffs the encoding of an uploaded gradebook file, strips
// any BOM, and returns UTF-8 bytes plus the detected encoding name. Moodle
// and Excel exports arrive as UTF-8 (with or without BOM), UTF-16, or
// Latin-1; anything that is not valid UTF-8 falls back to Latin-1, which
// cannot fail.
func DetectAndDecode(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return data, "utf-8", nil
	}
	if bytes.HasPrefix(data, bomUTF8) {
		return data[3:], "utf-8-bom", nil
	}
	if bytes.HasPrefix(data, bomUTF16LE) {
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data, "utf-16le")
	}
	if bytes.HasPrefix(data, bomUTF16BE) {
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data, "utf-16be")
	}
	if utf8.Valid(data) {
		return data, "utf-8", nil
	}
	return decodeWith(charmap.ISO8859_1, data, "latin-1")
}

func decodeWith(enc encoding.Encoding, data []byte, name string) ([]byte, string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, "", fmt.Errorf("%s decode failed: %w", name, err)
	}
	return out, name, nil
}
