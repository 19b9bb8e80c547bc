package statement

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	errors "github.com/frahmantamala/household-finance/internal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	xunicode "golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode turns uploaded bytes into text. Byte-order marks win, then plain
// UTF-8 when it looks like real text, then EUC-KR, which Korean banks still
// export by default. The fallback always yields a string; garbled output is
// possible and accepted.
func Decode(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(xunicode.UTF16(xunicode.LittleEndian, xunicode.ExpectBOM), data, "UTF-16LE")
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(xunicode.UTF16(xunicode.BigEndian, xunicode.ExpectBOM), data, "UTF-16BE")
	}

	if utf8.Valid(data) && !bytes.ContainsRune(data, utf8.RuneError) && hasScriptChar(data) {
		return string(data), nil
	}

	return decodeWith(korean.EUCKR, data, "EUC-KR")
}

func decodeWith(enc encoding.Encoding, data []byte, name string) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.NewEncodingError("could not decode file as "+name, err)
	}
	return string(out), nil
}

// hasScriptChar reports whether data holds at least one Hangul syllable or
// ASCII letter or digit.
func hasScriptChar(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r < utf8.RuneSelf {
			if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
				return true
			}
			continue
		}
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}
