package ingest

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText decodes raw CSV bytes by trying each candidate encoding
// in priority order: UTF-8 (BOM tolerated), Shift_JIS for legacy
// exports, then ISO-8859-1 as last resort. The first candidate that
// decodes the whole file cleanly wins.
func decodeText(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	if utf8.Valid(content) {
		return string(content), nil
	}

	if decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), content); err == nil {
		// the decoder substitutes U+FFFD instead of failing, so a
		// replacement rune means the candidate did not fit
		if !bytes.ContainsRune(decoded, utf8.RuneError) {
			return string(decoded), nil
		}
	}

	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), content)
	if err != nil {
		return "", errors.New("no candidate encoding decodes the file")
	}
	return string(decoded), nil
}
