package table

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// decodeText normalizes CSV bytes to UTF-8.
//
// Valid UTF-8 passes through with any BOM removed. Anything else is decoded
// as UTF-16 when it starts with a UTF-16 BOM, and as Windows-1252 otherwise
// (the usual encoding of spreadsheet software exporting "CSV" on Windows).
func decodeText(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return bytes.TrimPrefix(data, bomUTF8), nil
	}

	dec := unicode.BOMOverride(charmap.Windows1252.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return out, nil
}
