package xtio

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// utf16le is the UTF-16LE encoding; each call builds its own decoder
// from it, since an x/text decoder carries per-use state and is not safe
// to share between concurrent callers.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// UTF16ToUTF8 transcodes a UTF-16LE byte string, as found in Registry hive
// names and NK class-name strings, into UTF-8. Trailing NUL padding (the
// common case for fixed-length hive-name fields) is trimmed from the
// result rather than the input, so an odd-length trailing byte doesn't
// break the decoder.
func UTF16ToUTF8(b []byte) (string, error) {
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\x00"), nil
}
