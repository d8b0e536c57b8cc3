package utils

import (
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func isUTF8(enc encoding.Encoding) bool {
	return enc == nil || enc == unicode.UTF8
}

// DecodeString converts raw stream bytes into a string. A nil enc means UTF-8.
// Unlike zero-terminated game strings, names may contain any byte, so nothing is trimmed.
func DecodeString(enc encoding.Encoding, bs []byte) (string, error) {
	if isUTF8(enc) {
		if !utf8.Valid(bs) {
			return "", errors.Errorf("invalid utf-8 sequence %q", DumpToOneLineString(bs))
		}
		return string(bs), nil
	}

	s, _, err := transform.Bytes(enc.NewDecoder(), bs)
	if err != nil {
		return "", errors.Wrapf(err, "Failed to decode %q", DumpToOneLineString(bs))
	}
	return string(s), nil
}

func EncodeString(enc encoding.Encoding, s string) ([]byte, error) {
	if isUTF8(enc) {
		if !utf8.ValidString(s) {
			return nil, errors.Errorf("invalid utf-8 string %q", s)
		}
		return []byte(s), nil
	}

	bs, _, err := transform.Bytes(enc.NewEncoder(), []byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to encode %q as %v", s, enc)
	}
	return bs, nil
}
