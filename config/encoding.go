package config

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const EncodingUTF8 = "UTF-8"

// LookupEncoding resolves the encoding used for names inside animation streams.
// Accepts "UTF-8" or any charmap name known to golang.org/x/text (e.g. "Windows 1252").
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" || strings.EqualFold(name, EncodingUTF8) || strings.EqualFold(name, "utf8") {
		return unicode.UTF8, nil
	}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok && cm.String() == name {
			return cm, nil
		}
	}
	return nil, errors.Errorf("Failed to find encoding %q", name)
}

func ListEncodings() []string {
	list := []string{EncodingUTF8}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}
