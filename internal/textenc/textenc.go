// Package textenc converts between Go strings and the byte encoding the
// editor host is configured with (vim's &encoding and friends).
package textenc

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Default is used when the host does not report an encoding
const Default = "utf-8"

// editor names that the WHATWG index does not know under the same label
var aliases = map[string]string{
	"utf8":    "utf-8",
	"cp932":   "shift_jis",
	"cp936":   "gbk",
	"cp949":   "euc-kr",
	"cp950":   "big5",
	"euc-cn":  "gbk",
	"ucs-2":   "utf-16le",
	"ucs-2le": "utf-16le",
}

// Lookup resolves an encoding by name. An empty name means UTF-8.
func Lookup(name string) (encoding.Encoding, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = Default
	}
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	if name == Default {
		return unicode.UTF8, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Encode converts s into the named encoding
func Encode(name, s string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return []byte(s), nil
	}

	out, _, err := transform.Bytes(enc.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode as %s: %w", name, err)
	}
	return out, nil
}

// Decode converts b from the named encoding. Invalid sequences are replaced,
// never rejected: compiler output must not be lost to one stray byte.
func Decode(name string, b []byte) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return string(out), nil
}
