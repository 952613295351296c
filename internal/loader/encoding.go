package loader

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the input encoding used when none is configured.
const DefaultEncoding = "utf-8"

// LookupEncoding resolves an encoding label such as "utf-8", "windows-1252"
// or "latin1". Labels follow the WHATWG encoding registry, so "iso-8859-1"
// resolves to windows-1252. An empty label means DefaultEncoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}
