// Package translit maps non-ASCII runes to ASCII approximations, used
// as a fallback lookup strategy for filenames whose on-disk spelling
// predates proper Unicode handling.
package translit

import (
	"strings"
	"sync"

	"golang.org/x/text/unicode/runenames"
)

const sharpS = "LATIN SMALL LETTER SHARP S"

var (
	indexOnce sync.Once
	byName    map[string]rune
)

// nameIndex returns a reverse index from Unicode character name to
// rune, built once over the Basic Multilingual Plane. Base characters
// of decomposable letters (the part before " WITH ") all live there.
func nameIndex() map[string]rune {
	indexOnce.Do(func() {
		byName = make(map[string]rune, 1<<16)
		for r := rune(0); r <= 0xFFFF; r++ {
			if r >= 0xD800 && r <= 0xDFFF {
				continue
			}
			name := runenames.Name(r)
			if name == "" || strings.HasPrefix(name, "<") {
				continue
			}
			byName[name] = r
		}
	})
	return byName
}

// Rune returns an ASCII approximation of r. ASCII runes map to
// themselves. A rune named "<BASE> WITH DIAERESIS" whose base is the
// single letter a, o or u (either case) renders the diaeresis as a
// trailing "e", following the German umlaut convention; any other
// "<BASE> WITH <MODIFIER>" name collapses to the base character. Sharp
// s becomes "ss". Everything else is "?". The function is total.
func Rune(r rune) string {
	if r < 128 {
		return string(r)
	}

	name := runenames.Name(r)
	if name == sharpS {
		return "ss"
	}

	base, _, found := strings.Cut(name, " WITH ")
	if !found {
		return "?"
	}
	bc, ok := nameIndex()[base]
	if !ok {
		return "?"
	}
	if strings.HasSuffix(name, " WITH DIAERESIS") {
		switch bc {
		case 'a', 'o', 'u', 'A', 'O', 'U':
			return string(bc) + "e"
		}
	}
	return string(bc)
}

// String transliterates s rune by rune.
func String(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteString(Rune(r))
	}
	return b.String()
}
