// Package normalize folds text into the canonical search form used everywhere
// two names are compared: Unicode NFD decomposition, combining marks stripped,
// lowercased, surrounding whitespace trimmed. "Svíčková" becomes "svickova".
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripCombining removes Unicode combining marks (category M) from an NFD
// decomposed stream.
type stripCombining struct{ transform.NopResetter }

func (stripCombining) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size == 1 && !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if unicode.Is(unicode.M, r) {
			nSrc += size
			continue
		}
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		copy(dst[nDst:], src[nSrc:nSrc+size])
		nDst += size
		nSrc += size
	}
	return nDst, nSrc, nil
}

var foldChain = transform.Chain(norm.NFD, stripCombining{}, norm.NFC)

// Text returns the normalized form of text. It never fails; if the transform
// chain reports an error the input is folded without diacritic stripping.
func Text(text string) string {
	folded, _, err := transform.String(foldChain, text)
	if err != nil {
		folded = text
	}
	return strings.TrimSpace(strings.ToLower(folded))
}
