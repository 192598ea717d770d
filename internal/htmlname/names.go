// Package htmlname provides canonical lower-case element names and a
// stable small-integer id per recognized HTML element, as described by
// the "Element-name index" entry of the sanitizer's data model. It is a
// thin layer over golang.org/x/net/html/atom, which already maintains
// exactly this table for the standard HTML element set; unrecognized
// names collapse to a single shared "custom element" id but still
// round-trip through their original canonical text form.
package htmlname

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// ID is a stable small integer identifying a recognized HTML element.
// The zero value, Custom, is shared by every name atom.Lookup does not
// recognize (custom elements, foreign or made-up tag names).
type ID uint32

// Custom is the id shared by every unrecognized element name.
const Custom ID = 0

// Canonicalize lower-cases and trims name the way every layer of the
// pipeline expects element and attribute names to already be by the time
// they reach a Sink.
func Canonicalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup returns the id for the canonical form of name. Callers that
// already hold a canonical name may call LookupCanonical to skip the
// re-normalization.
func Lookup(name string) ID {
	return LookupCanonical(Canonicalize(name))
}

// LookupCanonical returns the id for an already lower-cased, trimmed name.
func LookupCanonical(canonical string) ID {
	return ID(atom.Lookup([]byte(canonical)))
}

// IsKnown reports whether id identifies a recognized HTML element rather
// than the shared Custom bucket.
func IsKnown(id ID) bool {
	return id != Custom
}

// Name returns the canonical text form of id, falling back to fallback
// for the Custom id (since many distinct names share it).
func Name(id ID, fallback string) string {
	if id == Custom {
		return fallback
	}
	return atom.Atom(id).String()
}

// ValidName reports whether name is an acceptable element or attribute
// name to emit: ASCII letters/digits, optional single ':' namespace
// separator, '-' allowed internally, non-empty, length bounded. This is
// the renderer's defensive validation from §4.4 ("validate element
// name... on failure, report via a side channel and drop"), factored out
// here so both the renderer and the policy engine can reuse it.
func ValidName(name string) bool {
	if len(name) == 0 || len(name) > 128 {
		return false
	}
	colons := 0
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-':
			if i == 0 || i == len(name)-1 {
				return false
			}
		case c == '_':
		case c == ':':
			colons++
			if colons > 1 || i == 0 || i == len(name)-1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
