// Package resolve maps user-supplied partial identifiers to full issue ids
// and generates new ids.
package resolve

import (
	"crypto/rand"
	"sort"
	"strings"

	"github.com/quillhq/quill/internal/types"
)

// suffixAlphabet is the character set for generated id suffixes.
const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// suffixLength is the number of random characters after the prefix.
const suffixLength = 6

// Resolve maps a partial identifier to exactly one full id. Matching tiers,
// evaluated in order, first success wins:
//
//  1. exact match (case-insensitive) against full ids: always wins, even if
//     the same string is also an ambiguous prefix of other ids
//  2. unique case-insensitive prefix match
//  3. unique case-insensitive suffix match on the portion after the dash
//
// A tier with more than one candidate returns AmbiguousError listing them;
// no candidate at any tier returns NotFoundError.
func Resolve(partial string, snapshot types.Snapshot) (string, error) {
	needle := strings.ToLower(partial)
	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if strings.ToLower(id) == needle {
			return id, nil
		}
	}

	var prefixMatches []string
	for _, id := range ids {
		if strings.HasPrefix(strings.ToLower(id), needle) {
			prefixMatches = append(prefixMatches, id)
		}
	}
	switch len(prefixMatches) {
	case 1:
		return prefixMatches[0], nil
	default:
		if len(prefixMatches) > 1 {
			return "", &types.AmbiguousError{Ref: partial, Candidates: prefixMatches}
		}
	}

	var suffixMatches []string
	for _, id := range ids {
		if idx := strings.Index(id, "-"); idx >= 0 {
			if strings.HasPrefix(strings.ToLower(id[idx+1:]), needle) {
				suffixMatches = append(suffixMatches, id)
			}
		}
	}
	switch len(suffixMatches) {
	case 1:
		return suffixMatches[0], nil
	default:
		if len(suffixMatches) > 1 {
			return "", &types.AmbiguousError{Ref: partial, Candidates: suffixMatches}
		}
	}

	return "", &types.NotFoundError{Ref: partial}
}

// GenerateID concatenates the project prefix with a random 6-character
// lowercase-alphanumeric suffix, e.g. "QUIL-x4k9az".
//
// There is no collision check against existing ids. The suffix space is
// 36^6 (~2.2 billion), so collisions are unlikely at tracker scale, but
// this is an accepted risk rather than a guarantee.
func GenerateID(prefix string) string {
	buf := make([]byte, suffixLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform entropy source is broken;
		// nothing sensible to fall back to.
		panic(err)
	}
	suffix := make([]byte, suffixLength)
	for i, b := range buf {
		suffix[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return prefix + "-" + string(suffix)
}
