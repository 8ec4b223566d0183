package agent

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// QueryHash derives the cache key fragment for a query. Case folding,
// whitespace splitting and word sorting make the hash insensitive to
// word order, so paraphrases reordering the same terms share a cache
// entry.
func QueryHash(query string) string {
	words := strings.Fields(strings.ToLower(query))
	sort.Strings(words)
	normalized := strings.Join(words, " ")
	sum := sha1.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// normalizeQuery is the comparison form used for duplicate detection in
// the reformulation loop.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
