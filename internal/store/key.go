// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/pdiddy/scholar-sync/pkg/types"
)

// hashLen is the number of hex digits of the identity hash kept in a key.
const hashLen = 12

// Key derives the storage key for an author:
//
//	<slug(name)>_<slug(id)>_<first 12 hex digits of sha256(len(id) ":" id "\x00" name)>
//
// The slugs keep keys readable as file names; the hash, computed over the
// unmodified id and name with the id length prefixed, keeps keys distinct
// for authors whose slugs coincide. Keys are stable across runs.
func Key(author types.Author) string {
	h := sha256.New()
	h.Write([]byte(strconv.Itoa(len(author.ID))))
	h.Write([]byte{':'})
	h.Write([]byte(author.ID))
	h.Write([]byte{0})
	h.Write([]byte(author.Name))
	sum := hex.EncodeToString(h.Sum(nil))[:hashLen]

	return slug(author.Name) + "_" + slug(author.ID) + "_" + sum
}

// slug keeps ASCII letters, digits, '-' and '.', replaces any other run of
// runes with a single '_' and trims '_' and '.' at both ends. An empty result is
// returned as "x" so every key segment is non-empty.
func slug(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	// Leading dots would hide the file on unix.
	out := strings.Trim(b.String(), "_.")
	if out == "" {
		return "x"
	}
	return out
}
