package content

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// computeHash derives a deterministic hash of the set from each file's
// path and fingerprint.
func computeHash(files []File) string {
	if len(files) == 0 {
		h := sha256.Sum256([]byte("empty-content-set"))
		return hex.EncodeToString(h[:])
	}

	entries := make([]string, 0, len(files))
	for _, f := range files {
		entries = append(entries, string(f.Kind)+"|"+f.Path+"|"+f.Fingerprint)
	}
	sort.Strings(entries)

	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
