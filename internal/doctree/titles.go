package doctree

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FolderTitle synthesizes a display title from a directory name by splitting
// on hyphens and upper-casing the first character of each word:
// "my-folder-name" becomes "My Folder Name". The rest of each word is kept,
// so "1st-steps" becomes "1st Steps".
func FolderTitle(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 || r == utf8.RuneError {
			continue
		}
		words[i] = string(unicode.ToTitle(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
