package frontmatter

import (
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// Fingerprint computes a content fingerprint over the canonical YAML of the
// front matter and the body. A fingerprint field already present in the
// front matter is excluded so documents can carry their own value.
func Fingerprint(doc Document) (string, error) {
	fields := make(map[string]any, len(doc.Raw))
	for k, v := range doc.Raw {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}

	canonical := ""
	if len(fields) > 0 {
		// yaml.v3 emits map keys in sorted order.
		out, err := yaml.Marshal(fields)
		if err != nil {
			return "", err
		}
		canonical = strings.TrimSuffix(string(out), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(canonical, string(doc.Body)), nil
}
