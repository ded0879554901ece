// Package frontmatter separates YAML front matter from markdown bodies and
// resolves it into the typed Fields record used by documents and posts.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

var bom = []byte("\uFEFF")

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// A leading UTF-8 BOM is ignored. If the document does not start with a
// delimiter line, had is false and body is the full input. The closing
// delimiter may be the last line of the input without a trailing newline.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	content = bytes.TrimPrefix(content, bom)
	nl := detectNewline(content)

	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	rest := content[start:]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, nil
	}
	if bytes.Equal(rest, []byte(delimiter)) {
		return []byte{}, []byte{}, true, nil
	}

	closeSeq := []byte(nl + delimiter + nl)
	if idx := bytes.Index(rest, closeSeq); idx >= 0 {
		return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, nil
	}

	tail := []byte(nl + delimiter)
	if bytes.HasSuffix(rest, tail) {
		return rest[:len(rest)-len(delimiter)], []byte{}, true, nil
	}

	return nil, nil, false, ErrMissingClosingDelimiter
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
