package frontmatter

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Recognized front matter keys.
const (
	KeyTitle       = "title"
	KeyOrder       = "order"
	KeyStatus      = "status"
	KeyTags        = "tags"
	KeySummary     = "summary"
	KeyDescription = "description"
	KeyDate        = "date"
	KeyType        = "type"
)

// Fields is the typed front matter record. Optional values are nil or empty
// when absent or when the source value could not be coerced.
type Fields struct {
	Title       string
	Order       *int
	Status      string
	Tags        []string
	Summary     string
	Description string
	Date        *time.Time
	Type        string
}

// Document is a markdown source split into resolved front matter and body.
type Document struct {
	Fields Fields
	// Raw holds every key found in the block, including unrecognized ones.
	Raw  map[string]any
	Body []byte
	// HadFrontMatter reports whether a delimited block was present.
	HadFrontMatter bool
	// Lenient is set when the block was not valid YAML and the line parser
	// recovered what it could.
	Lenient  bool
	Warnings []string
}

// Parse resolves a markdown source into a Document. It never fails:
//   - no front matter, or an unterminated block: empty fields, body is the
//     input unchanged
//   - a block that is not valid YAML: key/value lines are recovered, lines
//     without a colon are dropped, the body after the block is preserved
//   - values of the wrong type are dropped and reported in Warnings
func Parse(raw []byte) Document {
	fm, body, had, err := Split(raw)
	if err != nil || !had {
		return Document{Raw: map[string]any{}, Body: raw}
	}

	doc := Document{Body: body, HadFrontMatter: true}
	fields, yerr := ParseYAML(fm)
	if yerr != nil {
		fields = parseLines(fm)
		doc.Lenient = true
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("front matter is not valid YAML: %v", yerr))
	}
	doc.Raw = fields
	doc.Fields, doc.Warnings = coerce(fields, doc.Warnings)
	return doc
}

// parseLines is the fallback for blocks yaml.v3 rejects. Each "key: value"
// line becomes a string entry; surrounding quotes are stripped.
func parseLines(block []byte) map[string]any {
	out := map[string]any{}
	sc := bufio.NewScanner(bytes.NewReader(block))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		out[key] = value
	}
	return out
}

func coerce(raw map[string]any, warnings []string) (Fields, []string) {
	var f Fields
	warn := func(key string, v any) {
		warnings = append(warnings, fmt.Sprintf("front matter %q: unsupported value %v (%T)", key, v, v))
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := raw[key]
		if v == nil {
			continue
		}
		switch key {
		case KeyTitle:
			f.Title = scalarString(v)
		case KeyStatus:
			f.Status = scalarString(v)
		case KeySummary:
			f.Summary = scalarString(v)
		case KeyDescription:
			f.Description = scalarString(v)
		case KeyType:
			f.Type = scalarString(v)
		case KeyOrder:
			if n, ok := toInt(v); ok {
				f.Order = &n
			} else {
				warn(key, v)
			}
		case KeyTags:
			if tags, ok := toTags(v); ok {
				f.Tags = tags
			} else {
				warn(key, v)
			}
		case KeyDate:
			if d, ok := toTime(v); ok {
				f.Date = &d
			} else {
				warn(key, v)
			}
		}
	}
	return f, warnings
}

func scalarString(v any) string {
	switch vv := v.(type) {
	case string:
		return strings.TrimSpace(vv)
	case time.Time:
		return vv.Format("2006-01-02")
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(vv)
	}
}

func toInt(v any) (int, bool) {
	switch vv := v.(type) {
	case int:
		return vv, true
	case int64:
		return int(vv), true
	case uint64:
		if vv > math.MaxInt32 {
			return 0, false
		}
		return int(vv), true
	case float64:
		if vv != math.Trunc(vv) {
			return 0, false
		}
		return int(vv), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(vv))
		return n, err == nil
	default:
		return 0, false
	}
}

func toTags(v any) ([]string, bool) {
	switch vv := v.(type) {
	case string:
		var tags []string
		for _, t := range strings.Split(vv, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		return tags, true
	case []any:
		tags := make([]string, 0, len(vv))
		for _, item := range vv {
			switch item.(type) {
			case map[string]any, []any, nil:
				return nil, false
			}
			if t := scalarString(item); t != "" {
				tags = append(tags, t)
			}
		}
		return tags, true
	default:
		return nil, false
	}
}

func toTime(v any) (time.Time, bool) {
	switch vv := v.(type) {
	case time.Time:
		return vv, true
	case string:
		t, err := dateparse.ParseAny(strings.TrimSpace(vv))
		return t, err == nil
	default:
		return time.Time{}, false
	}
}
