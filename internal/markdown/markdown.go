// Package markdown wraps goldmark for the three things the site needs from a
// body: its first-level heading, its heading outline and its HTML rendering.
package markdown

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Heading is one entry of a document outline.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Heading levels listed by Outline.
const (
	outlineMinLevel = 2
	outlineMaxLevel = 4
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	// analyzer skips the typographer so extracted titles keep their
	// original punctuation instead of HTML entities.
	analyzer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
)

func parse(body []byte) gmast.Node {
	ctx := parser.NewContext(parser.WithIDs(newSlugIDs()))
	return analyzer.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))
}

// FirstHeading returns the text of the first level-1 heading in body.
func FirstHeading(body []byte) (string, bool) {
	root := parse(body)
	var title string
	found := false
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok && h.Level == 1 {
			title = strings.TrimSpace(plainText(h, body))
			found = title != ""
			if found {
				return gmast.WalkStop, nil
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return title, found
}

// Outline lists level 2-4 headings with the anchor IDs Render assigns them.
func Outline(body []byte) []Heading {
	root := parse(body)
	var out []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		if h.Level >= outlineMinLevel && h.Level <= outlineMaxLevel {
			id := ""
			if v, ok := h.AttributeString("id"); ok {
				if b, ok := v.([]byte); ok {
					id = string(b)
				}
			}
			out = append(out, Heading{Level: h.Level, Text: strings.TrimSpace(plainText(h, body)), ID: id})
		}
		return gmast.WalkSkipChildren, nil
	})
	return out
}

// HasProse reports whether body contains any block besides level-1 headings.
// Directory landing pages without prose get a generated listing instead.
func HasProse(body []byte) bool {
	root := parse(body)
	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		if h, ok := c.(*gmast.Heading); ok && h.Level == 1 {
			continue
		}
		return true
	}
	return false
}

// Render converts body to HTML. Raw HTML is passed through and headings get
// slug anchors.
func Render(body []byte) (string, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(newSlugIDs()))
	if err := md.Convert(body, &buf, parser.WithContext(ctx)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func plainText(n gmast.Node, src []byte) string {
	var b strings.Builder
	var walk func(gmast.Node)
	walk = func(n gmast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *gmast.Text:
				b.Write(t.Segment.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					b.WriteByte(' ')
				}
			case *gmast.String:
				b.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

var nonWord = regexp.MustCompile(`[^a-z0-9_]+`)

// Slugify lowercases s, collapses every run of non-word characters to a
// single hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	return strings.Trim(nonWord.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// slugIDs implements parser.IDs with Slugify and numeric suffixes for repeats.
type slugIDs struct {
	used map[string]struct{}
}

func newSlugIDs() *slugIDs {
	return &slugIDs{used: map[string]struct{}{}}
}

func (s *slugIDs) Generate(value []byte, _ gmast.NodeKind) []byte {
	base := Slugify(string(value))
	if base == "" {
		base = "heading"
	}
	id := base
	for i := 1; ; i++ {
		if _, taken := s.used[id]; !taken {
			break
		}
		id = base + "-" + strconv.Itoa(i)
	}
	s.used[id] = struct{}{}
	return []byte(id)
}

func (s *slugIDs) Put(value []byte) {
	s.used[string(value)] = struct{}{}
}
