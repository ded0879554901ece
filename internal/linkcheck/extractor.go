package linkcheck

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/folio/internal/errors"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL        string // The URL or path as written
	Text       string // Link text, alt or rel
	Tag        string // HTML tag (a, img, script, link, etc.)
	Attribute  string // Attribute containing the link (href, src)
	IsInternal bool   // True if the link points into the site
}

// linkAttrs maps elements to the attribute that carries their link.
var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"source": "src",
	"video":  "src",
	"audio":  "src",
}

// ExtractLinksFromReader extracts all links from an HTML reader. Links on
// baseURL's host count as internal; baseURL may be empty.
func ExtractLinksFromReader(r io.Reader, baseURL string) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, ferrors.Wrap(err, ferrors.CategoryValidation, ferrors.SeverityError, "failed to parse HTML")
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, ferrors.Wrap(err, ferrors.CategoryValidation, ferrors.SeverityError, "invalid base URL").
			WithContext("base_url", baseURL)
	}

	var links []Link
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if v := getAttr(n, attr); v != "" {
					links = append(links, Link{
						URL:        v,
						Text:       linkText(n),
						Tag:        n.Data,
						Attribute:  attr,
						IsInternal: isInternalLink(v, base),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(doc)
	return links, nil
}

func linkText(n *html.Node) string {
	switch n.Data {
	case "a":
		return extractText(n)
	case "img":
		return getAttr(n, "alt")
	case "link":
		return getAttr(n, "rel")
	}
	return ""
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractText extracts text content from an HTML node and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}
	return strings.TrimSpace(text.String())
}

// isInternalLink reports whether linkURL points into the site: relative
// references, absolute paths and absolute URLs on the base host.
func isInternalLink(linkURL string, base *url.URL) bool {
	if skipScheme(linkURL) {
		return false
	}
	u, err := url.Parse(linkURL)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return true
	}
	return base != nil && base.Host != "" && strings.EqualFold(u.Host, base.Host)
}

// skipScheme reports links that never resolve to a site page.
func skipScheme(linkURL string) bool {
	for _, prefix := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(linkURL, prefix) {
			return true
		}
	}
	return false
}
