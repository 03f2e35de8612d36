package sanitizer

import (
	"fmt"
	"regexp"
	"strings"
)

// Result carries the sanitized markup and whether anything was stripped.
type Result struct {
	Sanitized string `json:"sanitized"`
	Modified  bool   `json:"modified"`
}

// allowedTags maps each permitted tag to its permitted attributes. Anything
// outside this table is stripped.
var allowedTags = map[string][]string{
	"p":          {"class"},
	"div":        {"class"},
	"span":       {"class"},
	"a":          {"href", "title", "target", "rel"},
	"img":        {"src", "alt", "width", "height"},
	"h1":         {"class"},
	"h2":         {"class"},
	"h3":         {"class"},
	"h4":         {"class"},
	"h5":         {"class"},
	"h6":         {"class"},
	"strong":     {},
	"b":          {},
	"em":         {},
	"i":          {},
	"u":          {},
	"s":          {},
	"br":         {},
	"hr":         {},
	"blockquote": {"class"},
	"pre":        {"class"},
	"code":       {"class"},
	"ul":         {"class"},
	"ol":         {"class"},
	"li":         {"class"},
	"table":      {"class"},
	"thead":      {},
	"tbody":      {},
	"tr":         {},
	"td":         {"colspan", "rowspan"},
	"th":         {"colspan", "rowspan"},
}

var (
	scriptBlockRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	iframeBlockRe  = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe\s*>`)
	scriptIframeRe = regexp.MustCompile(`(?i)</?(script|iframe)\b[^>]*>?`)
	eventHandlerRe = regexp.MustCompile(`(?i)\s+on\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	jsURLAttrRe    = regexp.MustCompile(`(?i)\s+(href|src)\s*=\s*("javascript:[^"]*"|'javascript:[^']*'|javascript:[^\s>]+)`)
	anyTagRe       = regexp.MustCompile(`(?s)</?([a-zA-Z][a-zA-Z0-9]*)\b[^>]*/?>`)
	attrRe         = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9-]*)\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	placeholderRe  = regexp.MustCompile(`\{\{[^{}]*\}\}`)
)

// Sanitize applies the allow-list pipeline: script/iframe removal, inline
// event handler and javascript: URL stripping, per-tag attribute filtering,
// and a catch-all strip of tags outside the allow-list. Template placeholders
// of the form {{token}} survive verbatim.
func Sanitize(html string) Result {
	original := html

	// Shield placeholders so tag stripping cannot mangle them.
	placeholders := []string{}
	html = placeholderRe.ReplaceAllStringFunc(html, func(token string) string {
		placeholders = append(placeholders, token)
		return fmt.Sprintf("\x00ph%d\x00", len(placeholders)-1)
	})

	// A removal pass can splice a new tag together out of the surrounding
	// text (<scr<script>ipt ...>), so the strip loop runs until the input
	// stops changing. scriptIframeRe tolerates a missing closing bracket so
	// spliced fragments cannot hide from it.
	for {
		next := scriptBlockRe.ReplaceAllString(html, "")
		next = iframeBlockRe.ReplaceAllString(next, "")
		next = scriptIframeRe.ReplaceAllString(next, "")
		if next == html {
			break
		}
		html = next
	}

	html = eventHandlerRe.ReplaceAllString(html, "")
	html = jsURLAttrRe.ReplaceAllString(html, "")

	html = anyTagRe.ReplaceAllStringFunc(html, rewriteTag)

	for i, token := range placeholders {
		html = strings.ReplaceAll(html, fmt.Sprintf("\x00ph%d\x00", i), token)
	}

	return Result{Sanitized: html, Modified: html != original}
}

// rewriteTag keeps allow-listed tags with filtered attributes and drops
// everything else.
func rewriteTag(tag string) string {
	name := strings.ToLower(anyTagRe.FindStringSubmatch(tag)[1])

	allowedAttrs, ok := allowedTags[name]
	if !ok {
		return ""
	}

	if strings.HasPrefix(tag, "</") {
		return "</" + name + ">"
	}

	selfClosing := strings.HasSuffix(strings.TrimRight(tag[:len(tag)-1], " \t\n"), "/")

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(name)

	for _, match := range attrRe.FindAllStringSubmatch(tag, -1) {
		attrName := strings.ToLower(match[1])
		if !contains(allowedAttrs, attrName) {
			continue
		}
		value := match[2]
		if attrName == "href" && strings.Contains(strings.ToLower(value), "javascript:") {
			continue
		}
		b.WriteString(" ")
		b.WriteString(attrName)
		b.WriteString("=")
		b.WriteString(quoteValue(value))
	}

	if selfClosing {
		b.WriteString(" /")
	}
	b.WriteString(">")
	return b.String()
}

func quoteValue(value string) string {
	if strings.HasPrefix(value, `"`) || strings.HasPrefix(value, "'") {
		return value
	}
	return `"` + value + `"`
}

func contains(list []string, item string) bool {
	for _, candidate := range list {
		if candidate == item {
			return true
		}
	}
	return false
}
