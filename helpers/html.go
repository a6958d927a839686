package helpers

import (
	"html"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	nethtml "golang.org/x/net/html"
)

var (
	// HTML tag patterns
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	htmlCommentRegex = regexp.MustCompile(`<!--[\s\S]*?-->`)
	multiSpaceRegex  = regexp.MustCompile(`\s+`)
	paragraphRegex   = regexp.MustCompile(`(?i)<p[\s>]`)

	// Specific tag patterns for better text extraction
	brTagRegex    = regexp.MustCompile(`<br\s*/?>`)
	blockEndRegex = regexp.MustCompile(`</(?:p|div|li|h[1-6]|blockquote|tr)>`)
)

var (
	abstractPolicyOnce sync.Once
	abstractPolicy     *bluemonday.Policy

	titlePolicyOnce sync.Once
	titlePolicy     *bluemonday.Policy
)

// AbstractPolicy returns the allow-list policy applied to abstracts: only
// paragraph markup survives.
func AbstractPolicy() *bluemonday.Policy {
	abstractPolicyOnce.Do(func() {
		abstractPolicy = bluemonday.NewPolicy()
		abstractPolicy.AllowElements("p")
	})
	return abstractPolicy
}

// TitlePolicy returns the allow-list policy applied to titles and subtitles.
func TitlePolicy() *bluemonday.Policy {
	titlePolicyOnce.Do(func() {
		titlePolicy = bluemonday.NewPolicy()
		titlePolicy.AllowElements("b", "i", "u", "sup", "sub")
	})
	return titlePolicy
}

// SanitizeAbstract cleans abstract HTML down to paragraphs. Text that carries
// no paragraph of its own is wrapped in one.
func SanitizeAbstract(s string) string {
	clean := strings.TrimSpace(BalanceTags(AbstractPolicy().Sanitize(s)))
	if clean == "" {
		return ""
	}
	if !paragraphRegex.MatchString(clean) {
		clean = "<p>" + clean + "</p>"
	}
	return clean
}

var titleTagMap = strings.NewReplacer(
	"<b>", "<bold>",
	"</b>", "</bold>",
	"<i>", "<italic>",
	"</i>", "</italic>",
	"<u>", "<underline>",
	"</u>", "</underline>",
)

// MapHTMLTagsForTitle rewrites the inline HTML allowed in titles to the
// equivalent JATS elements.
func MapHTMLTagsForTitle(s string) string {
	return titleTagMap.Replace(s)
}

// SanitizeTitle cleans title HTML to inline markup and maps it to JATS.
func SanitizeTitle(s string) string {
	return MapHTMLTagsForTitle(strings.TrimSpace(BalanceTags(TitlePolicy().Sanitize(s))))
}

// BalanceTags makes attribute-free sanitized markup well-formed. An end tag
// closes every element opened after its match, end tags with no open match
// are dropped, a <p> start closes an open <p>, and elements still open at the
// end are closed. Empty elements left behind are kept.
func BalanceTags(s string) string {
	var b strings.Builder
	var open []string

	closeThrough := func(i int) {
		for j := len(open) - 1; j >= i; j-- {
			b.WriteString("</" + open[j] + ">")
		}
		open = open[:i]
	}

	z := nethtml.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == nethtml.ErrorToken {
			break
		}
		tok := z.Token()
		switch tt {
		case nethtml.TextToken:
			b.WriteString(html.EscapeString(tok.Data))
		case nethtml.StartTagToken:
			if tok.Data == "p" {
				if i := slices.Index(open, "p"); i >= 0 {
					closeThrough(i)
				}
			}
			b.WriteString("<" + tok.Data + ">")
			open = append(open, tok.Data)
		case nethtml.SelfClosingTagToken:
			b.WriteString("<" + tok.Data + "></" + tok.Data + ">")
		case nethtml.EndTagToken:
			for i := len(open) - 1; i >= 0; i-- {
				if open[i] == tok.Data {
					closeThrough(i)
					break
				}
			}
		}
	}
	closeThrough(0)
	return b.String()
}

// StripHTML removes HTML tags from a string and decodes HTML entities.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	// Remove comments first
	s = htmlCommentRegex.ReplaceAllString(s, "")

	// Convert block-level closing tags to newlines for better text flow
	s = blockEndRegex.ReplaceAllString(s, "\n")
	s = brTagRegex.ReplaceAllString(s, "\n")

	// Remove all remaining HTML tags
	s = htmlTagRegex.ReplaceAllString(s, "")

	// Decode HTML entities
	s = html.UnescapeString(s)

	// Normalize whitespace
	s = multiSpaceRegex.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}
