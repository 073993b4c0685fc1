// Package cleaner turns the raw markdown-ish text produced by the page
// fetcher into plain prose suitable for downstream indexing.
package cleaner

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// The pipeline order matters: image and empty-link stripping run after the
// navigation-link pass so bullets are removed whole, and space collapsing
// runs last over whatever the earlier passes left behind.
var (
	excessNewlines = regexp.MustCompile(`\n{3,}`)
	navLinks       = regexp.MustCompile(`\* \[.*?\]\(javascript:void.*?\)`)
	imageMarkup    = regexp.MustCompile(`!\[(.*?)\]\(.*?\)`)
	emptyLinks     = regexp.MustCompile(`\[\s*\]\(.*?\)`)
	extraSpaces    = regexp.MustCompile(` +`)
)

// Clean normalizes raw extracted markup into readable text. It is pure and
// never fails: garbage in produces (smaller) garbage out.
func Clean(raw string) string {
	cleaned := excessNewlines.ReplaceAllString(raw, "\n\n")
	cleaned = navLinks.ReplaceAllString(cleaned, "")
	// Keep the alt text, drop the asset reference.
	cleaned = imageMarkup.ReplaceAllString(cleaned, "$1")
	cleaned = emptyLinks.ReplaceAllString(cleaned, "")
	cleaned = extraSpaces.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// Length counts characters, not bytes. The crawled content is largely
// Arabic, so byte counts would overstate sizes roughly twofold.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// Acceptable reports whether cleaned content carries enough text to be
// worth keeping as a page record. Falling short is not an error, just
// "no usable content".
func Acceptable(cleaned string, minLength int) bool {
	return Length(strings.TrimSpace(cleaned)) > minLength
}
