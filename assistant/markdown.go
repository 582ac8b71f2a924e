package assistant

import (
	"regexp"
	"strings"
)

// Display text keeps the words and line structure of the reply but drops
// superficial markdown markup. The pass must be idempotent: it runs both
// incrementally during streaming and once at the end, and already-displayed
// text must not re-flow.
var (
	fenceLineRe  = regexp.MustCompile("(?m)^\\s*```[^\n]*$")
	headingRe    = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s+`)
	quoteRe      = regexp.MustCompile(`(?m)^\s{0,3}>\s?`)
	bulletRe     = regexp.MustCompile(`(?m)^(\s*)[-*+]\s+`)
	orderedRe    = regexp.MustCompile(`(?m)^(\s*)\d+[.)]\s+`)
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderRe  = regexp.MustCompile(`__([^_]+)__`)
	emphasisRe   = regexp.MustCompile(`\*([^*\n]+)\*`)
	strikeRe     = regexp.MustCompile(`~~([^~]+)~~`)
	inlineCodeRe = regexp.MustCompile("`([^`\n]+)`")
)

// NormalizeMarkdown strips emphasis, heading, list, quote and code-fence
// markup from a markdown fragment, returning plain display text.
func NormalizeMarkdown(s string) string {
	if s == "" {
		return ""
	}
	s = fenceLineRe.ReplaceAllString(s, "")
	s = headingRe.ReplaceAllString(s, "")
	s = quoteRe.ReplaceAllString(s, "")
	s = bulletRe.ReplaceAllString(s, "$1")
	s = orderedRe.ReplaceAllString(s, "$1")
	// Inline markers loop to a fixed point: stripping one layer of nested
	// markers (say ****x****) exposes another, and a single pass would leave
	// output the next pass still changes.
	for {
		next := boldRe.ReplaceAllString(s, "$1")
		next = boldUnderRe.ReplaceAllString(next, "$1")
		next = emphasisRe.ReplaceAllString(next, "$1")
		next = strikeRe.ReplaceAllString(next, "$1")
		next = inlineCodeRe.ReplaceAllString(next, "$1")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}
