package chat

import "regexp"

// citationPattern removes [[...]] citation markers before text is shown to
// the end user. A marker sitting on its own line takes its line break with
// it; a marker in the middle of a line is removed without touching the
// surrounding layout.
var citationPattern = regexp.MustCompile(`(?m)^\[\[.*?\]\][ \t]*\r?\n?|\[\[.*?\]\][ \t]*`)

// StripCitations returns text with every citation marker removed. The
// stored history keeps the raw text so chunk provenance survives; only the
// copy returned to the caller is cleaned.
func StripCitations(text string) string {
	return citationPattern.ReplaceAllString(text, "")
}
