package content

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// StripMarkup returns a sanitizer that removes every HTML element from a
// text override. Plain text, including quotes and ampersands, is stored
// unchanged.
func StripMarkup() func(string) string {
	p := bluemonday.StrictPolicy()
	return func(s string) string {
		return html.UnescapeString(p.Sanitize(s))
	}
}
