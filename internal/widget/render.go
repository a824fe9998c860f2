package widget

import (
	"html"
	"regexp"
	"strings"
)

// Double markers must be substituted before single ones, otherwise a
// **bold** span would be split into two broken <em> spans.
var (
	strongRe = regexp.MustCompile(`\*\*(.+?)\*\*`)
	emRe     = regexp.MustCompile(`\*(.+?)\*`)
)

// RenderMarkup converts a message into a restricted HTML fragment. The raw
// text is HTML-escaped first, then newlines become <br> and the bold/italic
// star markers become <strong>/<em>. Escaping first means user- and
// model-provided text can never inject markup of its own.
func RenderMarkup(text string) string {
	out := html.EscapeString(text)
	out = strings.ReplaceAll(out, "\n", "<br>")
	out = strongRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = emRe.ReplaceAllString(out, "<em>$1</em>")
	return out
}
