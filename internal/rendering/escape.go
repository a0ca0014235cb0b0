package rendering

import "strings"

// EscapeLaTeX escapes special LaTeX characters in text and collapses newlines to spaces.
// Special characters: \ { } $ & % # ^ _ ~
// The input is scanned once, so the braces emitted for \textbackslash{} are never re-escaped.
// Callers escape each raw field exactly once; the output is not safe to escape again.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2) // Pre-allocate space for potential escaping

	prevCR := false
	for _, r := range text {
		if r == '\n' && prevCR {
			// \r\n is a single newline
			prevCR = false
			continue
		}
		prevCR = r == '\r'

		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{':
			result.WriteString(`\{`)
		case '}':
			result.WriteString(`\}`)
		case '$':
			result.WriteString(`\$`)
		case '&':
			result.WriteString(`\&`)
		case '%':
			result.WriteString(`\%`)
		case '#':
			result.WriteString(`\#`)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '_':
			result.WriteString(`\_`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		case '\n', '\r':
			result.WriteByte(' ')
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// EscapeURL prepares a URL for the first argument of \href.
// hyperref reads that argument verbatim except for %, # and &, so those get a
// backslash while characters that would unbalance the group are percent-encoded.
// Whitespace is not valid in a URL and is encoded as well.
func EscapeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(url) + 16)

	for _, r := range url {
		switch r {
		case '\\':
			result.WriteString("%5C")
		case '{':
			result.WriteString("%7B")
		case '}':
			result.WriteString("%7D")
		case '^':
			result.WriteString("%5E")
		case '~':
			result.WriteString("%7E")
		case ' ', '\t':
			result.WriteString("%20")
		case '\n', '\r':
			// dropped
		case '%':
			result.WriteString(`\%`)
		case '#':
			result.WriteString(`\#`)
		case '&':
			result.WriteString(`\&`)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// escapeAll escapes every non-blank item, dropping blank ones
func escapeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		out = append(out, EscapeLaTeX(item))
	}
	return out
}
