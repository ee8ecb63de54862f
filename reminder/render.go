package reminder

import (
	"regexp"
	"sort"
	"strings"
)

var newlineRuns = regexp.MustCompile(`\n{3,}`)

// Render fills {name} placeholders in text with the given values.
//
// A blank value (empty string) deletes every line that consists solely of
// its placeholder, then clears any remaining inline occurrences. Non-blank
// values are substituted verbatim; invoice data is trusted internal content,
// so nothing is escaped. Placeholders with no entry in vars are left as-is.
// Runs of three or more newlines collapse to a single blank line and the
// result is trimmed. Variables are applied in sorted name order so the
// output is stable even when a value itself contains a placeholder.
func Render(text string, vars map[string]string) string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := vars[name]
		token := "{" + name + "}"
		if value == "" {
			text = dropPlaceholderLines(text, token)
			text = strings.ReplaceAll(text, token, "")
		} else {
			text = strings.ReplaceAll(text, token, value)
		}
	}
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// dropPlaceholderLines removes lines that are nothing but token,
// ignoring surrounding whitespace.
func dropPlaceholderLines(text, token string) string {
	if !strings.Contains(text, token) {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == token {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
