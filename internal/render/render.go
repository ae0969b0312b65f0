// Package render extracts placeholder names from template HTML and
// substitutes operator-supplied values into it.
//
// Placeholders are flat names in double braces: {{name}}. Whitespace inside
// the braces is allowed and an "it." prefix is ignored, so {{ it.name }}
// refers to the same variable as {{name}}.
package render

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*(?:it\.)?([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func valuePolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return policy
}

// ExtractVariables returns the placeholder names in html, ordered by first
// occurrence and without duplicates. It returns an empty, non-nil slice when
// html has no placeholders.
func ExtractVariables(html string) []string {
	matches := placeholderRe.FindAllStringSubmatch(html, -1)

	seen := make(map[string]struct{}, len(matches))
	variables := make([]string, 0, len(matches))
	for _, match := range matches {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		variables = append(variables, name)
	}

	return variables
}

// FormatValue prepares a raw form value for insertion into the email body.
// Line breaks become <br/> and markup outside the UGC allow-list is removed.
func FormatValue(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = strings.ReplaceAll(value, "\n", "<br/>")
	return valuePolicy().Sanitize(value)
}

// Render replaces every placeholder in html with the formatted value from
// data. Placeholders without a value render as the empty string.
func Render(html string, data map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(html, func(placeholder string) string {
		match := placeholderRe.FindStringSubmatch(placeholder)
		value, ok := data[match[1]]
		if !ok {
			return ""
		}
		return FormatValue(value)
	})
}

// Missing lists the variables of html that have no value in data.
func Missing(html string, data map[string]string) []string {
	var missing []string
	for _, name := range ExtractVariables(html) {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
