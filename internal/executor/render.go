package executor

import "strings"

// Render substitutes host for every occurrence of tag in template.
// Replacement is literal and single-pass: a host that itself contains tag is not expanded again.
// An empty tag marks no position in the template, so the template is returned unchanged.
func Render(template, tag, host string) string {
	if tag == "" {
		return template
	}
	return strings.ReplaceAll(template, tag, host)
}
