package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Render substitutes ${name} placeholders in the template. Every placeholder
// must have a value - a missing variable is an error rather than a silent
// blank, so malformed templates fail loudly before any model call.
func Render(template string, variables map[string]string) (string, error) {
	var missing []string
	out := placeholder.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		value, ok := variables[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("missing prompt variable(s): %s", strings.Join(missing, ", "))
	}
	return out, nil
}
