package policy

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Size bounds applied to user input and outgoing message bodies.
const (
	MaxUserChars    = 4000
	MaxMessageChars = 2000
)

const redacted = "[POTENTIALLY_MALICIOUS_INSTRUCTION_REMOVED]"

// Common prompt-injection vectors neutralised before user text reaches a
// prompt or a log line. The list is not meant to be exhaustive - the goal is
// safe-by-default handling of the obvious patterns.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bignore\b.*\binstructions\b`),
	regexp.MustCompile(`(?i)\bdisregard\b.*\bsystem\b`),
	regexp.MustCompile(`(?i)\byou are now\b`),
	regexp.MustCompile(`(?i)\bact as\b.*\bsystem\b`),
	regexp.MustCompile(`(?i)\breveal\b.*\bprompt\b`),
	regexp.MustCompile(`(?i)\bexfiltrate\b`),
}

// SanitizeUserText bounds and neutralises raw user input before it is
// embedded in prompts or persisted with an approval request.
func SanitizeUserText(text string) string {
	return sanitize(text, MaxUserChars)
}

// SanitizeMessage bounds outgoing message bodies (Slack text, email subject
// and body) with the same neutralisation rules.
func SanitizeMessage(text string) string {
	return sanitize(text, MaxMessageChars)
}

func sanitize(text string, limit int) string {
	t := strings.TrimSpace(text)
	if len(t) > limit {
		// Cut on a rune boundary so multibyte input never yields invalid UTF-8.
		cut := limit
		for cut > 0 && !utf8.RuneStart(t[cut]) {
			cut--
		}
		t = t[:cut] + "…"
	}
	for _, pattern := range injectionPatterns {
		t = pattern.ReplaceAllString(t, redacted)
	}
	return t
}
