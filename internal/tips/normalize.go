package tips

import (
	"regexp"
	"strings"
)

const (
	MaxTips     = 4
	MinAdvice   = 2
	summaryCap  = 10
	recentLimit = 20
)

var bulletPrefix = regexp.MustCompile(`^\s*(?:[-*•]+\s*|\d+[.)]\s+)`)

// Normalize splits text into at most MaxTips trimmed, non-empty lines with
// list markers removed. A leading line ending in a colon, such as
// "Here are some tips:", is treated as a preamble and dropped.
func Normalize(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		if len(out) == 0 && strings.HasSuffix(line, ":") {
			continue
		}
		out = append(out, line)
		if len(out) == MaxTips {
			break
		}
	}
	return out
}
