package llm

import "strings"

// UnwrapCodeBlock returns the body of a response that is entirely wrapped in a markdown
// code fence, dropping a short language tag on the opening line. Other text is returned
// trimmed and otherwise unchanged.
func UnwrapCodeBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}

	body := strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	if strings.Contains(body, "```") {
		// several blocks, not a single wrapper
		return text
	}
	if idx := strings.Index(body, "\n"); idx >= 0 {
		firstLine := body[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
			body = body[idx+1:]
		}
	}
	return strings.TrimSpace(body)
}
