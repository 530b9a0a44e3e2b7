package llm

import "strings"

// CleanResponse normalizes a raw provider response before parsing: trims
// whitespace, strips a surrounding fenced code block, then slices from the
// first '{' to the last '}' as a best-effort JSON isolation. Text without
// braces passes through unchanged apart from trimming.
func CleanResponse(raw string) string {
	s := strings.TrimSpace(raw)
	s = stripFence(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end > start {
		s = s[start : end+1]
	}
	return s
}

// stripFence removes ``` markers when the whole text is one fenced block,
// including a language tag on the opening fence.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := s
	if idx := strings.Index(body, "\n"); idx != -1 {
		body = body[idx+1:]
	} else {
		body = strings.TrimPrefix(body, "```")
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}
