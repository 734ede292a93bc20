// Package llm - util.go holds response post-processing shared by providers.
package llm

import "strings"

// CleanJSONBlock recovers the JSON payload from a model response. Models
// wrap JSON in markdown fences or narrate around it even when told not to;
// this strips fencing and carves out the first balanced object or array.
// Responses that are already bare JSON pass through unchanged.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimSpace(stripFences(text))
	}

	start := jsonStart(text)
	if start < 0 {
		return text
	}
	if payload := carveJSON(text[start:]); payload != "" {
		return payload
	}
	return text
}

// stripFences removes the opening fence line, its optional language tag, and
// the closing fence.
func stripFences(text string) string {
	rest := strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		tag := strings.TrimSpace(rest[:i])
		if tag == "" || isLanguageTag(tag) {
			rest = rest[i+1:]
		}
	} else {
		rest = strings.TrimPrefix(rest, "json")
	}
	if i := strings.LastIndex(rest, "```"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func isLanguageTag(s string) bool {
	return len(s) < 16 && !strings.ContainsAny(s, " \t{[\"")
}

// jsonStart finds the earlier of the first '{' or '[', or -1.
func jsonStart(text string) int {
	obj := strings.IndexByte(text, '{')
	arr := strings.IndexByte(text, '[')
	switch {
	case obj < 0:
		return arr
	case arr < 0:
		return obj
	case arr < obj:
		return arr
	default:
		return obj
	}
}

// carveJSON returns the balanced object or array at the start of text. The
// scan is string-aware so braces and brackets inside values do not close the
// payload early. Returns "" when the text never balances.
func carveJSON(text string) string {
	if text == "" {
		return ""
	}
	open := text[0]
	var closer byte
	switch open {
	case '{':
		closer = '}'
	case '[':
		closer = ']'
	default:
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
