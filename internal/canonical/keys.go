// Package canonical derives stable identity keys for candidates and merges
// duplicates into canonical products.
package canonical

import (
	"strings"
	"unicode"
)

// domainAliases maps vanity or legacy domains to the canonical domain the
// same company is known under elsewhere in the catalog.
var domainAliases = map[string]string{
	"hu.ma.ne":        "humane.com",
	"deepmind.google": "deepmind.com",
	"fb.com":          "facebook.com",
	"about.fb.com":    "facebook.com",
}

// corporateSuffixes are trailing name tokens that carry no identity.
var corporateSuffixes = map[string]bool{
	"inc":          true,
	"llc":          true,
	"ltd":          true,
	"corp":         true,
	"co":           true,
	"labs":         true,
	"lab":          true,
	"ai":           true,
	"technologies": true,
	"tech":         true,
}

// coreStopWords are dropped when building the loose core-token key. These
// are marketing filler that would cause unrelated products to collide if
// kept, or distinct products to diverge if counted.
var coreStopWords = map[string]bool{
	"ai":      true,
	"an":      true,
	"and":     true,
	"app":     true,
	"beta":    true,
	"by":      true,
	"for":     true,
	"glasses": true,
	"inc":     true,
	"labs":    true,
	"llc":     true,
	"ltd":     true,
	"of":      true,
	"pro":     true,
	"smart":   true,
	"the":     true,
}

// KeyFromWebsite derives the primary canonical key from a website URL:
// normalized domain plus the first path segment when one exists. The second
// return is false when the URL yields no usable domain.
func KeyFromWebsite(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	// Strip scheme
	raw = strings.TrimPrefix(raw, "https://")
	raw = strings.TrimPrefix(raw, "http://")

	// Split host from path
	host := raw
	path := ""
	if i := strings.IndexAny(raw, "/?#"); i >= 0 {
		host = raw[:i]
		if raw[i] == '/' {
			path = raw[i+1:]
		}
	}

	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimPrefix(host, "www.")
	// Strip port
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	if host == "" || !strings.Contains(host, ".") {
		return "", false
	}
	if alias, ok := domainAliases[host]; ok {
		host = alias
	}

	seg := firstPathSegment(path)
	if seg != "" {
		return host + "/" + seg, true
	}
	return host, true
}

// firstPathSegment returns the first non-empty path segment, lowercased,
// with query/fragment leftovers stripped.
func firstPathSegment(path string) string {
	for _, seg := range strings.Split(path, "/") {
		seg = strings.ToLower(strings.TrimSpace(seg))
		if i := strings.IndexAny(seg, "?#"); i >= 0 {
			seg = seg[:i]
		}
		if seg != "" {
			return seg
		}
	}
	return ""
}

// NormalizeName lowercases a product name, strips corporate suffix tokens,
// and keeps alphanumerics only.
func NormalizeName(name string) string {
	tokens := tokenize(name)

	// Drop trailing corporate suffixes ("Acme Labs Inc" -> "acme")
	for len(tokens) > 1 && corporateSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}

	return strings.Join(tokens, "")
}

// NameKey derives the fallback identity key from a product name. The second
// return is false when the normalized name is too short to be a safe key:
// CJK names need at least 2 characters, other scripts at least 4.
func NameKey(name string) (string, bool) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return "", false
	}

	runes := []rune(normalized)
	minLen := 4
	if containsCJK(runes) {
		minLen = 2
	}
	if len(runes) < minLen {
		return "", false
	}
	return normalized, true
}

// CoreTokenKey builds the loose-match key: tokenize, drop stop-words,
// require at least 2 surviving tokens, join the first 4. The second return
// is false when fewer than 2 tokens survive.
func CoreTokenKey(name string) (string, bool) {
	tokens := tokenize(name)

	core := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if coreStopWords[tok] {
			continue
		}
		core = append(core, tok)
	}
	if len(core) < 2 {
		return "", false
	}
	if len(core) > 4 {
		core = core[:4]
	}
	return strings.Join(core, " "), true
}

// tokenize lowercases and splits a name into alphanumeric runs.
func tokenize(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsCJK(runes []rune) bool {
	for _, r := range runes {
		if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
			unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}
