package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

// fundingPattern matches the first dollar amount in free text, with an
// optional magnitude suffix: "$1.5B", "250K", "Series A, $12M raised".
var fundingPattern = regexp.MustCompile(`\$?([\d.]+)\s*([MBKmbk])?`)

// FundingMillions parses a free-text funding amount into USD millions.
// "B" scales by 1000, "K" by 0.001, a bare number is already millions.
// The second return is false when the text contains no parseable amount.
func FundingMillions(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Take the first match that holds a real number; bare dots from
	// abbreviations like "e.g." match the pattern but fail to parse.
	for _, m := range fundingPattern.FindAllStringSubmatch(s, -1) {
		if m[1] == "" {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		switch strings.ToUpper(m[2]) {
		case "B":
			value *= 1000
		case "K":
			value *= 0.001
		}
		return value, true
	}
	return 0, false
}

// ParseFunding is FundingMillions with the unparsable case collapsed to 0,
// for callers that only need a safe default.
func ParseFunding(s string) float64 {
	value, ok := FundingMillions(s)
	if !ok {
		return 0
	}
	return value
}
