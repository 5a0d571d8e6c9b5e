package scoring

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Normalize folds text into the canonical form used for every comparison:
// NFKC, single spaces, trimmed, lowercase.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFKC.String(text)
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// Tokenize returns the maximal runs of word characters in the normalized text.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return []string{}
	}
	return wordRe.FindAllString(normalized, -1)
}

// uniqueNormalized normalizes items, drops blanks and duplicates, and keeps the first-seen order.
func uniqueNormalized(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	res := make([]string, 0, len(items))
	for _, item := range items {
		key := Normalize(item)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		res = append(res, key)
	}
	return res
}

func nonBlankNormalized(items []string) []string {
	res := make([]string, 0, len(items))
	for _, item := range items {
		if key := Normalize(item); key != "" {
			res = append(res, key)
		}
	}
	return res
}
