package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeDifficulty capitalises the first letter and lowercases the rest,
// after resolving common shorthands.
func NormalizeDifficulty(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))

	aliasMap := map[string]string{
		"e":    "easy",
		"ez":   "easy",
		"m":    "medium",
		"med":  "medium",
		"mid":  "medium",
		"h":    "hard",
		"hrd":  "hard",
		"diff": "hard",
	}
	if alias, ok := aliasMap[token]; ok {
		token = alias
	}

	if token == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(token)
	return string(unicode.ToUpper(r)) + token[size:]
}

var topicSeparators = strings.NewReplacer("-", " ", "_", " ")

// NormalizeTopic lowercases a topic tag, reads '-' and '_' as spaces and
// collapses inner whitespace, so "Dynamic-Programming" matches "dynamic programming".
func NormalizeTopic(token string) string {
	return strings.Join(strings.Fields(topicSeparators.Replace(strings.ToLower(token))), " ")
}

// NormalizeTitle produces the case-insensitive problem identifier.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// SplitList splits comma separated tokens and drops empties.
func SplitList(tokens ...string) []string {
	var out []string
	for _, token := range tokens {
		for _, part := range strings.Split(token, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
