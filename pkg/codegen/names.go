package codegen

import (
	"fmt"
	"strings"
	"unicode"
)

func sanitizeName(s string) string {
	if s == "" {
		return "unnamed"
	}
	var result strings.Builder
	for i, r := range s {
		if unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) || r == '_' {
			result.WriteRune(r)
		} else if r == ' ' || r == '-' {
			result.WriteRune('_')
		}
	}
	name := result.String()
	if name == "" {
		return "unnamed"
	}
	return name
}

// toPascalCase joins the words of s, capitalizing each. Characters that
// cannot appear in a Go identifier are dropped.
func toPascalCase(s string) string {
	var result strings.Builder
	for _, word := range splitWords(s) {
		for i, r := range word {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				continue
			}
			if i == 0 {
				result.WriteRune(unicode.ToUpper(r))
			} else {
				result.WriteRune(r)
			}
		}
	}
	name := result.String()
	if name == "" {
		return "Unknown"
	}
	return name
}

func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	for _, r := range s {
		if r == '_' || r == '-' || r == ' ' || r == '.' {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		} else {
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

// identifiers maps each name to prefix+PascalCase(name), appending the
// index when two names would collide.
func identifiers(prefix string, names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]bool, len(names))
	for i, n := range names {
		id := prefix + toPascalCase(n)
		if used[id] {
			id = fmt.Sprintf("%s%d", id, i)
		}
		used[id] = true
		ids[n] = id
	}
	return ids
}
