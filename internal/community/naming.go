package community

import (
	"sort"
	"strings"

	"github.com/splitlens/splitlens/internal/store"
)

// stopWords are dropped from component names before picking the token
// that characterizes a community.
var stopWords = map[string]bool{
	"service":    true,
	"controller": true,
	"repository": true,
	"model":      true,
	"impl":       true,
	"base":       true,
	"abstract":   true,
	"interface":  true,
	"test":       true,
	"util":       true,
	"helper":     true,
	"manager":    true,
	"handler":    true,
	"the":        true,
	"class":      true,
	"module":     true,
	"component":  true,
	"config":     true,
}

// tokenize splits a component name on camel-case and word boundaries,
// returning lowercased tokens.
func tokenize(name string) []string {
	var tokens []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r >= 'A' && r <= 'Z':
			// New word at a lower->Upper boundary, or at the end of an
			// acronym run (HTTPServer -> http, server).
			if len(current) > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
				if (prev >= 'a' && prev <= 'z') || (prev >= '0' && prev <= '9') ||
					(prev >= 'A' && prev <= 'Z' && nextLower) {
					flush()
				}
			}
			current = append(current, r)
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			current = append(current, r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// suggestServiceName proposes a deployable-service name for a community:
// the most frequent non-stop-word token of its member names combined with
// the most frequent member type. Ties break lexicographically so the
// suggestion is stable across runs.
func suggestServiceName(members []*store.Component) string {
	tokenCounts := make(map[string]int)
	typeCounts := make(map[store.ComponentType]int)

	for _, c := range members {
		for _, tok := range tokenize(c.Name) {
			if stopWords[tok] {
				continue
			}
			tokenCounts[tok]++
		}
		typeCounts[c.Type]++
	}

	token := pickMostFrequent(tokenCounts)
	ctype := pickMostFrequentType(typeCounts)
	if ctype == "" {
		ctype = "component"
	}

	if token == "" {
		return string(ctype) + "-service"
	}
	return token + "-" + string(ctype) + "-service"
}

func pickMostFrequent(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestCount := "", 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

func pickMostFrequentType(counts map[store.ComponentType]int) store.ComponentType {
	keys := make([]store.ComponentType, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var best store.ComponentType
	bestCount := 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
