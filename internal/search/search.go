// Package search finds match ranges over document text for highlight
// consumers. A malformed user-supplied pattern is never an error: search
// degrades to no matches, keeping the editor responsive.
package search

import (
	"regexp"
	"strings"
)

// Match is one byte range of matched text.
type Match struct {
	Start int64
	End   int64
}

// Options configures a search.
type Options struct {
	// Regexp treats the pattern as a regular expression instead of a
	// literal string.
	Regexp bool

	// IgnoreCase folds case during matching.
	IgnoreCase bool

	// MaxMatches bounds the result; zero means unbounded.
	MaxMatches int
}

// Find returns every non-overlapping match of pattern in text, in order.
// An empty pattern, or a malformed regular expression, yields no matches.
func Find(text, pattern string, opts Options) []Match {
	if pattern == "" {
		return nil
	}
	if opts.Regexp {
		return findRegexp(text, pattern, opts)
	}
	return findLiteral(text, pattern, opts)
}

func findRegexp(text, pattern string, opts Options) []Match {
	if opts.IgnoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		// User-supplied search text, not a programmer error.
		return nil
	}

	limit := opts.MaxMatches
	if limit <= 0 {
		limit = -1
	}

	locs := re.FindAllStringIndex(text, limit)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		if loc[0] == loc[1] {
			continue
		}
		matches = append(matches, Match{Start: int64(loc[0]), End: int64(loc[1])})
	}
	return matches
}

func findLiteral(text, pattern string, opts Options) []Match {
	haystack := text
	needle := pattern
	if opts.IgnoreCase {
		haystack = strings.ToLower(text)
		needle = strings.ToLower(pattern)
	}

	var matches []Match
	from := 0
	for {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			break
		}
		start := from + i
		matches = append(matches, Match{Start: int64(start), End: int64(start + len(needle))})
		from = start + len(needle)
		if opts.MaxMatches > 0 && len(matches) >= opts.MaxMatches {
			break
		}
	}
	return matches
}
