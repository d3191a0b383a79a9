// Package normalize produces stable string keys for artist, track, and album
// names. The rules are lossy heuristics: they strip release artifacts
// ("feat.", "(Remix)", "- Single") so that spelling variants of the same
// release group together. Rule order matters and must not change, or keys
// computed in earlier runs stop matching.
package normalize

import (
	"regexp"
	"strings"
)

var (
	featPrefix      = regexp.MustCompile(`(?i)^\s*feat\.?\s*`)
	ftPrefix        = regexp.MustCompile(`(?i)^\s*ft\.?\s*`)
	featuringPrefix = regexp.MustCompile(`(?i)^\s*featuring\s*`)
	anyParens       = regexp.MustCompile(`\s*\([^)]*\)\s*`)

	trailingParens = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	remixSuffix    = regexp.MustCompile(`(?i)\s*-\s*Remix\s*$`)
	mixSuffix      = regexp.MustCompile(`(?i)\s*-\s*Mix\s*$`)
	mixParens      = regexp.MustCompile(`(?i)\s*\([^)]*Mix[^)]*\)\s*`)

	singleSuffix = regexp.MustCompile(`(?i)\s*-\s*Single\s*$`)

	whitespace = regexp.MustCompile(`\s+`)
)

// Artist strips featuring prefixes and parenthesized segments.
func Artist(name string) string {
	if name == "" {
		return ""
	}
	name = featPrefix.ReplaceAllString(name, "")
	name = ftPrefix.ReplaceAllString(name, "")
	name = featuringPrefix.ReplaceAllString(name, "")
	name = anyParens.ReplaceAllString(name, " ")
	return collapse(name)
}

// Track strips a trailing parenthesized segment, remix/mix suffixes, and any
// parenthesized segment mentioning "Mix".
func Track(name string) string {
	if name == "" {
		return ""
	}
	name = trailingParens.ReplaceAllString(name, "")
	name = remixSuffix.ReplaceAllString(name, "")
	name = mixSuffix.ReplaceAllString(name, "")
	name = mixParens.ReplaceAllString(name, "")
	return collapse(name)
}

// Album strips a trailing "- Single" suffix and a trailing parenthesized
// segment.
func Album(name string) string {
	if name == "" {
		return ""
	}
	name = singleSuffix.ReplaceAllString(name, "")
	name = trailingParens.ReplaceAllString(name, "")
	return collapse(name)
}

func collapse(name string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(name, " "))
}
